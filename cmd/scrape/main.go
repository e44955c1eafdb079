// Command scrape fetches the occupancy portal page once, extracts the
// occupancy mapping, and prints it as a plain-text table. Useful for
// checking the portal format without running the service.
//
// Usage:
//
//	go run ./cmd/scrape
//	go run ./cmd/scrape -url http://localhost:9999/occupancy -anchor "var occupancy"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/gym-occupancy-etl/internal/adapter/portal"
	"github.com/couchcryptid/gym-occupancy-etl/internal/config"
	"github.com/couchcryptid/gym-occupancy-etl/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	url := flag.String("url", config.DefaultPortalURL, "portal occupancy page URL")
	anchor := flag.String("anchor", domain.DefaultAnchor, "marker preceding the occupancy literal")
	timeout := flag.Duration("timeout", 10*time.Second, "fetch timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := portal.NewClient(*url, *timeout, nil, logger)

	page, err := client.FetchPage(ctx)
	if err != nil {
		return err
	}

	facilities, err := domain.Extract(page, *anchor, domain.DefaultFacilityNames)
	if err != nil {
		return fmt.Errorf("extract occupancy data: %w", err)
	}
	if len(facilities) == 0 {
		fmt.Println("no tracked facilities in the portal data")
		return nil
	}

	names := make([]string, 0, len(facilities))
	for name := range facilities {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LOCATION\tCLIMBERS\tCAPACITY\tFULL\tBAND")
	for _, name := range names {
		status := facilities[name]
		ratio := status.FillRatio()
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\t%s\n",
			name, status.Occupancy, status.Capacity, ratio*100, domain.Band(ratio))
	}
	return w.Flush()
}

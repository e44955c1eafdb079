// Package render produces the color-coded occupancy table served at the
// service root. Presentation only: it consumes a finished snapshot and
// never touches the parser.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/couchcryptid/gym-occupancy-etl/internal/domain"
)

// Gradient stops: green when empty, yellow at half, red at capacity.
var (
	colorLow  = [3]int{0x2e, 0xcc, 0x40}
	colorMid  = [3]int{0xff, 0xdc, 0x00}
	colorHigh = [3]int{0xff, 0x41, 0x36}
)

// Color maps a fill ratio to a hex CSS color on the green→yellow→red
// gradient. Ratios outside [0,1] are clamped for display; the underlying
// data keeps the unclamped value.
func Color(ratio float64) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	var from, to [3]int
	var t float64
	if ratio < 0.5 {
		from, to = colorLow, colorMid
		t = ratio * 2
	} else {
		from, to = colorMid, colorHigh
		t = (ratio - 0.5) * 2
	}

	var rgb [3]int
	for i := range rgb {
		rgb[i] = from[i] + int(t*float64(to[i]-from[i]))
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

type row struct {
	Name      string
	Occupancy int
	Capacity  int
	Percent   int
	Band      string
	Color     string
}

type page struct {
	Rows      []row
	FetchedAt string
}

var tableTemplate = template.Must(template.New("occupancy").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Gym Occupancy</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
td.count { text-align: right; }
</style>
</head>
<body>
<h1>Gym Occupancy</h1>
<table>
<tr><th>Location</th><th>Climbers</th><th>Capacity</th><th>Full</th></tr>
{{- range .Rows}}
<tr style="background-color: {{.Color}}" title="{{.Band}}">
<td>{{.Name}}</td><td class="count">{{.Occupancy}}</td><td class="count">{{.Capacity}}</td><td class="count">{{.Percent}}%</td>
</tr>
{{- end}}
</table>
<p>Fetched at {{.FetchedAt}}</p>
</body>
</html>
`))

// Table renders a snapshot as an HTML page, rows sorted by facility name.
func Table(snap domain.Snapshot) ([]byte, error) {
	names := make([]string, 0, len(snap.Facilities))
	for name := range snap.Facilities {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]row, 0, len(names))
	for _, name := range names {
		status := snap.Facilities[name]
		ratio := status.FillRatio()
		rows = append(rows, row{
			Name:      name,
			Occupancy: status.Occupancy,
			Capacity:  status.Capacity,
			Percent:   int(ratio * 100),
			Band:      domain.Band(ratio),
			Color:     Color(ratio),
		})
	}

	var buf bytes.Buffer
	if err := tableTemplate.Execute(&buf, page{
		Rows:      rows,
		FetchedAt: snap.FetchedAt.Format("2006-01-02 15:04:05 MST"),
	}); err != nil {
		return nil, fmt.Errorf("render occupancy table: %w", err)
	}
	return buf.Bytes(), nil
}

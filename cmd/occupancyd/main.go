// Command occupancyd polls the gym occupancy portal, serves the color-coded
// table and JSON API, and optionally publishes snapshots to Kafka.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/gym-occupancy-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/gym-occupancy-etl/internal/adapter/kafka"
	"github.com/couchcryptid/gym-occupancy-etl/internal/adapter/portal"
	"github.com/couchcryptid/gym-occupancy-etl/internal/config"
	"github.com/couchcryptid/gym-occupancy-etl/internal/observability"
	"github.com/couchcryptid/gym-occupancy-etl/internal/poller"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := portal.NewClient(cfg.PortalURL, cfg.FetchTimeout, metrics, logger)

	// Snapshot publishing is feature-flagged via KAFKA_ENABLED.
	var publisher poller.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		metrics.PublishEnabled.Set(1)
		logger.Info("kafka snapshot publishing enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka snapshot publishing disabled")
	}

	p := poller.New(fetcher, publisher, cfg.PortalAnchor, cfg.FacilityNames, cfg.PollInterval, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the poll loop.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("poller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

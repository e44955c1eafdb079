// Package poller runs the fetch→extract→publish loop.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/gym-occupancy-etl/internal/domain"
	"github.com/couchcryptid/gym-occupancy-etl/internal/observability"
)

// Fetcher retrieves the raw portal page.
type Fetcher interface {
	FetchPage(ctx context.Context) (string, error)
}

// Publisher writes a snapshot to the sink.
type Publisher interface {
	PublishSnapshot(ctx context.Context, snap domain.Snapshot) error
}

// Poller periodically fetches the portal page, extracts the occupancy
// mapping, stores the latest snapshot, exports per-facility gauges, and
// optionally publishes each snapshot.
type Poller struct {
	fetcher   Fetcher
	publisher Publisher // nil disables publishing
	anchor    string
	names     map[string]string
	interval  time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics

	ready atomic.Bool

	mu        sync.RWMutex
	latest    domain.Snapshot
	hasLatest bool
}

// New creates a Poller. Pass a nil publisher to disable snapshot publishing.
func New(fetcher Fetcher, publisher Publisher, anchor string, names map[string]string, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Poller {
	return &Poller{
		fetcher:   fetcher,
		publisher: publisher,
		anchor:    anchor,
		names:     names,
		interval:  interval,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one poll cycle has succeeded.
// Readiness never flips back: serving a stale snapshot beats flapping.
func (p *Poller) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no occupancy snapshot fetched yet")
	}
	return nil
}

// Latest returns the most recent snapshot, if any poll has succeeded.
func (p *Poller) Latest() (domain.Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest, p.hasLatest
}

// Run executes the poll loop until the context is cancelled. Failed cycles
// retry with exponential backoff; successful cycles wait the configured
// interval.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", "interval", p.interval, "facilities", len(p.names))
	p.metrics.PollerRunning.Set(1)
	defer p.metrics.PollerRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during portal outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if err := p.pollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("poll cycle failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}

		backoff = 200 * time.Millisecond
		if !sleepWithContext(ctx, p.interval) {
			return nil
		}
	}
}

// pollOnce runs one fetch-extract-store-publish cycle. A publish failure is
// logged and counted but does not fail the cycle: the snapshot is already
// stored and exported by then.
func (p *Poller) pollOnce(ctx context.Context) error {
	page, err := p.fetcher.FetchPage(ctx)
	if err != nil {
		p.metrics.FetchesTotal.WithLabelValues("fetch_error").Inc()
		return err
	}

	facilities, err := domain.Extract(page, p.anchor, p.names)
	if err != nil {
		p.metrics.FetchesTotal.WithLabelValues("parse_error").Inc()
		return err
	}
	p.metrics.FetchesTotal.WithLabelValues("success").Inc()

	snap := domain.NewSnapshot(facilities)

	p.mu.Lock()
	p.latest = snap
	p.hasLatest = true
	p.mu.Unlock()
	p.ready.Store(true)
	p.metrics.SnapshotsStored.Inc()
	p.exportGauges(snap)

	p.logger.Info("occupancy snapshot stored", "facilities", len(snap.Facilities), "fetched_at", snap.FetchedAt)

	if p.publisher != nil {
		if err := p.publisher.PublishSnapshot(ctx, snap); err != nil {
			p.metrics.PublishErrors.Inc()
			p.logger.Error("snapshot publish failed", "error", err)
		} else {
			p.metrics.SnapshotsPublished.Inc()
		}
	}

	return nil
}

func (p *Poller) exportGauges(snap domain.Snapshot) {
	for name, status := range snap.Facilities {
		p.metrics.FacilityOccupancy.WithLabelValues(name).Set(float64(status.Occupancy))
		p.metrics.FacilityCapacity.WithLabelValues(name).Set(float64(status.Capacity))
		p.metrics.FacilityFillRatio.WithLabelValues(name).Set(status.FillRatio())
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

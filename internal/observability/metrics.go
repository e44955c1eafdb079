package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// occupancy poller.
type Metrics struct {
	FetchesTotal    *prometheus.CounterVec // labels: outcome={success,fetch_error,parse_error}
	SnapshotsStored prometheus.Counter
	PollerRunning   prometheus.Gauge

	FetchDuration prometheus.Histogram
	PageBytes     prometheus.Histogram

	// Per-facility occupancy export, labeled by display name.
	FacilityOccupancy *prometheus.GaugeVec
	FacilityCapacity  *prometheus.GaugeVec
	FacilityFillRatio *prometheus.GaugeVec

	// Snapshot publishing metrics.
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
	PublishEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all poller metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gym_occupancy",
			Name:      "fetches_total",
			Help:      "Portal fetch cycles by outcome.",
		}, []string{"outcome"}),
		SnapshotsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gym_occupancy",
			Name:      "snapshots_stored_total",
			Help:      "Total snapshots stored as the latest result.",
		}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gym_occupancy",
			Name:      "poller_running",
			Help:      "1 when the poll loop is active, 0 when shut down.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gym_occupancy",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a portal page fetch.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		PageBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gym_occupancy",
			Name:      "page_bytes",
			Help:      "Size of the fetched portal page in bytes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		FacilityOccupancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gym_occupancy",
			Name:      "facility_occupancy",
			Help:      "Current head count per facility.",
		}, []string{"facility"}),
		FacilityCapacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gym_occupancy",
			Name:      "facility_capacity",
			Help:      "Configured capacity per facility.",
		}, []string{"facility"}),
		FacilityFillRatio: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gym_occupancy",
			Name:      "facility_fill_ratio",
			Help:      "Occupancy divided by capacity per facility (unclamped).",
		}, []string{"facility"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gym_occupancy",
			Name:      "snapshots_published_total",
			Help:      "Snapshots written to the Kafka sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gym_occupancy",
			Name:      "publish_errors_total",
			Help:      "Failed snapshot publishes.",
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gym_occupancy",
			Name:      "publish_enabled",
			Help:      "1 when Kafka snapshot publishing is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.FetchesTotal,
		m.SnapshotsStored,
		m.PollerRunning,
		m.FetchDuration,
		m.PageBytes,
		m.FacilityOccupancy,
		m.FacilityCapacity,
		m.FacilityFillRatio,
		m.SnapshotsPublished,
		m.PublishErrors,
		m.PublishEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchesTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gym_occupancy", Name: "fetches_total"}, []string{"outcome"}),
		SnapshotsStored:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gym_occupancy", Name: "snapshots_stored_total"}),
		PollerRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "gym_occupancy", Name: "poller_running"}),
		FetchDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gym_occupancy", Name: "fetch_duration_seconds"}),
		PageBytes:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gym_occupancy", Name: "page_bytes"}),
		FacilityOccupancy:  prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "gym_occupancy", Name: "facility_occupancy"}, []string{"facility"}),
		FacilityCapacity:   prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "gym_occupancy", Name: "facility_capacity"}, []string{"facility"}),
		FacilityFillRatio:  prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "gym_occupancy", Name: "facility_fill_ratio"}, []string{"facility"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gym_occupancy", Name: "snapshots_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gym_occupancy", Name: "publish_errors_total"}),
		PublishEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "gym_occupancy", Name: "publish_enabled"}),
	}
}

package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	namespace = "astro"

	// PushJob is the Pushgateway job name for generator runs.
	PushJob = "astro_snapshots"
)

// Metrics holds the Prometheus collectors for a generator run. Each Metrics
// owns its registry, so a process (or test) can create as many as it needs.
type Metrics struct {
	Registry *prometheus.Registry

	SnapshotsWritten   *prometheus.CounterVec // labels: type={daily,weekly,monthly}
	SnapshotsSkipped   *prometheus.CounterVec // labels: type={daily,weekly,monthly}
	SnapshotsPublished prometheus.Counter
	EphemerisDuration  prometheus.Histogram
	Runs               *prometheus.CounterVec // labels: outcome={generated,already_present,error}
	LastSuccess        prometheus.Gauge
}

// NewMetrics creates all generator metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		SnapshotsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_written_total",
			Help:      "Snapshot files created, by period type.",
		}, []string{"type"}),
		SnapshotsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_skipped_total",
			Help:      "Snapshot files left untouched because they already existed, by period type.",
		}, []string{"type"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Snapshots published to Kafka.",
		}),
		EphemerisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ephemeris_duration_seconds",
			Help:      "Time spent computing all planet positions for a run.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Generator runs by outcome.",
		}, []string{"outcome"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that finished without error.",
		}),
	}

	m.Registry.MustRegister(
		m.SnapshotsWritten,
		m.SnapshotsSkipped,
		m.SnapshotsPublished,
		m.EphemerisDuration,
		m.Runs,
		m.LastSuccess,
		collectors.NewGoCollector(),
	)

	return m
}

// ObserveRun records the outcome of a run finished at now.
func (m *Metrics) ObserveRun(outcome string, now time.Time) {
	m.Runs.WithLabelValues(outcome).Inc()
	if outcome != OutcomeError {
		m.LastSuccess.Set(float64(now.Unix()))
	}
}

// Run outcomes.
const (
	OutcomeGenerated      = "generated"
	OutcomeAlreadyPresent = "already_present"
	OutcomeError          = "error"
)

// Push sends the registry to a Prometheus Pushgateway, replacing the
// previous values for the job.
func (m *Metrics) Push(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := push.New(url, PushJob).Gatherer(m.Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

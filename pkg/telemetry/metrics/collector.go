package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/blackstar257/csvlint/pkg/csv/defect"
)

// Collector manages the Prometheus metrics exposed by long-running csvlint
// modes. It registers all metrics on construction and provides a unified
// interface for recording validation outcomes.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	// Validation run counter by verdict ("valid", "invalid", "fatal")
	runsTotal *prometheus.CounterVec

	// Defect counter by category
	defectsTotal *prometheus.CounterVec

	// Records scanned across all runs
	recordsScannedTotal prometheus.Counter

	// Duration of a single file validation
	checkDuration prometheus.Histogram

	// Files currently under watch
	filesWatched prometheus.Gauge

	// Filesystem events received in watch mode, by outcome
	// ("validated", "debounced", "ignored")
	watchEventsTotal *prometheus.CounterVec
}

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled turns metric recording on. A disabled collector still
	// registers its metrics but discards all updates.
	Enabled bool

	// Namespace is the metric name prefix (defaults to "csvlint").
	Namespace string
}

// Verdict labels for the runs_total counter.
const (
	VerdictValid   = "valid"
	VerdictInvalid = "invalid"
	VerdictFatal   = "fatal"
)

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "csvlint"
	}

	c := &Collector{
		enabled:  cfg.Enabled,
		registry: registry,

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of validation runs by verdict",
			},
			[]string{"verdict"},
		),

		defectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "defects_total",
				Help:      "Total number of validation defects by category",
			},
			[]string{"category"},
		),

		recordsScannedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_scanned_total",
				Help:      "Total number of CSV records scanned",
			},
		),

		checkDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "check_duration_seconds",
				Help:      "Duration of a single file validation in seconds",
				Buckets:   []float64{0.001, 0.005, 0.025, 0.1, 0.5, 2.5, 10, 60},
			},
		),

		filesWatched: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "files_watched",
				Help:      "Number of files currently under watch",
			},
		),

		watchEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "watch_events_total",
				Help:      "Filesystem events received in watch mode by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		c.runsTotal,
		c.defectsTotal,
		c.recordsScannedTotal,
		c.checkDuration,
		c.filesWatched,
		c.watchEventsTotal,
	)

	return c
}

// RecordRun records the outcome of a completed validation run.
func (c *Collector) RecordRun(result *defect.Result, records int64, duration time.Duration) {
	if !c.enabled {
		return
	}

	verdict := VerdictValid
	switch {
	case result.Fatal:
		verdict = VerdictFatal
	case !result.Valid:
		verdict = VerdictInvalid
	}
	c.runsTotal.WithLabelValues(verdict).Inc()

	for category, count := range result.CountByCategory() {
		c.defectsTotal.WithLabelValues(string(category)).Add(float64(count))
	}

	if records > 0 {
		c.recordsScannedTotal.Add(float64(records))
	}
	c.checkDuration.Observe(duration.Seconds())
}

// SetFilesWatched updates the gauge of files currently under watch.
func (c *Collector) SetFilesWatched(n int) {
	if !c.enabled {
		return
	}
	c.filesWatched.Set(float64(n))
}

// RecordWatchEvent records a filesystem event outcome in watch mode.
func (c *Collector) RecordWatchEvent(outcome string) {
	if !c.enabled {
		return
	}
	c.watchEventsTotal.WithLabelValues(outcome).Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

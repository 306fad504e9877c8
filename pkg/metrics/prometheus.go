// Package metrics provides Prometheus metrics for the rating engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus metrics for engine computations and batch
// sweeps.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	enabled   bool
	registry  prometheus.Registerer

	entitiesProcessed *prometheus.CounterVec
	entitiesSkipped   *prometheus.CounterVec
	computeDuration   *prometheus.HistogramVec
	sweepDuration     *prometheus.HistogramVec
	lastSweepUnix     *prometheus.GaugeVec
	storeErrors       prometheus.Counter
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for duration metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithEnabled enables or disables metrics collection.
func WithEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Global manager on a private registry so binaries that never expose
// metrics do not pollute the default one.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

var globalManager *Manager //nolint:gochecknoglobals // singleton manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// Get returns the global metrics manager.
func Get() *Manager { return globalManager }

// Registry returns the registry the global manager registers on, for
// binaries that want to expose it.
func Registry() *prometheus.Registry { return customRegistry }

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "clutch",
		subsystem: "engine",
		buckets:   prometheus.DefBuckets,
		enabled:   true,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	auto := promauto.With(m.registry)

	m.entitiesProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "entities_processed_total",
		Help:      "Entities successfully rated, by sweep kind",
	}, []string{"sweep"})

	m.entitiesSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "entities_skipped_total",
		Help:      "Entities skipped due to per-entity failures, by sweep kind",
	}, []string{"sweep"})

	m.computeDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "compute_duration_seconds",
		Help:      "Per-entity computation duration",
		Buckets:   m.buckets,
	}, []string{"sweep"})

	m.sweepDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_duration_seconds",
		Help:      "Full batch sweep duration",
		Buckets:   m.buckets,
	}, []string{"sweep"})

	m.lastSweepUnix = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_sweep_timestamp_seconds",
		Help:      "Unix time the last sweep of each kind finished",
	}, []string{"sweep"})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Store read/write failures observed during sweeps",
	})
}

// RecordProcessed counts one successfully rated entity.
func (m *Manager) RecordProcessed(sweep string) {
	if m.enabled {
		m.entitiesProcessed.WithLabelValues(sweep).Inc()
	}
}

// RecordSkipped counts one entity skipped due to a failure.
func (m *Manager) RecordSkipped(sweep string) {
	if m.enabled {
		m.entitiesSkipped.WithLabelValues(sweep).Inc()
	}
}

// RecordCompute observes one entity's computation duration.
func (m *Manager) RecordCompute(sweep string, d time.Duration) {
	if m.enabled {
		m.computeDuration.WithLabelValues(sweep).Observe(d.Seconds())
	}
}

// RecordSweep observes a completed sweep.
func (m *Manager) RecordSweep(sweep string, d time.Duration, finished time.Time) {
	if !m.enabled {
		return
	}
	m.sweepDuration.WithLabelValues(sweep).Observe(d.Seconds())
	m.lastSweepUnix.WithLabelValues(sweep).Set(float64(finished.Unix()))
}

// RecordStoreError counts a store failure.
func (m *Manager) RecordStoreError() {
	if m.enabled {
		m.storeErrors.Inc()
	}
}

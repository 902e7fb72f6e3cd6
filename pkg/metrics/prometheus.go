// Package metrics provides Prometheus metrics for the Prime Scorecard engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the scorecard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Generation outcomes
	scorecardsComputed prometheus.Counter
	scorecardsReused   prometheus.Counter
	primeScoreNull     prometheus.Counter
	computeDuration    prometheus.Histogram

	// Evidence intake quality
	evidenceItems    prometheus.Counter
	evidenceExcluded prometheus.Counter

	// Store state
	subjectsTracked prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "prime",
		subsystem:        "scorecard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scorecardsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "computed_total",
		Help:      "Total number of scorecards computed fresh",
	})

	m.scorecardsReused = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reused_total",
		Help:      "Total number of generation requests answered from the reuse guard",
	})

	m.primeScoreNull = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prime_null_total",
		Help:      "Total number of computed scorecards with no prime score (incomplete domain coverage)",
	})

	m.computeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "compute_duration_milliseconds",
		Help:      "Histogram of scorecard computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.evidenceItems = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evidence_items_total",
		Help:      "Total number of evidence items seen across computed scorecards",
	})

	m.evidenceExcluded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evidence_excluded_total",
		Help:      "Total number of evidence items excluded as invalid or unestimable",
	})

	m.subjectsTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "subjects_tracked",
		Help:      "Number of subjects with at least one stored scorecard",
	})
}

// Get returns the global metrics manager.
func Get() *Manager {
	return globalManager
}

// Registry returns the custom Prometheus registry backing the global manager.
func Registry() *prometheus.Registry {
	return customRegistry
}

// RecordComputed records one fresh scorecard computation.
func (m *Manager) RecordComputed(duration time.Duration, evidenceItems int, primeNull bool) {
	if !m.enabled {
		return
	}
	m.scorecardsComputed.Inc()
	m.computeDuration.Observe(float64(duration.Nanoseconds()) / 1e6)
	m.evidenceItems.Add(float64(evidenceItems))
	if primeNull {
		m.primeScoreNull.Inc()
	}
}

// RecordReused records one generation request served by the reuse guard.
func (m *Manager) RecordReused() {
	if !m.enabled {
		return
	}
	m.scorecardsReused.Inc()
}

// RecordExcludedEvidence counts evidence items dropped as invalid.
func (m *Manager) RecordExcludedEvidence(n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.evidenceExcluded.Add(float64(n))
}

// SetSubjectsTracked updates the tracked-subject gauge.
func (m *Manager) SetSubjectsTracked(n int) {
	if !m.enabled {
		return
	}
	m.subjectsTracked.Set(float64(n))
}

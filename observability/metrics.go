package observability

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records decision-engine activity: how often views are
// computed, what the gates decided, and how stale the mirror looked.
type EngineMetrics struct {
	evaluations *prometheus.CounterVec
	staleness   *prometheus.GaugeVec
	backend     *prometheus.HistogramVec
}

var (
	engineMetricsOnce sync.Once
	engineRegistry    *EngineMetrics
)

// Engine returns the lazily-initialised engine metrics registry.
func Engine() *EngineMetrics {
	engineMetricsOnce.Do(func() {
		engineRegistry = &EngineMetrics{
			evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "moneycircle",
				Subsystem: "engine",
				Name:      "evaluations_total",
				Help:      "Eligibility evaluations segmented by circle status.",
			}, []string{"status"}),
			staleness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "moneycircle",
				Subsystem: "engine",
				Name:      "staleness_level",
				Help:      "Most recent staleness verdict per circle (0 fresh, 1 warning, 2 critical).",
			}, []string{"circle"}),
			backend: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "moneycircle",
				Subsystem: "backend",
				Name:      "request_seconds",
				Help:      "Backend mirror request latency.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"operation", "outcome"}),
		}
		prometheus.MustRegister(engineRegistry.evaluations, engineRegistry.staleness, engineRegistry.backend)
	})
	return engineRegistry
}

// RecordEvaluation counts one view computation for the given circle status.
func (m *EngineMetrics) RecordEvaluation(status string) {
	if m == nil {
		return
	}
	status = strings.TrimSpace(status)
	if status == "" {
		status = "unknown"
	}
	m.evaluations.WithLabelValues(status).Inc()
}

// RecordStaleness publishes the latest staleness verdict for a circle.
func (m *EngineMetrics) RecordStaleness(circleID string, level int) {
	if m == nil || circleID == "" {
		return
	}
	m.staleness.WithLabelValues(circleID).Set(float64(level))
}

// ObserveBackend records one backend round trip.
func (m *EngineMetrics) ObserveBackend(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.backend.WithLabelValues(operation, outcome).Observe(seconds)
}

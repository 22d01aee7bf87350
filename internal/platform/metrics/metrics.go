package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ComplaintsSubmitted prometheus.Counter
	StatusTransitions   *prometheus.CounterVec
	DegradedOperations  *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ComplaintsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "careline_complaints_submitted_total",
			Help: "Total number of complaints submitted.",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "careline_status_transitions_total",
			Help: "Total number of complaint status transitions by target status.",
		}, []string{"status"}),
		DegradedOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "careline_degraded_operations_total",
			Help: "Operations that proceeded without an optional sub-resource.",
		}, []string{"resource"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "careline_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncDegraded records an operation that skipped an optional sub-resource.
// Nil-safe so services can run without metrics in tests.
func (m *Metrics) IncDegraded(resource string) {
	if m == nil {
		return
	}
	m.DegradedOperations.WithLabelValues(resource).Inc()
}

// IncSubmitted increments the submissions counter.
func (m *Metrics) IncSubmitted() {
	if m == nil {
		return
	}
	m.ComplaintsSubmitted.Inc()
}

// IncTransition records a status transition toward the given status.
func (m *Metrics) IncTransition(status string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(status).Inc()
}

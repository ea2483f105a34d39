package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsRecorder exposes service timings and result counters as
// Prometheus collectors registered on the supplied registerer.
type PrometheusMetricsRecorder struct {
	durations *prometheus.HistogramVec
	results   *prometheus.CounterVec
}

// NewPrometheusMetricsRecorder constructs a recorder and registers its
// collectors. A nil registerer falls back to the default registry.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PrometheusMetricsRecorder{
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "physiconf",
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "physiconf",
			Name:      "operations_total",
			Help:      "Service operation results by status.",
		}, []string{"operation", "status"}),
	}
	if err := reg.Register(r.durations); err != nil {
		return nil, err
	}
	if err := reg.Register(r.results); err != nil {
		return nil, err
	}
	return r, nil
}

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(op string, d time.Duration, status string) {
	r.durations.WithLabelValues(op).Observe(d.Seconds())
	r.results.WithLabelValues(op, status).Inc()
}

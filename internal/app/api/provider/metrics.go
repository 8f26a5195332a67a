package provider

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "lyriq"

// Metrics records remote call and interaction outcomes as prometheus series.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	errors       *prometheus.CounterVec
	interactions *prometheus.CounterVec
	fallbacks    prometheus.Counter
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "provider_requests_total",
			Help:      "Remote provider calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Latency of remote provider calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"provider"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "provider_errors_total",
			Help:      "Remote provider failures by provider and error code.",
		}, []string{"provider", "code"}),
		interactions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "interactions_total",
			Help:      "Finished interactions by final stage.",
		}, []string{"stage"}),
		fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "format_fallbacks_total",
			Help:      "Interactions that showed the raw transcript because formatting failed.",
		}),
	}
}

// RecordSuccess records a successful provider call
func (m *Metrics) RecordSuccess(provider string, latency time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(provider, "success").Inc()
	m.latency.WithLabelValues(provider).Observe(latency.Seconds())
}

// RecordFailure records a failed provider call
func (m *Metrics) RecordFailure(provider string, errorCode string, latency time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(provider, "failure").Inc()
	m.latency.WithLabelValues(provider).Observe(latency.Seconds())
	m.errors.WithLabelValues(provider, errorCode).Inc()
}

// RecordInteraction records the final stage of one interaction.
func (m *Metrics) RecordInteraction(finalStage string, fallback bool) {
	if m == nil {
		return
	}
	m.interactions.WithLabelValues(finalStage).Inc()
	if fallback {
		m.fallbacks.Inc()
	}
}

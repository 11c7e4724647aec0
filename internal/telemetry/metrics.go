package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grievance"

// Metrics holds the prometheus collectors on a dedicated registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	CasesSubmitted    *prometheus.CounterVec
	Escalations       *prometheus.CounterVec
	EffectFailures    *prometheus.CounterVec
	Communications    *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewMetrics creates and registers every collector.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		CasesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cases_submitted_total",
			Help:      "Total number of cases submitted",
		}, []string{"channel"}),
		Escalations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_total",
			Help:      "Total number of committed escalations",
		}, []string{"trigger", "type"}),
		EffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effect_failures_total",
			Help:      "Total number of post-commit effects that failed",
		}, []string{"effect"}),
		Communications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "communications_total",
			Help:      "Total number of recorded communications",
		}, []string{"direction", "channel", "outcome"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.CasesSubmitted, m.Escalations, m.EffectFailures, m.Communications,
		m.HTTPRequestsTotal, m.HTTPDuration)
	return m
}

// Registry exposes the registry for tests and custom exposition.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CaseSubmitted(channel string) {
	if m == nil {
		return
	}
	m.CasesSubmitted.WithLabelValues(channel).Inc()
}

func (m *Metrics) Escalated(trigger, typ string) {
	if m == nil {
		return
	}
	m.Escalations.WithLabelValues(trigger, typ).Inc()
}

func (m *Metrics) EffectFailed(effect string) {
	if m == nil {
		return
	}
	m.EffectFailures.WithLabelValues(effect).Inc()
}

func (m *Metrics) Communication(direction, channel, outcome string) {
	if m == nil {
		return
	}
	m.Communications.WithLabelValues(direction, channel, outcome).Inc()
}

// Package metrics holds the Prometheus collectors of the service
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records upstream calls and flow outcomes on a private registry
type Metrics struct {
	registry         *prometheus.Registry
	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	flowOutcomes     *prometheus.CounterVec
}

const namespace = "orchestrate"

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// New creates the collectors and registers them with a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_calls_total",
				Help:      "Total number of upstream calls by outcome",
			},
			[]string{"upstream", "outcome"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_duration_seconds",
				Help:      "Duration of upstream calls",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"upstream"},
		),
		flowOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "flow_outcomes_total",
				Help:      "Total number of completed flows by outcome",
			},
			[]string{"flow", "outcome"},
		),
	}
	m.registry.MustRegister(
		m.upstreamCalls,
		m.upstreamDuration,
		m.flowOutcomes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveUpstream records one upstream call. A nil Metrics discards it
func (m *Metrics) ObserveUpstream(
	upstream, outcome string, dur time.Duration,
) {
	if m == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(upstream, outcome).Inc()
	m.upstreamDuration.WithLabelValues(upstream).Observe(dur.Seconds())
}

// FlowOutcome records the result of one flow. A nil Metrics discards it
func (m *Metrics) FlowOutcome(flow, outcome string) {
	if m == nil {
		return
	}
	m.flowOutcomes.WithLabelValues(flow, outcome).Inc()
}

// UpstreamCalls exposes the call counter for inspection in tests
func (m *Metrics) UpstreamCalls() *prometheus.CounterVec {
	return m.upstreamCalls
}

// FlowOutcomes exposes the outcome counter for inspection in tests
func (m *Metrics) FlowOutcomes() *prometheus.CounterVec {
	return m.flowOutcomes
}

// Package metrics exposes Prometheus collectors for tool calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors of one process. Each instance owns its
// registry so tests can build as many as they like.
type Metrics struct {
	registry     *prometheus.Registry
	calls        *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosolve_tool_calls_total",
				Help: "Total number of tool calls by tool, solving strategy and outcome",
			},
			[]string{"tool", "strategy", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gosolve_tool_duration_seconds",
				Help:    "Duration of tool calls that reached the solver",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"tool"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosolve_cache_lookups_total",
				Help: "Result cache lookups by result (hit, miss, error)",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(m.calls, m.duration, m.cacheLookups)
	return m
}

// ObserveCall records one finished call.
func (m *Metrics) ObserveCall(tool, strategy, outcome string, d time.Duration) {
	if strategy == "" {
		strategy = "none"
	}
	m.calls.WithLabelValues(tool, strategy, outcome).Inc()
	m.duration.WithLabelValues(tool).Observe(d.Seconds())
}

// ObserveCache records a cache lookup result.
func (m *Metrics) ObserveCache(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Registry is the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package metrics exposes Prometheus metrics for the relay.
//
// Metrics:
//   - legacyrelay_requests_total: inbound requests by dialect and response status
//   - legacyrelay_backend_requests_total: backend calls by dialect and outcome
//   - legacyrelay_backend_duration_seconds: backend call latency by dialect
//   - legacyrelay_replaced_characters_total: characters lost to Mac OS Roman substitution
//
// All methods are safe to call on a nil *Collector, which records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "legacyrelay"

// Collector owns the relay's metric registry.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	backendTotal    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	replacedChars   prometheus.Counter
}

// NewCollector creates a collector registered on registry, or on a fresh
// registry when registry is nil.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of relay requests by dialect and response status.",
			},
			[]string{"dialect", "status"},
		),
		backendTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_requests_total",
				Help:      "Total number of backend calls by dialect and outcome.",
			},
			[]string{"dialect", "outcome"},
		),
		backendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_duration_seconds",
				Help:      "Duration of backend calls in seconds.",
				// Completions on these models take from a few hundred ms to tens of seconds.
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"dialect"},
		),
		replacedChars: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replaced_characters_total",
			Help:      "Characters replaced because Mac OS Roman cannot represent them.",
		}),
	}
	registry.MustRegister(c.requestsTotal, c.backendTotal, c.backendDuration, c.replacedChars)
	return c
}

// ObserveRequest counts a finished inbound request.
func (c *Collector) ObserveRequest(dialect string, status int) {
	if c == nil {
		return
	}
	if dialect == "" {
		dialect = "none"
	}
	c.requestsTotal.WithLabelValues(dialect, strconv.Itoa(status)).Inc()
}

// ObserveBackend records one backend call.
func (c *Collector) ObserveBackend(dialect, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.backendTotal.WithLabelValues(dialect, outcome).Inc()
	c.backendDuration.WithLabelValues(dialect).Observe(elapsed.Seconds())
}

// AddReplaced adds n lossy substitutions.
func (c *Collector) AddReplaced(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.replacedChars.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

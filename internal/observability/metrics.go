package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the prometheus collectors exported by the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	FaultsTotal     *prometheus.CounterVec
	TokensIssued    prometheus.Counter
	TokensReused    prometheus.Counter
}

// NewMetrics builds and registers collectors on a fresh registry.
func NewMetrics() (*Metrics, *prometheus.Registry) {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		FaultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "identity_faults_total",
				Help: "Domain faults surfaced to callers, by fault code.",
			},
			[]string{"code"},
		),
		TokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "identity_tokens_issued_total",
			Help: "Tokens minted by authenticate.",
		}),
		TokensReused: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "identity_tokens_reused_total",
			Help: "Unexpired tokens reused by authenticate.",
		}),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.FaultsTotal,
		m.TokensIssued,
		m.TokensReused,
	)
	return m, registry
}

// RecordFault increments the fault counter for a code.
func (m *Metrics) RecordFault(code string) {
	if m == nil {
		return
	}
	m.FaultsTotal.WithLabelValues(code).Inc()
}

// Handler exposes the registry for the metrics side listener.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

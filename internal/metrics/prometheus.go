package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics holds the Prometheus collectors for the API server.
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ChaosFaults     prometheus.Counter
}

// NewHTTPMetrics creates and registers the server's Prometheus collectors
// on the given registry (use prometheus.NewRegistry per server so tests can
// instantiate more than one).
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talentflow_http_requests_total",
			Help: "Total number of HTTP requests handled, by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "talentflow_http_request_duration_seconds",
			Help:    "HTTP request latency, including injected chaos latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ChaosFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "talentflow_chaos_faults_total",
			Help: "Total number of simulated failures injected on mutating requests",
		}),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.ChaosFaults)
	return m
}

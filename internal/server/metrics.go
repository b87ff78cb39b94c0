package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the API's collectors. Each server owns its registry so
// several can coexist in one process.
type Metrics struct {
	Registry *prometheus.Registry

	// Requests by route pattern and status code
	Requests *prometheus.CounterVec

	// Paths returned by /api/paths
	PathsComputed prometheus.Counter

	// Handler latency by route pattern
	Latency *prometheus.HistogramVec
}

// NewMetrics creates a registry with the API collectors registered.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gcpath_http_requests_total",
			Help: "Total API requests by route and status code",
		}, []string{"route", "code"}),

		PathsComputed: f.NewCounter(prometheus.CounterOpts{
			Name: "gcpath_paths_computed_total",
			Help: "Total green-card paths returned by the path engine",
		}),

		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gcpath_http_request_duration_seconds",
			Help:    "Duration of API requests by route",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
	}
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, statusLabel(code)).Inc()
	m.Latency.WithLabelValues(route).Observe(d.Seconds())
}

// AddPaths counts paths returned to a caller.
func (m *Metrics) AddPaths(n int) {
	if m != nil {
		m.PathsComputed.Add(float64(n))
	}
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	}
	return "2xx"
}

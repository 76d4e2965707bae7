package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the service
type Metrics struct {
	// HTTP requests by method, route and status
	RequestsTotal *prometheus.CounterVec

	// HTTP request latency by method and route
	RequestDuration *prometheus.HistogramVec

	// People operations by operation and outcome kind
	PeopleOperations *prometheus.CounterVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "people_api_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "people_api_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),

		PeopleOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "people_api_operations_total",
			Help: "People repository operations by operation and result",
		}, []string{"operation", "result"}),
	}
}

// ObserveRequest records a finished HTTP request
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m != nil {
		m.RequestsTotal.WithLabelValues(method, route, status).Inc()
		m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	}
}

// IncrementOperation records a people operation and its result
func (m *Metrics) IncrementOperation(operation, result string) {
	if m != nil {
		m.PeopleOperations.WithLabelValues(operation, result).Inc()
	}
}

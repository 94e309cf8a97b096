package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the instruments used for monitoring the application.
// It covers backend request counts and latency, session operations,
// dashboard refresh cycles and the size of the employee directory as
// seen on the last refresh.
type Metrics struct {
	APIRequests        *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	SessionOps         *prometheus.CounterVec
	Refreshes          *prometheus.CounterVec
	LastRefresh        prometheus.Gauge
	EmployeesTotal     *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance registered on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		APIRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hera_api_requests_total",
			Help: "Total requests issued to the HR backend, by operation and outcome.",
		}, []string{"operation", "status"}),
		APIRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hera_api_request_duration_seconds",
			Help:    "Duration of requests to the HR backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		SessionOps: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hera_session_operations_total",
			Help: "Total session operations (login, register, logout, restore), by outcome.",
		}, []string{"operation", "status"}),
		Refreshes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hera_dashboard_refreshes_total",
			Help: "Total times the dashboard snapshot has completed its full cycle.",
		}, []string{"status"}),
		LastRefresh: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "hera_last_successful_refresh_timestamp",
			Help: "Last time a dashboard snapshot was built successfully.",
		}),
		EmployeesTotal: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "hera_employees_total",
			Help: "Employees in the directory on the last snapshot, by state.",
		}, []string{"state"}),
	}

	metrics.Refreshes.WithLabelValues("success")
	metrics.Refreshes.WithLabelValues("failure")

	return metrics
}

// ObserveRequest records one backend request outcome.
func (m *Metrics) ObserveRequest(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.APIRequests.WithLabelValues(operation, status).Inc()
	m.APIRequestDuration.WithLabelValues(operation).Observe(seconds)
}

package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	apiErrorsTotal         *prometheus.CounterVec
	eventsCreatedTotal     prometheus.Counter
	reportsSubmittedTotal  prometheus.Counter
	reportsReviewedTotal   prometheus.Counter
	notificationsPublished *prometheus.CounterVec
	streamClientsActive    prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "internlink_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "internlink_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "internlink_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		eventsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "internlink_report_events_created_total",
			Help: "Total number of weekly report events opened by supervisors.",
		})

		reportsSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "internlink_reports_submitted_total",
			Help: "Total number of weekly reports submitted by students.",
		})

		reportsReviewedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "internlink_reports_reviewed_total",
			Help: "Total number of weekly reports reviewed by supervisors.",
		})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "internlink_notifications_published_total",
			Help: "Total number of notifications published, by type.",
		}, []string{"type"})

		streamClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "internlink_notification_stream_clients",
			Help: "Number of currently connected notification stream clients.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			eventsCreatedTotal,
			reportsSubmittedTotal,
			reportsReviewedTotal,
			notificationsPublished,
			streamClientsActive,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// EventsCreated exposes the counter for opened report events.
func EventsCreated() prometheus.Counter {
	RegisterMetrics()
	return eventsCreatedTotal
}

// ReportsSubmitted exposes the counter for submitted reports.
func ReportsSubmitted() prometheus.Counter {
	RegisterMetrics()
	return reportsSubmittedTotal
}

// ReportsReviewed exposes the counter for reviewed reports.
func ReportsReviewed() prometheus.Counter {
	RegisterMetrics()
	return reportsReviewedTotal
}

// NotificationsPublished exposes the counter for published notifications.
func NotificationsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// StreamClientsActive exposes the gauge for live stream subscribers.
func StreamClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return streamClientsActive
}

package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by path, method and status",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	requestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Total request errors by path, method and error code",
		},
		[]string{"path", "method", "code"},
	)

	ticketsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_created_total",
			Help: "Total tickets created",
		},
	)

	classificationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classification_requests_total",
			Help: "Classification calls by outcome (suggested, fallback, unconfigured)",
		},
		[]string{"outcome"},
	)
)

// RecordRequest counts a completed request and its latency.
func RecordRequest(path, method string, status int, seconds float64) {
	httpRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(path, method).Observe(seconds)
}

// RecordError counts a request that ended in a domain error.
func RecordError(path, method, code string) {
	requestErrors.WithLabelValues(path, method, code).Inc()
}

// RecordTicketCreated counts a persisted ticket.
func RecordTicketCreated() {
	ticketsCreated.Inc()
}

// RecordClassification counts a classification call by outcome.
func RecordClassification(outcome string) {
	classificationRequests.WithLabelValues(outcome).Inc()
}

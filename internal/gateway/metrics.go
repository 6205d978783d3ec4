package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_requests_total",
			Help: "Total number of content generation requests",
		},
		[]string{"operation", "status"},
	)

	contentRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_request_duration_seconds",
			Help:    "Content generation duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"operation"},
	)
)

func observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	contentRequestsTotal.WithLabelValues(operation, status).Inc()
	contentRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

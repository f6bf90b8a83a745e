package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for request pipeline operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "akcli_requests_total",
		Help: "Total API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "akcli_request_duration_seconds",
		Help:    "API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "akcli_errors_total",
		Help: "Total API errors by kind",
	}, []string{"kind"})

	pollAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "akcli_poll_attempts_total",
		Help: "Total polling iterations for in-progress operations",
	})

	pollExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "akcli_poll_exhausted_total",
		Help: "Total operations that exhausted the polling attempt budget",
	})
)

package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_requests_total",
		Help: "Number of library requests by operation and outcome",
	}, []string{"operation", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "library_request_duration_seconds",
		Help:    "Duration of library requests by operation",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// outcome is the metric label of a finished request.
func outcome(e *Error) string {
	if e == nil {
		return "ok"
	}

	return e.Kind.Error()
}

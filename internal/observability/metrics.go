package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	gradingActionsTotal   *prometheus.CounterVec
	suggestionTimeouts    prometheus.Counter
	summaryCacheHitsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aulaforge_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aulaforge_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aulaforge_api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		gradingActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aulaforge_grading_actions_total",
			Help: "Total number of grading lifecycle actions.",
		}, []string{"action"})

		suggestionTimeouts = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aulaforge_grade_suggestion_timeouts_total",
			Help: "Number of grade suggestion requests that hit the deadline.",
		})

		summaryCacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aulaforge_summary_cache_total",
			Help: "Student summary cache lookups by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			gradingActionsTotal,
			suggestionTimeouts,
			summaryCacheHitsTotal,
		)
	})
}

// APIRequests exposes the counter for served requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the request latency histogram.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// GradingActions exposes the counter for grading lifecycle actions.
func GradingActions() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingActionsTotal
}

// SuggestionTimeouts exposes the counter for suggestion deadline hits.
func SuggestionTimeouts() prometheus.Counter {
	RegisterMetrics()
	return suggestionTimeouts
}

// SummaryCacheLookups exposes the summary cache outcome counter.
func SummaryCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return summaryCacheHitsTotal
}

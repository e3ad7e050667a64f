package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// dashboard requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaigninsight_requests_total",
			Help: "Total dashboard requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// dashboard request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campaigninsight_request_duration_seconds",
			Help:    "Histogram of dashboard request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// analytics API calls labelled by operation and outcome
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaigninsight_api_requests_total",
			Help: "Total analytics API calls",
		},
		[]string{"operation", "outcome"},
	)

	// analytics API latency per operation
	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campaigninsight_api_request_duration_seconds",
			Help:    "Duration of analytics API calls",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	// view loads that finished after a newer selection superseded them
	StaleResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaigninsight_stale_responses_total",
			Help: "Responses discarded because the triggering selection changed",
		},
		[]string{"view", "slot"},
	)

	// live dashboard sessions
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "campaigninsight_active_sessions",
			Help: "Number of live dashboard view sessions",
		},
	)

	// dashboard requests rejected by the per-client limiter
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaigninsight_rate_limited_total",
			Help: "Dashboard requests rejected with 429",
		},
		[]string{"endpoint"},
	)

	// ROI results labelled by data source
	ROICalculations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaigninsight_roi_calculations_total",
			Help: "Total ROI calculations by input method and data source",
		},
		[]string{"method", "data_source"},
	)
)

func init() {
	// register all metrics
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		APIRequests,
		APILatency,
		StaleResponses,
		ActiveSessions,
		RateLimited,
		ROICalculations,
	)
}

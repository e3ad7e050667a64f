package observability

import "time"

// MetricsRegistry provides an interface for recording application metrics
// so components never reach for the Prometheus globals directly.
type MetricsRegistry interface {
	// Dashboard HTTP metrics
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	// Analytics API metrics
	IncrementAPIRequests(operation, outcome string)
	RecordAPILatency(operation string, duration time.Duration)

	// View metrics
	IncrementStaleResponses(view, slot string)
	IncrementROICalculations(method, dataSource string)

	// Session metrics
	SetActiveSessions(n int)
	IncrementRateLimited(endpoint string)
}

// PrometheusRegistry implements MetricsRegistry using the global Prometheus metrics
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementAPIRequests(operation, outcome string) {
	APIRequests.WithLabelValues(operation, outcome).Inc()
}

func (r *PrometheusRegistry) RecordAPILatency(operation string, duration time.Duration) {
	APILatency.WithLabelValues(operation).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementStaleResponses(view, slot string) {
	StaleResponses.WithLabelValues(view, slot).Inc()
}

func (r *PrometheusRegistry) IncrementROICalculations(method, dataSource string) {
	ROICalculations.WithLabelValues(method, dataSource).Inc()
}

func (r *PrometheusRegistry) SetActiveSessions(n int) {
	ActiveSessions.Set(float64(n))
}

func (r *PrometheusRegistry) IncrementRateLimited(endpoint string) {
	RateLimited.WithLabelValues(endpoint).Inc()
}

// NoOpRegistry implements MetricsRegistry with no-op methods for testing
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

func (r *NoOpRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (r *NoOpRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}
func (r *NoOpRegistry) IncrementAPIRequests(operation, outcome string)                       {}
func (r *NoOpRegistry) RecordAPILatency(operation string, duration time.Duration)            {}
func (r *NoOpRegistry) IncrementStaleResponses(view, slot string)                            {}
func (r *NoOpRegistry) IncrementROICalculations(method, dataSource string)                   {}
func (r *NoOpRegistry) SetActiveSessions(n int)                                              {}
func (r *NoOpRegistry) IncrementRateLimited(endpoint string)                                 {}

package observability

import (
	"sync"
	"time"
)

// RecordingRegistry is a MetricsRegistry for tests that keeps counters in
// memory so assertions can inspect them.
type RecordingRegistry struct {
	mu       sync.Mutex
	api      map[string]int
	stale    map[string]int
	roi      map[string]int
	requests map[string]int
	limited  map[string]int
	sessions int
}

// NewRecordingRegistry creates an empty RecordingRegistry.
func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{
		api:      make(map[string]int),
		stale:    make(map[string]int),
		roi:      make(map[string]int),
		requests: make(map[string]int),
		limited:  make(map[string]int),
	}
}

func (m *RecordingRegistry) IncrementRequests(endpoint, method, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[endpoint+"|"+method+"|"+status]++
}

func (m *RecordingRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}

func (m *RecordingRegistry) IncrementAPIRequests(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.api[operation+"|"+outcome]++
}

func (m *RecordingRegistry) RecordAPILatency(operation string, duration time.Duration) {}

func (m *RecordingRegistry) IncrementStaleResponses(view, slot string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stale[view+"|"+slot]++
}

func (m *RecordingRegistry) IncrementROICalculations(method, dataSource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roi[method+"|"+dataSource]++
}

func (m *RecordingRegistry) SetActiveSessions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = n
}

func (m *RecordingRegistry) IncrementRateLimited(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limited[endpoint]++
}

// APICalls returns how many calls were recorded for operation with outcome.
func (m *RecordingRegistry) APICalls(operation, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.api[operation+"|"+outcome]
}

// StaleResponses returns the discarded-response count for a view slot.
func (m *RecordingRegistry) StaleResponses(view, slot string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stale[view+"|"+slot]
}

// ROICalculations returns the ROI calculation count for method and source.
func (m *RecordingRegistry) ROICalculations(method, dataSource string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roi[method+"|"+dataSource]
}

// Requests returns the dashboard request count for endpoint, method and status.
func (m *RecordingRegistry) Requests(endpoint, method, status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[endpoint+"|"+method+"|"+status]
}

// ActiveSessions returns the last reported session count.
func (m *RecordingRegistry) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions
}

// RateLimited returns how many requests to endpoint were rejected.
func (m *RecordingRegistry) RateLimited(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limited[endpoint]
}

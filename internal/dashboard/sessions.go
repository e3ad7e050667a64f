package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickwarner/campaigninsight/internal/config"
	"github.com/patrickwarner/campaigninsight/internal/observability"
	"github.com/patrickwarner/campaigninsight/internal/views"
	"go.uber.org/zap"
)

// Session holds one browser tab's page state.
type Session struct {
	ID          string
	Compare     *views.CompareView
	ROI         *views.ROIView
	Benchmark   *views.BenchmarkView
	AdvancedROI *views.AdvancedROIView

	lastSeen time.Time
}

// close cancels the session's in-flight loads.
func (s *Session) close() {
	s.Compare.Close()
	s.ROI.Close()
	s.Benchmark.Close()
	s.AdvancedROI.Close()
}

// SessionStore keeps sessions in memory and drops the ones left idle for
// longer than the TTL.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	deps     views.Deps
	features config.FeatureFlags
	logger   *zap.Logger
	metrics  observability.MetricsRegistry
	now      func() time.Time
}

// NewSessionStore creates an empty store. Views built for new sessions share
// deps.
func NewSessionStore(deps views.Deps, features config.FeatureFlags, ttl time.Duration) *SessionStore {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewNoOpRegistry()
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		deps:     deps,
		features: features,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Create starts a session with fresh views.
func (st *SessionStore) Create() *Session {
	s := &Session{
		ID:          uuid.NewString(),
		Compare:     views.NewCompareView(st.deps),
		ROI:         views.NewROIView(st.deps),
		Benchmark:   views.NewBenchmarkView(st.deps),
		AdvancedROI: views.NewAdvancedROIView(st.deps, st.features),
	}

	st.mu.Lock()
	s.lastSeen = st.now()
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()

	st.metrics.SetActiveSessions(n)
	st.logger.Debug("session created", zap.String("session_id", s.ID))
	return s
}

// Get returns the session and marks it as used.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if ok {
		s.lastSeen = st.now()
	}
	return s, ok
}

// Delete ends a session. It reports whether the session existed.
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()

	if !ok {
		return false
	}
	s.close()
	st.metrics.SetActiveSessions(n)
	return true
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	cutoff := st.now().Add(-st.ttl)
	var expired []*Session
	for id, s := range st.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		st.metrics.SetActiveSessions(n)
		st.logger.Info("expired idle sessions", zap.Int("count", len(expired)), zap.Int("remaining", n))
	}
	return len(expired)
}

// Close ends every session.
func (st *SessionStore) Close() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	st.metrics.SetActiveSessions(0)
}

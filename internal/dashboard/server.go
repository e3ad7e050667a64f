// Package dashboard serves the dashboard pages' state over HTTP. Each
// browser tab opens a session that owns one instance of every page view;
// actions mutate the view and respond with its snapshot.
package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickwarner/campaigninsight/internal/config"
	"github.com/patrickwarner/campaigninsight/internal/middleware"
	"github.com/patrickwarner/campaigninsight/internal/models"
	"github.com/patrickwarner/campaigninsight/internal/observability"
	"github.com/patrickwarner/campaigninsight/internal/ratelimit"
	"github.com/patrickwarner/campaigninsight/internal/views"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Backend is the analytics API plus its health probe.
// *analyticsapi.Client satisfies it.
type Backend interface {
	views.API
	HealthCheck(ctx context.Context) (*models.HealthStatus, error)
}

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger   *zap.Logger
	Backend  Backend
	Sessions *SessionStore
	Limiter  *ratelimit.KeyedLimiter
	Metrics  observability.MetricsRegistry
	Config   config.Config
}

// NewServer constructs a Server with an empty session store and a
// per-client limiter for the session routes.
func NewServer(logger *zap.Logger, backend Backend, metrics observability.MetricsRegistry, cfg config.Config) *Server {
	deps := views.Deps{API: backend, Logger: logger, Metrics: metrics}
	limiter := ratelimit.NewKeyedLimiter(ratelimit.Config{
		Capacity:   cfg.RateLimitBurst,
		RefillRate: cfg.RateLimitPerSecond,
		Enabled:    cfg.RateLimitEnabled,
	})
	return &Server{
		Logger:   logger,
		Backend:  backend,
		Sessions: NewSessionStore(deps, cfg.Features, cfg.SessionIdleTTL),
		Limiter:  limiter,
		Metrics:  metrics,
		Config:   cfg,
	}
}

// Routes builds the dashboard router wrapped in server-side tracing.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.WithTraceLogger(s.Logger), middleware.Instrument(s.Metrics, s.Logger))

	r.HandleFunc("/health", s.HealthHandler).Methods("GET")
	r.HandleFunc("/features", s.FeaturesHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())

	sess := r.PathPrefix("/sessions").Subrouter()
	sess.Use(middleware.RateLimit(s.Limiter, s.Metrics, s.Logger))
	sess.HandleFunc("", s.CreateSession).Methods("POST")
	sess.HandleFunc("/{id}", s.GetSession).Methods("GET")
	sess.HandleFunc("/{id}", s.DeleteSession).Methods("DELETE")

	cmp := sess.PathPrefix("/{id}/compare").Subrouter()
	cmp.HandleFunc("", s.view(compareState, nil)).Methods("GET")
	cmp.HandleFunc("/clients", s.view(compareState, compareLoadClients)).Methods("POST")
	cmp.HandleFunc("/client", s.view(compareState, compareSelectClient)).Methods("POST")
	cmp.HandleFunc("/primary", s.view(compareState, compareSelectPrimary)).Methods("POST")
	cmp.HandleFunc("/comparison", s.view(compareState, compareSelectComparison)).Methods("POST")
	cmp.HandleFunc("/run", s.view(compareState, compareRun)).Methods("POST")

	roi := sess.PathPrefix("/{id}/roi").Subrouter()
	roi.HandleFunc("", s.view(roiState, nil)).Methods("GET")
	roi.HandleFunc("/inputs", s.view(roiState, roiSetInputs)).Methods("PUT")
	roi.HandleFunc("/file", s.view(roiState, roiSetFile)).Methods("POST")
	roi.HandleFunc("/file", s.view(roiState, roiClearFile)).Methods("DELETE")
	roi.HandleFunc("/calculate", s.view(roiState, roiCalculate)).Methods("POST")

	bench := sess.PathPrefix("/{id}/benchmark").Subrouter()
	bench.HandleFunc("", s.view(benchmarkState, nil)).Methods("GET")
	bench.HandleFunc("/clients", s.view(benchmarkState, benchmarkLoadClients)).Methods("POST")
	bench.HandleFunc("/client", s.view(benchmarkState, benchmarkSelectClient)).Methods("POST")
	bench.HandleFunc("/campaign", s.view(benchmarkState, benchmarkSelectCampaign)).Methods("POST")
	bench.HandleFunc("/filters", s.view(benchmarkState, benchmarkSetFilters)).Methods("PUT")
	bench.HandleFunc("/run", s.view(benchmarkState, benchmarkRun)).Methods("POST")

	adv := sess.PathPrefix("/{id}/advanced-roi").Subrouter()
	adv.HandleFunc("", s.view(advancedState, nil)).Methods("GET")
	adv.HandleFunc("/mode", s.view(advancedState, advancedSetMode)).Methods("PUT")
	adv.HandleFunc("/simple", s.view(advancedState, advancedSetSimple)).Methods("PUT")
	adv.HandleFunc("/clients", s.view(advancedState, advancedLoadClients)).Methods("POST")
	adv.HandleFunc("/client", s.view(advancedState, advancedSelectClient)).Methods("POST")
	adv.HandleFunc("/campaign", s.view(advancedState, advancedSelectCampaign)).Methods("POST")
	adv.HandleFunc("/cost", s.view(advancedState, advancedSetCost)).Methods("PUT")
	adv.HandleFunc("/sales-file", s.view(advancedState, advancedSetSalesFile)).Methods("POST")
	adv.HandleFunc("/sales-file", s.view(advancedState, advancedClearSalesFile)).Methods("DELETE")
	adv.HandleFunc("/calculate/simple", s.view(advancedState, advancedCalculateSimple)).Methods("POST")
	adv.HandleFunc("/calculate/matched", s.view(advancedState, advancedCalculateMatched)).Methods("POST")

	return otelhttp.NewHandler(r, "dashboard")
}

// RunMaintenance expires idle sessions and forgets idle rate-limit
// buckets every interval until ctx is done. A non-positive interval falls
// back to config.DefaultSweepInterval.
func (s *Server) RunMaintenance(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = config.DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sessions.Sweep()
			if n := s.Limiter.Prune(s.Config.SessionIdleTTL); n > 0 {
				s.Logger.Debug("pruned rate limit buckets", zap.Int("count", n))
			}
		case <-ctx.Done():
			return
		}
	}
}

// helper function to write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickwarner/campaigninsight/internal/observability"
	"github.com/patrickwarner/campaigninsight/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithTraceLogger_AddsRequestAndSpanFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	handler := WithTraceLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		LoggerFromRequest(r, zap.NewNop()).Info("handled")
	}))

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02},
		SpanID:     trace.SpanID{0x03},
		TraceFlags: trace.FlagsSampled,
	})
	req := httptest.NewRequest(http.MethodGet, "/sessions/abc", nil)
	req = req.WithContext(trace.ContextWithSpanContext(req.Context(), sc))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/sessions/abc", fields["path"])
	assert.Equal(t, sc.TraceID().String(), fields["trace_id"])
	assert.Equal(t, sc.SpanID().String(), fields["span_id"])
}

func TestLoggerFromContext_Fallback(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	fallback := zap.New(core)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	LoggerFromRequest(req, fallback).Info("no middleware")

	require.Equal(t, 1, logs.Len())
	assert.NotContains(t, logs.All()[0].ContextMap(), "trace_id")
}

func TestInstrument_UsesRouteTemplate(t *testing.T) {
	metrics := observability.NewRecordingRegistry()
	r := mux.NewRouter()
	r.Use(Instrument(metrics, zap.NewNop()))
	r.HandleFunc("/sessions/{id}/roi", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/roi", nil))
	}
	assert.Equal(t, 3, metrics.Requests("/sessions/{id}/roi", "GET", "418"))
}

func TestRateLimit(t *testing.T) {
	metrics := observability.NewRecordingRegistry()
	limiter := ratelimit.NewKeyedLimiter(ratelimit.Config{Capacity: 1, RefillRate: 0.5, Enabled: true})
	r := mux.NewRouter()
	r.Use(RateLimit(limiter, metrics, zap.NewNop()))
	r.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {})

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("198.51.100.1:5000").Code)
	// same host, different port
	rec := send("198.51.100.1:5001")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2:5000").Code)
	assert.Equal(t, 1, metrics.RateLimited("/sessions"))
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(200*time.Millisecond))
	assert.Equal(t, 2, retryAfterSeconds(1500*time.Millisecond))
	assert.Equal(t, 3, retryAfterSeconds(3*time.Second))
}

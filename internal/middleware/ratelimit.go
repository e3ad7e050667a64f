package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickwarner/campaigninsight/internal/observability"
	"github.com/patrickwarner/campaigninsight/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimit rejects requests from clients that have exhausted their bucket
// with 429 and a Retry-After header. Clients are keyed by remote address.
func RateLimit(limiter *ratelimit.KeyedLimiter, metrics observability.MetricsRegistry, logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			ok, wait := limiter.Allow(key)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			endpoint := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					endpoint = tpl
				}
			}
			metrics.IncrementRateLimited(endpoint)
			LoggerFromRequest(r, logger).Warn("rate limited",
				zap.String("client", key),
				zap.Duration("retry_after", wait))

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Retry-After is whole seconds, at least one.
func retryAfterSeconds(wait time.Duration) int {
	return max(1, int(math.Ceil(wait.Seconds())))
}

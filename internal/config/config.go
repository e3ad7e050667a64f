package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// LocalAPIBaseURL is the analytics API used when the dashboard runs on a
// developer machine.
const LocalAPIBaseURL = "http://localhost:8000/api/v1"

// APIPathPrefix is appended to a deployed origin to reach the analytics API.
const APIPathPrefix = "/api/v1"

// DefaultSweepInterval is used when SESSION_SWEEP_INTERVAL is unset or not
// positive.
const DefaultSweepInterval = time.Minute

// FeatureFlags is the static feature table read once at start-up and passed
// to the views that need it.
type FeatureFlags struct {
	// CampaignMatchedROI enables the campaign-matched advanced ROI calculation.
	// When false the view serves an illustrative dataset and never calls the API.
	CampaignMatchedROI bool `json:"CAMPAIGN_MATCHED_ROI"`
}

// Config holds application configuration derived from environment variables.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// APIBaseURL is the analytics API root including the /api/v1 prefix.
	APIBaseURL string
	APITimeout time.Duration
	Features   FeatureFlags
	// SessionIdleTTL bounds how long an untouched dashboard session is kept.
	SessionIdleTTL       time.Duration
	SessionSweepInterval time.Duration
	// Per-client limits on session and action requests.
	RateLimitEnabled   bool
	RateLimitBurst     int
	RateLimitPerSecond float64
	ServiceName        string
	// Tracing configuration
	TracingEnabled    bool
	TempoEndpoint     string
	TracingSampleRate float64
}

// Load parses environment variables and returns a Config populated with
// defaults when variables are absent.
func Load() Config {
	cfg := Config{}

	cfg.Port = getenv("PORT", "8080")
	cfg.ReadTimeout = envDuration("READ_TIMEOUT", 5*time.Second)
	// uploads are parsed by the backend's AI extractor, which is slow
	cfg.WriteTimeout = envDuration("WRITE_TIMEOUT", 60*time.Second)

	// API_BASE_URL wins; otherwise derive it from the public origin the
	// dashboard is served from.
	cfg.APIBaseURL = strings.TrimRight(getenv("API_BASE_URL", ""), "/")
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = ResolveBaseURL(getenv("API_ORIGIN", "http://localhost:8080"))
	}
	// zero keeps the platform default
	cfg.APITimeout = envDuration("API_TIMEOUT", 0)

	cfg.Features = FeatureFlags{
		CampaignMatchedROI: envBool("CAMPAIGN_MATCHED_ROI", false),
	}

	cfg.SessionIdleTTL = envDuration("SESSION_IDLE_TTL", 30*time.Minute)
	cfg.SessionSweepInterval = envDuration("SESSION_SWEEP_INTERVAL", DefaultSweepInterval)
	if cfg.SessionSweepInterval <= 0 {
		cfg.SessionSweepInterval = DefaultSweepInterval
	}
	cfg.RateLimitEnabled = envBool("RATE_LIMIT_ENABLED", true)
	cfg.RateLimitBurst = envInt("RATE_LIMIT_BURST", 30)
	cfg.RateLimitPerSecond = envFloat("RATE_LIMIT_PER_SECOND", 5)
	cfg.ServiceName = getenv("SERVICE_NAME", "campaigninsight")

	// Tracing configuration
	cfg.TracingEnabled = envBool("TRACING_ENABLED", false)
	cfg.TempoEndpoint = getenv("TEMPO_ENDPOINT", "tempo:4317")
	cfg.TracingSampleRate = envFloat("TRACING_SAMPLE_RATE", 1.0)

	return cfg
}

// ResolveBaseURL maps the origin a dashboard is served from to the analytics
// API root. Local origins (localhost, 127.0.0.1) target the development API
// on port 8000; any other origin serves the API under its own /api/v1.
func ResolveBaseURL(origin string) string {
	origin = strings.TrimRight(origin, "/")
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return LocalAPIBaseURL
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
		return LocalAPIBaseURL
	}
	return u.Scheme + "://" + u.Host + APIPathPrefix
}

// OriginOf strips the /api/v1 prefix from an API base URL, yielding the
// origin that serves the health endpoint.
func OriginOf(baseURL string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	return strings.TrimSuffix(baseURL, APIPathPrefix)
}

// getenv returns the value of the environment variable if set, otherwise def.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses an environment variable into a time.Duration.
// The value can be a duration string (e.g. "5s") or a number of seconds.
// If the variable is unset or invalid, def is returned.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// envBool parses a boolean environment variable. Accepted values are those
// supported by strconv.ParseBool. When unset or invalid, def is returned.
func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

// envInt parses an integer environment variable. When unset or invalid, def is returned.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

// envFloat parses a float64 environment variable. When unset or invalid, def is returned.
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}

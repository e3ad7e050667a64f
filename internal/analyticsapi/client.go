// Package analyticsapi is the typed client for the campaign analytics API.
//
// Every method either returns the decoded payload or an *APIError; there are
// no retries and no caching. Request and response field names follow the
// backend's snake_case contract exactly.
package analyticsapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/patrickwarner/campaigninsight/internal/observability"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = observability.Tracer("campaigninsight/analyticsapi")

// HTTPDoer is the subset of *http.Client the Client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the analytics API.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     *zap.Logger
	metrics    observability.MetricsRegistry
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPDoer replaces the HTTP client, mainly for tests.
func WithHTTPDoer(d HTTPDoer) Option {
	return func(c *Client) { c.httpClient = d }
}

// NewClient creates a client for the API rooted at baseURL (including the
// /api/v1 prefix). A zero timeout leaves the platform default in place.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger, metrics observability.MetricsRegistry, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewNoOpRegistry()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// operation names an endpoint for metrics (Label) and for the
// "Failed to ..." error message (Verb).
type operation struct {
	Label string
	Verb  string
}

var (
	opGetClients       = operation{"get_clients", "fetch clients"}
	opGetCampaigns     = operation{"get_campaigns_by_client", "fetch campaigns"}
	opGetSimilar       = operation{"get_similar_campaigns", "fetch similar campaigns"}
	opCompare          = operation{"compare_campaigns", "compare campaigns"}
	opBenchmark        = operation{"benchmark_campaign", "benchmark campaign"}
	opCalculateROI     = operation{"calculate_roi", "calculate ROI"}
	opCalculateROIFile = operation{"calculate_roi_file", "calculate ROI from file"}
	opAdvancedSimple   = operation{"advanced_roi_simple", "calculate advanced ROI"}
	opCampaignMatched  = operation{"advanced_roi_campaign_matched", "calculate campaign-matched ROI"}
	opHealth           = operation{"health", "check API health"}
)

func (c *Client) getJSON(ctx context.Context, op operation, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return wrapError(op.Verb, fmt.Errorf("create request: %w", err))
	}
	return c.do(op, req, out)
}

func (c *Client) postJSON(ctx context.Context, op operation, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return wrapError(op.Verb, fmt.Errorf("marshal request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return wrapError(op.Verb, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(op, req, out)
}

// do dispatches req and unwraps the response into out. It is the only place
// that talks to the network, so error normalization happens here once.
func (c *Client) do(op operation, req *http.Request, out any) (err error) {
	start := time.Now()
	ctx, span := tracer.Start(req.Context(), "analyticsapi."+op.Label,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("analytics.operation", op.Label)),
	)
	defer span.End()
	req = req.WithContext(ctx)

	outcome := "success"
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.Int("analytics.status", StatusCode(err)))
			if StatusCode(err) == 0 {
				outcome = "transport_error"
			} else {
				outcome = "http_error"
			}
			c.logger.Warn("analytics API call failed",
				zap.String("operation", op.Label),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", StatusCode(err)),
				zap.Error(err))
		}
		c.metrics.IncrementAPIRequests(op.Label, outcome)
		c.metrics.RecordAPILatency(op.Label, time.Since(start))
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapError(op.Verb, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return wrapError(op.Verb, readErr)
		}
		return newStatusError(op.Verb, resp, body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return wrapError(op.Verb, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// Package views holds the headless state machines behind each dashboard
// page. A view owns a chain of dependent selections; every selection change
// clears the state downstream of it before the next fetch starts, and a fetch
// may only write its result if no newer selection has superseded it.
package views

import (
	"context"
	"sync"

	"github.com/patrickwarner/campaigninsight/internal/analyticsapi"
	"github.com/patrickwarner/campaigninsight/internal/models"
	"github.com/patrickwarner/campaigninsight/internal/observability"
	"go.uber.org/zap"
)

// API is the analytics backend as seen by the views. *analyticsapi.Client
// satisfies it.
type API interface {
	GetClients(ctx context.Context) ([]models.Client, error)
	GetCampaignsByClient(ctx context.Context, clientID int) ([]models.CampaignSummary, error)
	GetSimilarCampaigns(ctx context.Context, campaignID int, tolerance float64) ([]models.CampaignSummary, error)
	CompareCampaigns(ctx context.Context, campaignIDs []int) (*models.CompareResponse, error)
	BenchmarkCampaign(ctx context.Context, req models.BenchmarkRequest) (*models.BenchmarkResponse, error)
	CalculateROI(ctx context.Context, req models.ROIRequest) (*models.ROIResponse, error)
	CalculateROIFromFile(ctx context.Context, req models.ROIFileRequest) (*models.ROIResponse, error)
	CalculateAdvancedROISimple(ctx context.Context, req models.AdvancedROISimpleRequest) (*models.AdvancedROIResponse, error)
	CalculateCampaignMatchedROI(ctx context.Context, req models.CampaignMatchedROIRequest) (*models.AdvancedROIResponse, error)
}

var _ API = (*analyticsapi.Client)(nil)

// Deps groups what every view needs.
type Deps struct {
	API     API
	Logger  *zap.Logger
	Metrics observability.MetricsRegistry
}

// Fallback messages used when an error carries no text of its own.
const (
	msgLoadClients   = "Failed to load clients"
	msgLoadCampaigns = "Failed to load campaigns"
	msgLoadSimilar   = "Failed to load similar campaigns"
	msgCompare       = "Failed to compare campaigns"
	msgBenchmark     = "Failed to benchmark campaign"
	msgCalculateROI  = "Failed to calculate ROI"
	msgAdvancedROI   = "Failed to calculate advanced ROI"
)

// slot tracks the generation of one async load. All methods must be called
// with the owning view's mutex held.
type slot struct {
	gen    uint64
	cancel context.CancelFunc
}

// invalidate makes any in-flight load for this slot stale and cancels it.
func (s *slot) invalidate() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *slot) begin(parent context.Context) (uint64, context.Context) {
	s.invalidate()
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	return s.gen, ctx
}

func (s *slot) current(gen uint64) bool {
	return s.gen == gen
}

func (s *slot) done() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// base carries the lifecycle shared by all views.
type base struct {
	mu      sync.Mutex
	name    string
	api     API
	logger  *zap.Logger
	metrics observability.MetricsRegistry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

func (b *base) init(name string, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewNoOpRegistry()
	}
	b.name = name
	b.api = deps.API
	b.logger = logger.With(zap.String("view", name))
	b.metrics = metrics
	b.ctx, b.cancel = context.WithCancel(context.Background())
}

// Close cancels in-flight loads and waits for their goroutines to exit.
// Actions on a closed view start no further loads.
func (b *base) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.cancel()
	b.wg.Wait()
}

func (b *base) launch(fn func()) <-chan struct{} {
	done := make(chan struct{})
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(done)
		fn()
	}()
	return done
}

// runLoad starts fetch on slot sl and applies its outcome under the view
// lock unless a newer load on the same slot has begun. The caller must hold
// b.mu; apply runs with b.mu held.
func runLoad[T any](b *base, sl *slot, slotName string, fetch func(context.Context) (T, error), apply func(T, error)) <-chan struct{} {
	if b.closed {
		return settled()
	}
	gen, ctx := sl.begin(b.ctx)
	return b.launch(func() {
		v, err := fetch(ctx)

		b.mu.Lock()
		defer b.mu.Unlock()
		if !sl.current(gen) {
			b.metrics.IncrementStaleResponses(b.name, slotName)
			b.logger.Debug("discarded stale response", zap.String("slot", slotName))
			return
		}
		sl.done()
		if err != nil {
			b.logger.Info("view load failed", zap.String("slot", slotName), zap.Error(err))
		}
		apply(v, err)
	})
}

// errorText extracts the message to show for err, falling back to a
// per-operation message.
func errorText(err error, fallback string) string {
	if apiErr, ok := analyticsapi.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}

var closedCh = func() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// settled returns an already-closed channel for actions that finish without
// a background load.
func settled() <-chan struct{} {
	return closedCh
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append([]T(nil), s...)
}

func intRef(v int) *int {
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	return intRef(*p)
}

package views

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/patrickwarner/campaigninsight/internal/analyticsapi"
	"github.com/patrickwarner/campaigninsight/internal/models"
	"github.com/patrickwarner/campaigninsight/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type apiCall struct {
	method string
	args   []any
}

// fakeAPI records every call and delegates to the optional per-method
// handlers. Unset handlers return empty successes.
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall

	clients   func(ctx context.Context) ([]models.Client, error)
	campaigns func(ctx context.Context, clientID int) ([]models.CampaignSummary, error)
	similar   func(ctx context.Context, campaignID int, tolerance float64) ([]models.CampaignSummary, error)
	compare   func(ctx context.Context, ids []int) (*models.CompareResponse, error)
	benchmark func(ctx context.Context, req models.BenchmarkRequest) (*models.BenchmarkResponse, error)
	roi       func(ctx context.Context, req models.ROIRequest) (*models.ROIResponse, error)
	roiFile   func(ctx context.Context, req models.ROIFileRequest) (*models.ROIResponse, error)
	advSimple func(ctx context.Context, req models.AdvancedROISimpleRequest) (*models.AdvancedROIResponse, error)
	matched   func(ctx context.Context, req models.CampaignMatchedROIRequest) (*models.AdvancedROIResponse, error)
}

var _ API = (*fakeAPI)(nil)

func (f *fakeAPI) record(method string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, apiCall{method: method, args: args})
}

// argsOf returns the arguments of every call to method, in order.
func (f *fakeAPI) argsOf(method string) [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]any
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c.args)
		}
	}
	return out
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) GetClients(ctx context.Context) ([]models.Client, error) {
	f.record("GetClients")
	if f.clients != nil {
		return f.clients(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) GetCampaignsByClient(ctx context.Context, clientID int) ([]models.CampaignSummary, error) {
	f.record("GetCampaignsByClient", clientID)
	if f.campaigns != nil {
		return f.campaigns(ctx, clientID)
	}
	return nil, nil
}

func (f *fakeAPI) GetSimilarCampaigns(ctx context.Context, campaignID int, tolerance float64) ([]models.CampaignSummary, error) {
	f.record("GetSimilarCampaigns", campaignID, tolerance)
	if f.similar != nil {
		return f.similar(ctx, campaignID, tolerance)
	}
	return nil, nil
}

func (f *fakeAPI) CompareCampaigns(ctx context.Context, ids []int) (*models.CompareResponse, error) {
	f.record("CompareCampaigns", append([]int(nil), ids...))
	if f.compare != nil {
		return f.compare(ctx, ids)
	}
	return &models.CompareResponse{}, nil
}

func (f *fakeAPI) BenchmarkCampaign(ctx context.Context, req models.BenchmarkRequest) (*models.BenchmarkResponse, error) {
	f.record("BenchmarkCampaign", req)
	if f.benchmark != nil {
		return f.benchmark(ctx, req)
	}
	return &models.BenchmarkResponse{}, nil
}

func (f *fakeAPI) CalculateROI(ctx context.Context, req models.ROIRequest) (*models.ROIResponse, error) {
	f.record("CalculateROI", req)
	if f.roi != nil {
		return f.roi(ctx, req)
	}
	return &models.ROIResponse{}, nil
}

func (f *fakeAPI) CalculateROIFromFile(ctx context.Context, req models.ROIFileRequest) (*models.ROIResponse, error) {
	f.record("CalculateROIFromFile", req)
	if f.roiFile != nil {
		return f.roiFile(ctx, req)
	}
	return &models.ROIResponse{}, nil
}

func (f *fakeAPI) CalculateAdvancedROISimple(ctx context.Context, req models.AdvancedROISimpleRequest) (*models.AdvancedROIResponse, error) {
	f.record("CalculateAdvancedROISimple", req)
	if f.advSimple != nil {
		return f.advSimple(ctx, req)
	}
	return &models.AdvancedROIResponse{}, nil
}

func (f *fakeAPI) CalculateCampaignMatchedROI(ctx context.Context, req models.CampaignMatchedROIRequest) (*models.AdvancedROIResponse, error) {
	f.record("CalculateCampaignMatchedROI", req)
	if f.matched != nil {
		return f.matched(ctx, req)
	}
	return &models.AdvancedROIResponse{}, nil
}

func newDeps(api API) (Deps, *observability.RecordingRegistry) {
	metrics := observability.NewRecordingRegistry()
	return Deps{API: api, Logger: zap.NewNop(), Metrics: metrics}, metrics
}

func wait(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("load did not settle")
	}
}

func campaign(id int, name string) models.CampaignSummary {
	return models.CampaignSummary{CampaignID: id, Name: &name}
}

func TestCompareView_SelectionChain(t *testing.T) {
	api := &fakeAPI{
		clients: func(context.Context) ([]models.Client, error) {
			return []models.Client{{ClientID: 42, ClientName: "Acme Roofing"}}, nil
		},
		campaigns: func(_ context.Context, clientID int) ([]models.CampaignSummary, error) {
			return []models.CampaignSummary{campaign(7, "Spring Mailer"), campaign(9, "Summer Mailer")}, nil
		},
		similar: func(context.Context, int, float64) ([]models.CampaignSummary, error) {
			return []models.CampaignSummary{campaign(9, "Summer Mailer")}, nil
		},
		compare: func(_ context.Context, ids []int) (*models.CompareResponse, error) {
			return &models.CompareResponse{Summary: "Spring outperformed Summer"}, nil
		},
	}
	deps, _ := newDeps(api)
	v := NewCompareView(deps)
	t.Cleanup(v.Close)

	wait(t, v.LoadClients())
	require.Len(t, v.Snapshot().Clients, 1)

	wait(t, v.SelectClient(42))
	wait(t, v.SelectPrimaryCampaign(7))
	v.SelectComparisonCampaign(9)
	wait(t, v.Compare())

	assert.Equal(t, [][]any{{42}}, api.argsOf("GetCampaignsByClient"))
	assert.Equal(t, [][]any{{7, 2.0}}, api.argsOf("GetSimilarCampaigns"))
	assert.Equal(t, [][]any{{[]int{7, 9}}}, api.argsOf("CompareCampaigns"))

	st := v.Snapshot()
	assert.Equal(t, 42, *st.SelectedClientID)
	assert.Len(t, st.Campaigns, 2)
	assert.Equal(t, 7, *st.PrimaryCampaignID)
	assert.Len(t, st.SimilarCampaigns, 1)
	assert.Equal(t, 9, *st.ComparisonCampaignID)
	require.NotNil(t, st.Result)
	assert.Equal(t, "Spring outperformed Summer", st.Result.Summary)
	assert.False(t, st.Comparing)
	assert.Empty(t, st.Error)
}

func TestCompareView_CustomTolerance(t *testing.T) {
	api := &fakeAPI{}
	deps, _ := newDeps(api)
	v := NewCompareView(deps, WithDurationTolerance(5))
	t.Cleanup(v.Close)

	wait(t, v.SelectPrimaryCampaign(3))
	assert.Equal(t, [][]any{{3, 5.0}}, api.argsOf("GetSimilarCampaigns"))
}

func TestCompareView_ClearsDownstreamBeforeFetchResolves(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{
		similar: func(ctx context.Context, id int, _ float64) ([]models.CampaignSummary, error) {
			if id == 8 {
				select {
				case <-release:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return []models.CampaignSummary{campaign(100+id, "peer")}, nil
		},
	}
	deps, _ := newDeps(api)
	v := NewCompareView(deps)
	t.Cleanup(v.Close)

	wait(t, v.SelectPrimaryCampaign(7))
	v.SelectComparisonCampaign(107)
	wait(t, v.Compare())
	require.NotNil(t, v.Snapshot().Result)

	done := v.SelectPrimaryCampaign(8)

	st := v.Snapshot()
	assert.Equal(t, 8, *st.PrimaryCampaignID)
	assert.Nil(t, st.SimilarCampaigns)
	assert.Nil(t, st.ComparisonCampaignID)
	assert.Nil(t, st.Result)
	assert.True(t, st.SimilarLoading)

	close(release)
	wait(t, done)

	st = v.Snapshot()
	assert.False(t, st.SimilarLoading)
	require.Len(t, st.SimilarCampaigns, 1)
	assert.Equal(t, 108, st.SimilarCampaigns[0].CampaignID)
}

func TestCompareView_ClientChangeClearsEverything(t *testing.T) {
	api := &fakeAPI{
		campaigns: func(_ context.Context, clientID int) ([]models.CampaignSummary, error) {
			return []models.CampaignSummary{campaign(clientID*10, "c")}, nil
		},
	}
	deps, _ := newDeps(api)
	v := NewCompareView(deps)
	t.Cleanup(v.Close)

	wait(t, v.SelectClient(1))
	wait(t, v.SelectPrimaryCampaign(10))
	v.SelectComparisonCampaign(11)
	wait(t, v.Compare())

	wait(t, v.SelectClient(2))
	st := v.Snapshot()
	assert.Nil(t, st.PrimaryCampaignID)
	assert.Nil(t, st.ComparisonCampaignID)
	assert.Nil(t, st.SimilarCampaigns)
	assert.Nil(t, st.Result)
	require.Len(t, st.Campaigns, 1)
	assert.Equal(t, 20, st.Campaigns[0].CampaignID)
}

func TestCompareView_StaleResponsesAreDiscarded(t *testing.T) {
	slow := make(chan struct{})
	api := &fakeAPI{
		// Ignores ctx so the stale result really arrives after the newer one.
		campaigns: func(_ context.Context, clientID int) ([]models.CampaignSummary, error) {
			if clientID == 1 {
				<-slow
			}
			return []models.CampaignSummary{campaign(clientID*10, "c")}, nil
		},
		similar: func(_ context.Context, id int, _ float64) ([]models.CampaignSummary, error) {
			if id == 10 {
				<-slow
			}
			return []models.CampaignSummary{campaign(id+1, "peer")}, nil
		},
	}
	deps, metrics := newDeps(api)
	v := NewCompareView(deps)
	t.Cleanup(v.Close)

	first := v.SelectClient(1)
	wait(t, v.SelectClient(2))
	firstSimilar := v.SelectPrimaryCampaign(10)
	wait(t, v.SelectPrimaryCampaign(20))

	close(slow)
	wait(t, first)
	wait(t, firstSimilar)

	st := v.Snapshot()
	assert.Equal(t, 2, *st.SelectedClientID)
	require.Len(t, st.Campaigns, 1)
	assert.Equal(t, 20, st.Campaigns[0].CampaignID)
	assert.Equal(t, 20, *st.PrimaryCampaignID)
	require.Len(t, st.SimilarCampaigns, 1)
	assert.Equal(t, 21, st.SimilarCampaigns[0].CampaignID)
	assert.False(t, st.CampaignsLoading)
	assert.False(t, st.SimilarLoading)

	assert.Equal(t, 1, metrics.StaleResponses("compare", "campaigns"))
	assert.Equal(t, 1, metrics.StaleResponses("compare", "similar"))
}

func TestCompareView_CompareRequiresTwoCampaigns(t *testing.T) {
	api := &fakeAPI{}
	deps, _ := newDeps(api)
	v := NewCompareView(deps)
	t.Cleanup(v.Close)

	wait(t, v.Compare())
	assert.Equal(t, ErrSelectTwoCampaigns.Message, v.Snapshot().Error)

	wait(t, v.SelectPrimaryCampaign(1))
	wait(t, v.Compare())
	assert.Equal(t, ErrSelectTwoCampaigns.Message, v.Snapshot().Error)
	assert.Empty(t, api.argsOf("CompareCampaigns"))
}

type emptyErr struct{}

func (emptyErr) Error() string { return "" }

func TestCompareView_ErrorMessages(t *testing.T) {
	api := &fakeAPI{
		campaigns: func(context.Context, int) ([]models.CampaignSummary, error) {
			return nil, emptyErr{}
		},
		similar: func(context.Context, int, float64) ([]models.CampaignSummary, error) {
			return nil, &analyticsapi.APIError{Operation: "fetch similar campaigns", Status: 404, Message: "Campaign not found"}
		},
	}
	deps, _ := newDeps(api)
	v := NewCompareView(deps)
	t.Cleanup(v.Close)

	wait(t, v.SelectClient(1))
	st := v.Snapshot()
	assert.Equal(t, msgLoadCampaigns, st.Error)
	assert.Nil(t, st.Campaigns)
	assert.False(t, st.CampaignsLoading)

	wait(t, v.SelectPrimaryCampaign(5))
	st = v.Snapshot()
	assert.Equal(t, "Campaign not found", st.Error)
	assert.Nil(t, st.SimilarCampaigns)

	// A new selection starts with a clean error.
	v.SelectComparisonCampaign(6)
	assert.Empty(t, v.Snapshot().Error)

	// Errors are never retried.
	assert.Len(t, api.argsOf("GetSimilarCampaigns"), 1)
}

func TestView_CloseCancelsInFlightLoads(t *testing.T) {
	started := make(chan struct{})
	api := &fakeAPI{
		clients: func(ctx context.Context) ([]models.Client, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	deps, _ := newDeps(api)
	v := NewCompareView(deps)

	done := v.LoadClients()
	<-started
	v.Close()
	wait(t, done)
}

func TestView_ActionsAfterCloseStartNoLoads(t *testing.T) {
	api := &fakeAPI{}
	deps, _ := newDeps(api)
	v := NewCompareView(deps)
	v.Close()

	wait(t, v.LoadClients())
	wait(t, v.SelectClient(42))
	assert.Zero(t, api.total())
}

func TestSnapshotIsACopy(t *testing.T) {
	api := &fakeAPI{
		campaigns: func(context.Context, int) ([]models.CampaignSummary, error) {
			return []models.CampaignSummary{campaign(1, "a")}, nil
		},
	}
	deps, _ := newDeps(api)
	v := NewCompareView(deps)
	t.Cleanup(v.Close)

	wait(t, v.SelectClient(3))
	st := v.Snapshot()
	st.Campaigns[0].CampaignID = 99
	*st.SelectedClientID = 99

	again := v.Snapshot()
	assert.Equal(t, 1, again.Campaigns[0].CampaignID)
	assert.Equal(t, 3, *again.SelectedClientID)
}

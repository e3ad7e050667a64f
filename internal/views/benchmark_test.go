package views

import (
	"context"
	"testing"

	"github.com/patrickwarner/campaigninsight/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchmarkView_Run(t *testing.T) {
	industry, jobType := "Roofing", "Repair"
	api := &fakeAPI{
		campaigns: func(context.Context, int) ([]models.CampaignSummary, error) {
			c := campaign(7, "Spring Mailer")
			c.Industry, c.JobType = &industry, &jobType
			return []models.CampaignSummary{c}, nil
		},
		benchmark: func(_ context.Context, req models.BenchmarkRequest) (*models.BenchmarkResponse, error) {
			return &models.BenchmarkResponse{PeerCount: 12, Summary: "Above median"}, nil
		},
	}
	deps, _ := newDeps(api)
	v := NewBenchmarkView(deps)
	t.Cleanup(v.Close)

	wait(t, v.SelectClient(42))
	v.SelectCampaign(7)
	assert.Equal(t, BenchmarkFilters{Industry: "Roofing", JobType: "Repair"}, v.Snapshot().Filters)

	wait(t, v.Run())

	calls := api.argsOf("BenchmarkCampaign")
	require.Len(t, calls, 1)
	req := calls[0][0].(models.BenchmarkRequest)
	assert.Equal(t, 7, req.CampaignID)
	assert.Equal(t, "Roofing", *req.Industry)
	assert.Equal(t, "Repair", *req.JobType)
	assert.Nil(t, req.Timeframe)

	st := v.Snapshot()
	require.NotNil(t, st.Result)
	assert.Equal(t, 12, st.Result.PeerCount)
	assert.False(t, st.Running)
}

func TestBenchmarkView_FilterChangeClearsResult(t *testing.T) {
	api := &fakeAPI{}
	deps, _ := newDeps(api)
	v := NewBenchmarkView(deps)
	t.Cleanup(v.Close)

	v.SelectCampaign(3)
	wait(t, v.Run())
	require.NotNil(t, v.Snapshot().Result)

	v.SetFilters(BenchmarkFilters{Timeframe: "last_12_months"})
	st := v.Snapshot()
	assert.Nil(t, st.Result)
	assert.Equal(t, "last_12_months", st.Filters.Timeframe)

	wait(t, v.Run())
	calls := api.argsOf("BenchmarkCampaign")
	require.Len(t, calls, 2)
	req := calls[1][0].(models.BenchmarkRequest)
	assert.Equal(t, "last_12_months", *req.Timeframe)
	assert.Nil(t, req.Industry)
}

func TestBenchmarkView_RequiresCampaign(t *testing.T) {
	api := &fakeAPI{}
	deps, _ := newDeps(api)
	v := NewBenchmarkView(deps)
	t.Cleanup(v.Close)

	wait(t, v.Run())
	assert.Equal(t, ErrSelectCampaign.Message, v.Snapshot().Error)
	assert.Zero(t, api.total())
}

func TestBenchmarkView_ClientChangeClearsCampaign(t *testing.T) {
	deps, _ := newDeps(&fakeAPI{})
	v := NewBenchmarkView(deps)
	t.Cleanup(v.Close)

	v.SelectCampaign(3)
	v.SetFilters(BenchmarkFilters{Industry: "HVAC"})
	wait(t, v.Run())

	wait(t, v.SelectClient(2))
	st := v.Snapshot()
	assert.Nil(t, st.SelectedCampaignID)
	assert.Nil(t, st.Result)
	assert.Equal(t, BenchmarkFilters{}, st.Filters)
}

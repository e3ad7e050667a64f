package views

import (
	"context"
	"testing"

	"github.com/patrickwarner/campaigninsight/internal/config"
	"github.com/patrickwarner/campaigninsight/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvancedROIView_CampaignMatchedOffNeverCallsAPI(t *testing.T) {
	api := &fakeAPI{}
	deps, metrics := newDeps(api)
	v := NewAdvancedROIView(deps, config.FeatureFlags{CampaignMatchedROI: false})
	t.Cleanup(v.Close)

	v.SetMode(ModeCampaignMatched)
	v.SelectCampaign(7)
	v.SetMatchedCampaignCost(7500)
	v.SetSalesFile(models.Upload{Filename: "sales.csv", Data: []byte("name,revenue\n")})
	wait(t, v.CalculateCampaignMatched())

	assert.Zero(t, api.total())
	st := v.Snapshot()
	assert.True(t, st.ComingSoon)
	assert.True(t, st.Preview)
	assert.False(t, st.CampaignMatchedOn)
	assert.False(t, st.SubmitEnabled)
	assert.Equal(t, ErrCampaignMatchedOff.Message, st.Error)
	assert.Equal(t, SampleCampaignMatchedResult(), st.Result)
	assert.Zero(t, metrics.ROICalculations(string(ModeCampaignMatched), string(models.DataSourceCSVParsed)))
}

func TestAdvancedROIView_SwitchingToCampaignMatchedShowsPreview(t *testing.T) {
	deps, _ := newDeps(&fakeAPI{})
	v := NewAdvancedROIView(deps, config.FeatureFlags{})
	t.Cleanup(v.Close)

	assert.Nil(t, v.Snapshot().Result)
	v.SetMode(ModeCampaignMatched)
	st := v.Snapshot()
	assert.True(t, st.ComingSoon)
	require.NotNil(t, st.Result)
	require.NotNil(t, st.Result.MatchedResults)
	assert.Equal(t, 4, st.Result.MatchedResults.MatchedCustomers)

	v.SetMode(ModeSimple)
	st = v.Snapshot()
	assert.False(t, st.ComingSoon)
	assert.Nil(t, st.Result)
	assert.Empty(t, st.Error)
}

func TestAdvancedROIView_ClientChangeKeepsPreviewWhenOff(t *testing.T) {
	api := &fakeAPI{
		campaigns: func(context.Context, int) ([]models.CampaignSummary, error) {
			return []models.CampaignSummary{campaign(7, "Spring")}, nil
		},
	}
	deps, _ := newDeps(api)
	v := NewAdvancedROIView(deps, config.FeatureFlags{CampaignMatchedROI: false})
	t.Cleanup(v.Close)

	v.SetMode(ModeCampaignMatched)
	wait(t, v.SelectClient(42))
	v.SelectCampaign(7)
	wait(t, v.SelectClient(43))

	st := v.Snapshot()
	assert.Nil(t, st.SelectedCampaignID)
	assert.True(t, st.ComingSoon)
	assert.True(t, st.Preview)
	assert.Equal(t, SampleCampaignMatchedResult(), st.Result)
	assert.Equal(t, ErrCampaignMatchedOff.Message, st.Error)
	assert.False(t, st.SubmitEnabled)
	assert.Empty(t, api.argsOf("CalculateCampaignMatchedROI"))
}

func TestAdvancedROIView_CampaignMatchedOn(t *testing.T) {
	api := &fakeAPI{
		matched: func(_ context.Context, req models.CampaignMatchedROIRequest) (*models.AdvancedROIResponse, error) {
			return &models.AdvancedROIResponse{
				ROIPercentage:   85,
				DataSource:      models.DataSourceCSVParsed,
				CalculationType: models.CalculationCampaignMatched,
				MatchedResults:  &models.CampaignMatchedResults{MatchedCustomers: 2, UnmatchedCustomers: 1},
			}, nil
		},
	}
	deps, metrics := newDeps(api)
	v := NewAdvancedROIView(deps, config.FeatureFlags{CampaignMatchedROI: true})
	t.Cleanup(v.Close)

	v.SetMode(ModeCampaignMatched)
	assert.Nil(t, v.Snapshot().Result)

	wait(t, v.CalculateCampaignMatched())
	assert.Equal(t, ErrSelectCampaign.Message, v.Snapshot().Error)

	v.SelectCampaign(7)
	wait(t, v.CalculateCampaignMatched())
	assert.Equal(t, ErrMissingCost.Message, v.Snapshot().Error)

	v.SetMatchedCampaignCost(1200)
	wait(t, v.CalculateCampaignMatched())
	assert.Equal(t, ErrMissingSalesFile.Message, v.Snapshot().Error)
	assert.False(t, v.Snapshot().SubmitEnabled)
	assert.Zero(t, api.total())

	v.SetSalesFile(models.Upload{Filename: "sales.csv", Data: []byte("name,address,revenue\n")})
	assert.True(t, v.Snapshot().SubmitEnabled)
	wait(t, v.CalculateCampaignMatched())

	calls := api.argsOf("CalculateCampaignMatchedROI")
	require.Len(t, calls, 1)
	req := calls[0][0].(models.CampaignMatchedROIRequest)
	assert.Equal(t, 7, req.CampaignID)
	assert.Equal(t, 1200.0, req.CampaignCost)
	assert.Equal(t, "sales.csv", req.SalesFile.Filename)

	st := v.Snapshot()
	assert.False(t, st.ComingSoon)
	assert.False(t, st.Preview)
	assert.Empty(t, st.Error)
	require.NotNil(t, st.Result)
	assert.Equal(t, 2, st.Result.MatchedResults.MatchedCustomers)
	assert.Equal(t, 1, metrics.ROICalculations("campaign_matched", "csv_parsed"))
}

func TestAdvancedROIView_CalculateSimple(t *testing.T) {
	api := &fakeAPI{
		advSimple: func(_ context.Context, req models.AdvancedROISimpleRequest) (*models.AdvancedROIResponse, error) {
			return &models.AdvancedROIResponse{ROIPercentage: 60, DataSource: models.DataSourceManualInput}, nil
		},
	}
	deps, metrics := newDeps(api)
	v := NewAdvancedROIView(deps, config.FeatureFlags{})
	t.Cleanup(v.Close)

	v.SetSimpleInputs(SimpleROIInputs{CampaignCost: 1000})
	assert.False(t, v.Snapshot().SubmitEnabled)
	wait(t, v.CalculateSimple())
	assert.Equal(t, ErrEnterRevenue.Message, v.Snapshot().Error)

	in := SimpleROIInputs{CampaignCost: 1000, Revenue: 2000, CostOfGoods: 300, AdditionalCosts: 100}
	v.SetSimpleInputs(in)
	assert.True(t, v.Snapshot().SubmitEnabled)
	wait(t, v.CalculateSimple())

	calls := api.argsOf("CalculateAdvancedROISimple")
	require.Len(t, calls, 1)
	assert.Equal(t, models.AdvancedROISimpleRequest{
		CampaignCost: 1000, Revenue: 2000, CostOfGoods: 300, AdditionalCosts: 100,
		CalculationType: models.CalculationSimple,
	}, calls[0][0])

	st := v.Snapshot()
	require.NotNil(t, st.Result)
	assert.Equal(t, 60.0, st.Result.ROIPercentage)
	assert.False(t, st.Preview)
	assert.Equal(t, 1, metrics.ROICalculations("simple", "manual_input"))
}

func TestSampleCampaignMatchedResult_IsConsistent(t *testing.T) {
	s := SampleCampaignMatchedResult()
	m := s.MatchedResults
	require.NotNil(t, m)
	assert.Len(t, m.CustomerMatches, m.MatchedCustomers+m.UnmatchedCustomers)

	var matched float64
	for _, c := range m.CustomerMatches {
		if c.MatchMethod != "none" && c.Revenue != nil {
			matched += *c.Revenue
		}
	}
	assert.InDelta(t, m.MatchedRevenue, matched, 0.001)
	assert.InDelta(t, s.TotalRevenue-s.TotalCost-(s.TotalRevenue-*s.GrossProfit), s.ProfitAmount, 0.001)

	// Callers may mutate their copy.
	s.MatchedResults.MatchedCustomers = 0
	assert.Equal(t, 4, SampleCampaignMatchedResult().MatchedResults.MatchedCustomers)
}

package views

import (
	"context"

	"github.com/patrickwarner/campaigninsight/internal/analyticsapi"
	"github.com/patrickwarner/campaigninsight/internal/models"
)

// CompareView drives the campaign comparison page:
// client -> campaigns -> primary campaign -> similar-duration campaigns ->
// comparison campaign -> comparison result.
type CompareView struct {
	base
	picker    campaignPicker
	tolerance float64

	primaryID    *int
	similar      []models.CampaignSummary
	similarBusy  bool
	comparisonID *int
	result       *models.CompareResponse
	comparing    bool
	errMsg       string

	similarSlot slot
	compareSlot slot
}

// CompareState is a point-in-time copy of a CompareView.
type CompareState struct {
	PickerState
	PrimaryCampaignID    *int                     `json:"primary_campaign_id"`
	SimilarCampaigns     []models.CampaignSummary `json:"similar_campaigns"`
	SimilarLoading       bool                     `json:"similar_loading"`
	ComparisonCampaignID *int                     `json:"comparison_campaign_id"`
	Result               *models.CompareResponse  `json:"result"`
	Comparing            bool                     `json:"comparing"`
	Error                string                   `json:"error"`
}

// CompareOption customizes a CompareView.
type CompareOption func(*CompareView)

// WithDurationTolerance overrides the similar-duration window in days.
func WithDurationTolerance(days float64) CompareOption {
	return func(v *CompareView) { v.tolerance = days }
}

// NewCompareView creates an idle CompareView. Call LoadClients to populate
// the client selector.
func NewCompareView(deps Deps, opts ...CompareOption) *CompareView {
	v := &CompareView{tolerance: analyticsapi.DefaultDurationTolerance}
	v.base.init("compare", deps)
	v.picker = campaignPicker{b: &v.base, err: &v.errMsg, onClientChange: v.resetFromPrimary}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// LoadClients fetches the client list.
func (v *CompareView) LoadClients() <-chan struct{} {
	return v.picker.loadClients()
}

// SelectClient chooses a client and loads its campaigns.
func (v *CompareView) SelectClient(clientID int) <-chan struct{} {
	return v.picker.selectClient(clientID)
}

// resetFromPrimary clears the primary campaign and everything below it.
func (v *CompareView) resetFromPrimary() {
	v.primaryID = nil
	v.similarBusy = false
	v.similarSlot.invalidate()
	v.resetFromSimilar()
}

// resetFromSimilar clears the similar list, the comparison campaign and the
// result.
func (v *CompareView) resetFromSimilar() {
	v.similar = nil
	v.comparisonID = nil
	v.resetResult()
}

func (v *CompareView) resetResult() {
	v.result = nil
	v.comparing = false
	v.compareSlot.invalidate()
}

// SelectPrimaryCampaign chooses the campaign to compare from and loads the
// campaigns of similar duration. The comparison campaign, similar list,
// previous result and error are cleared before the fetch starts.
func (v *CompareView) SelectPrimaryCampaign(campaignID int) <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.resetFromSimilar()
	v.primaryID = intRef(campaignID)
	v.errMsg = ""

	v.similarBusy = true
	tolerance := v.tolerance
	return runLoad(&v.base, &v.similarSlot, "similar",
		func(ctx context.Context) ([]models.CampaignSummary, error) {
			return v.api.GetSimilarCampaigns(ctx, campaignID, tolerance)
		},
		func(campaigns []models.CampaignSummary, err error) {
			v.similarBusy = false
			if err != nil {
				v.errMsg = errorText(err, msgLoadSimilar)
				return
			}
			v.similar = campaigns
		})
}

// SelectComparisonCampaign chooses the campaign to compare against. Any
// previous result belongs to another pair and is cleared.
func (v *CompareView) SelectComparisonCampaign(campaignID int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.resetResult()
	v.comparisonID = intRef(campaignID)
	v.errMsg = ""
}

// Compare runs the comparison of the primary and comparison campaigns.
func (v *CompareView) Compare() <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.primaryID == nil || v.comparisonID == nil {
		v.errMsg = ErrSelectTwoCampaigns.Error()
		return settled()
	}

	ids := []int{*v.primaryID, *v.comparisonID}
	v.result = nil
	v.errMsg = ""
	v.comparing = true
	return runLoad(&v.base, &v.compareSlot, "compare",
		func(ctx context.Context) (*models.CompareResponse, error) {
			return v.api.CompareCampaigns(ctx, ids)
		},
		func(resp *models.CompareResponse, err error) {
			v.comparing = false
			if err != nil {
				v.errMsg = errorText(err, msgCompare)
				return
			}
			v.result = resp
		})
}

// Snapshot returns a copy of the current state.
func (v *CompareView) Snapshot() CompareState {
	v.mu.Lock()
	defer v.mu.Unlock()

	return CompareState{
		PickerState:          v.picker.snapshot(),
		PrimaryCampaignID:    cloneInt(v.primaryID),
		SimilarCampaigns:     cloneSlice(v.similar),
		SimilarLoading:       v.similarBusy,
		ComparisonCampaignID: cloneInt(v.comparisonID),
		Result:               v.result,
		Comparing:            v.comparing,
		Error:                v.errMsg,
	}
}

package views

import (
	"context"

	"github.com/patrickwarner/campaigninsight/internal/config"
	"github.com/patrickwarner/campaigninsight/internal/models"
)

// AdvancedROIMode selects the advanced ROI calculation.
type AdvancedROIMode string

const (
	ModeSimple          AdvancedROIMode = models.CalculationSimple
	ModeCampaignMatched AdvancedROIMode = models.CalculationCampaignMatched
)

// SimpleROIInputs are the manual figures for a simple advanced calculation.
type SimpleROIInputs struct {
	CampaignCost    float64 `json:"campaign_cost"`
	Revenue         float64 `json:"revenue"`
	CostOfGoods     float64 `json:"cost_of_goods"`
	AdditionalCosts float64 `json:"additional_costs"`
}

// AdvancedROIView drives the advanced ROI page. Campaign-matched mode walks
// client -> campaigns -> campaign, then takes a campaign cost and a sales
// file. With the campaign-matched flag off that mode never reaches the
// backend and shows a fixed illustrative result instead.
type AdvancedROIView struct {
	base
	picker   campaignPicker
	features config.FeatureFlags

	mode        AdvancedROIMode
	simple      SimpleROIInputs
	campaignID  *int
	matchedCost float64
	salesFile   *models.Upload
	result      *models.AdvancedROIResponse
	preview     bool
	comingSoon  bool
	calculating bool
	errMsg      string

	calcSlot slot
}

// AdvancedROIState is a point-in-time copy of an AdvancedROIView.
type AdvancedROIState struct {
	PickerState
	Mode               AdvancedROIMode             `json:"mode"`
	CampaignMatchedOn  bool                        `json:"campaign_matched_enabled"`
	Simple             SimpleROIInputs             `json:"simple"`
	SelectedCampaignID *int                        `json:"selected_campaign_id"`
	MatchedCost        float64                     `json:"matched_campaign_cost"`
	SalesFileName      string                      `json:"sales_file_name,omitempty"`
	SubmitEnabled      bool                        `json:"submit_enabled"`
	Result             *models.AdvancedROIResponse `json:"result"`
	Preview            bool                        `json:"preview"`
	ComingSoon         bool                        `json:"coming_soon"`
	Calculating        bool                        `json:"calculating"`
	Error              string                      `json:"error"`
}

// NewAdvancedROIView creates an AdvancedROIView in simple mode.
func NewAdvancedROIView(deps Deps, features config.FeatureFlags) *AdvancedROIView {
	v := &AdvancedROIView{features: features, mode: ModeSimple}
	v.base.init("advanced_roi", deps)
	v.picker = campaignPicker{b: &v.base, err: &v.errMsg, onClientChange: v.resetFromCampaign}
	return v
}

// LoadClients fetches the client list.
func (v *AdvancedROIView) LoadClients() <-chan struct{} {
	return v.picker.loadClients()
}

// SelectClient chooses a client and loads its campaigns.
func (v *AdvancedROIView) SelectClient(clientID int) <-chan struct{} {
	return v.picker.selectClient(clientID)
}

func (v *AdvancedROIView) resetFromCampaign() {
	v.campaignID = nil
	v.resetResult()
	if v.mode == ModeCampaignMatched && !v.features.CampaignMatchedROI {
		v.showSample()
	}
}

func (v *AdvancedROIView) resetResult() {
	v.result = nil
	v.preview = false
	v.comingSoon = false
	v.calculating = false
	v.calcSlot.invalidate()
}

// SetMode switches between simple and campaign-matched calculation. The
// previous result belongs to the other mode and is cleared.
func (v *AdvancedROIView) SetMode(mode AdvancedROIMode) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if mode != ModeCampaignMatched {
		mode = ModeSimple
	}
	if mode == v.mode {
		return
	}
	v.mode = mode
	v.errMsg = ""
	v.resetResult()
	if mode == ModeCampaignMatched && !v.features.CampaignMatchedROI {
		v.showSample()
	}
}

// SetSimpleInputs replaces the manual figures.
func (v *AdvancedROIView) SetSimpleInputs(in SimpleROIInputs) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.simple = in
}

// SelectCampaign chooses the campaign whose mailing list the sales file is
// matched against.
func (v *AdvancedROIView) SelectCampaign(campaignID int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.campaignID = intRef(campaignID)
	v.errMsg = ""
	if v.features.CampaignMatchedROI {
		v.resetResult()
	}
}

// SetMatchedCampaignCost sets the cost used for campaign-matched ROI.
func (v *AdvancedROIView) SetMatchedCampaignCost(cost float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.matchedCost = cost
}

// SetSalesFile attaches the customer sales file.
func (v *AdvancedROIView) SetSalesFile(file models.Upload) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.salesFile = &file
}

// ClearSalesFile removes the customer sales file.
func (v *AdvancedROIView) ClearSalesFile() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.salesFile = nil
}

// Request builds the simple advanced ROI request for these figures.
func (in SimpleROIInputs) Request() models.AdvancedROISimpleRequest {
	return models.AdvancedROISimpleRequest{
		CampaignCost:    in.CampaignCost,
		Revenue:         in.Revenue,
		CostOfGoods:     in.CostOfGoods,
		AdditionalCosts: in.AdditionalCosts,
		CalculationType: models.CalculationSimple,
	}
}

// CalculateSimple computes ROI from the manual figures, including cost of
// goods sold.
func (v *AdvancedROIView) CalculateSimple() <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.resetResult()
	switch {
	case v.simple.CampaignCost <= 0:
		v.errMsg = ErrMissingCost.Error()
		return settled()
	case v.simple.Revenue <= 0:
		v.errMsg = ErrEnterRevenue.Error()
		return settled()
	}

	req := v.simple.Request()
	v.errMsg = ""
	v.calculating = true
	return runLoad(&v.base, &v.calcSlot, "simple",
		func(ctx context.Context) (*models.AdvancedROIResponse, error) {
			return v.api.CalculateAdvancedROISimple(ctx, req)
		},
		func(resp *models.AdvancedROIResponse, err error) {
			v.calculating = false
			if err != nil {
				v.errMsg = errorText(err, msgAdvancedROI)
				return
			}
			v.metrics.IncrementROICalculations(string(ModeSimple), string(resp.DataSource))
			v.result = resp
		})
}

// CalculateCampaignMatched matches the sales file against the selected
// campaign's mailing list and computes ROI on the matched revenue. With the
// flag off no request is made: the view enters the coming-soon state and
// shows the illustrative result.
func (v *AdvancedROIView) CalculateCampaignMatched() <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.features.CampaignMatchedROI {
		v.resetResult()
		v.showSample()
		return settled()
	}

	v.resetResult()
	switch {
	case v.campaignID == nil:
		v.errMsg = ErrSelectCampaign.Error()
		return settled()
	case v.matchedCost <= 0:
		v.errMsg = ErrMissingCost.Error()
		return settled()
	case v.salesFile.Empty():
		v.errMsg = ErrMissingSalesFile.Error()
		return settled()
	}

	req := models.CampaignMatchedROIRequest{
		CampaignID:   *v.campaignID,
		CampaignCost: v.matchedCost,
		SalesFile:    *v.salesFile,
	}
	v.errMsg = ""
	v.calculating = true
	return runLoad(&v.base, &v.calcSlot, "campaign_matched",
		func(ctx context.Context) (*models.AdvancedROIResponse, error) {
			return v.api.CalculateCampaignMatchedROI(ctx, req)
		},
		func(resp *models.AdvancedROIResponse, err error) {
			v.calculating = false
			if err != nil {
				v.errMsg = errorText(err, msgAdvancedROI)
				return
			}
			v.metrics.IncrementROICalculations(string(ModeCampaignMatched), string(resp.DataSource))
			v.result = resp
		})
}

// showSample puts the view in the coming-soon state. Callers hold the lock.
func (v *AdvancedROIView) showSample() {
	v.result = SampleCampaignMatchedResult()
	v.preview = true
	v.comingSoon = true
	v.errMsg = ErrCampaignMatchedOff.Error()
}

func (v *AdvancedROIView) submitEnabled() bool {
	if v.calculating {
		return false
	}
	if v.mode == ModeSimple {
		return v.simple.CampaignCost > 0 && v.simple.Revenue > 0
	}
	return v.features.CampaignMatchedROI &&
		v.campaignID != nil && v.matchedCost > 0 && !v.salesFile.Empty()
}

// Snapshot returns a copy of the current state.
func (v *AdvancedROIView) Snapshot() AdvancedROIState {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := AdvancedROIState{
		PickerState:        v.picker.snapshot(),
		Mode:               v.mode,
		CampaignMatchedOn:  v.features.CampaignMatchedROI,
		Simple:             v.simple,
		SelectedCampaignID: cloneInt(v.campaignID),
		MatchedCost:        v.matchedCost,
		SubmitEnabled:      v.submitEnabled(),
		Result:             v.result,
		Preview:            v.preview,
		ComingSoon:         v.comingSoon,
		Calculating:        v.calculating,
		Error:              v.errMsg,
	}
	if v.salesFile != nil {
		st.SalesFileName = v.salesFile.Filename
	}
	return st
}

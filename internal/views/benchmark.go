package views

import (
	"context"
	"strings"

	"github.com/patrickwarner/campaigninsight/internal/models"
)

// BenchmarkFilters narrows the peer group. Empty strings mean "any".
type BenchmarkFilters struct {
	Industry  string `json:"industry"`
	JobType   string `json:"job_type"`
	Timeframe string `json:"timeframe"`
}

// BenchmarkView drives the industry benchmark page:
// client -> campaigns -> campaign (+ filters) -> benchmark result.
type BenchmarkView struct {
	base
	picker campaignPicker

	campaignID *int
	filters    BenchmarkFilters
	result     *models.BenchmarkResponse
	running    bool
	errMsg     string

	benchSlot slot
}

// BenchmarkState is a point-in-time copy of a BenchmarkView.
type BenchmarkState struct {
	PickerState
	SelectedCampaignID *int                      `json:"selected_campaign_id"`
	Filters            BenchmarkFilters          `json:"filters"`
	Result             *models.BenchmarkResponse `json:"result"`
	Running            bool                      `json:"running"`
	Error              string                    `json:"error"`
}

// NewBenchmarkView creates an idle BenchmarkView.
func NewBenchmarkView(deps Deps) *BenchmarkView {
	v := &BenchmarkView{}
	v.base.init("benchmark", deps)
	v.picker = campaignPicker{b: &v.base, err: &v.errMsg, onClientChange: v.resetFromCampaign}
	return v
}

// LoadClients fetches the client list.
func (v *BenchmarkView) LoadClients() <-chan struct{} {
	return v.picker.loadClients()
}

// SelectClient chooses a client and loads its campaigns.
func (v *BenchmarkView) SelectClient(clientID int) <-chan struct{} {
	return v.picker.selectClient(clientID)
}

func (v *BenchmarkView) resetFromCampaign() {
	v.campaignID = nil
	v.filters = BenchmarkFilters{}
	v.resetResult()
}

func (v *BenchmarkView) resetResult() {
	v.result = nil
	v.running = false
	v.benchSlot.invalidate()
}

// SelectCampaign chooses the campaign to benchmark. The industry and job type
// filters default to the campaign's own values when it is in the loaded list.
func (v *BenchmarkView) SelectCampaign(campaignID int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.resetResult()
	v.campaignID = intRef(campaignID)
	v.errMsg = ""
	v.filters = BenchmarkFilters{}
	if c, ok := v.picker.findCampaign(campaignID); ok {
		if c.Industry != nil {
			v.filters.Industry = *c.Industry
		}
		if c.JobType != nil {
			v.filters.JobType = *c.JobType
		}
	}
}

// SetFilters replaces the peer-group filters; a previous result no longer
// matches and is cleared.
func (v *BenchmarkView) SetFilters(f BenchmarkFilters) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.resetResult()
	v.filters = f
}

// Run benchmarks the selected campaign.
func (v *BenchmarkView) Run() <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.campaignID == nil {
		v.errMsg = ErrSelectCampaign.Error()
		return settled()
	}

	req := v.filters.Request(*v.campaignID)
	v.result = nil
	v.errMsg = ""
	v.running = true
	return runLoad(&v.base, &v.benchSlot, "benchmark",
		func(ctx context.Context) (*models.BenchmarkResponse, error) {
			return v.api.BenchmarkCampaign(ctx, req)
		},
		func(resp *models.BenchmarkResponse, err error) {
			v.running = false
			if err != nil {
				v.errMsg = errorText(err, msgBenchmark)
				return
			}
			v.result = resp
		})
}

// Snapshot returns a copy of the current state.
func (v *BenchmarkView) Snapshot() BenchmarkState {
	v.mu.Lock()
	defer v.mu.Unlock()

	return BenchmarkState{
		PickerState:        v.picker.snapshot(),
		SelectedCampaignID: cloneInt(v.campaignID),
		Filters:            v.filters,
		Result:             v.result,
		Running:            v.running,
		Error:              v.errMsg,
	}
}

// Request builds the benchmark request for campaignID. Blank filters are
// omitted so the backend falls back to the campaign's own attributes.
func (f BenchmarkFilters) Request(campaignID int) models.BenchmarkRequest {
	return models.BenchmarkRequest{
		CampaignID: campaignID,
		Industry:   optionalString(f.Industry),
		JobType:    optionalString(f.JobType),
		Timeframe:  optionalString(f.Timeframe),
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

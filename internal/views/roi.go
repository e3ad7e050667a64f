package views

import (
	"context"
	"strings"

	"github.com/patrickwarner/campaigninsight/internal/models"
)

// ROIMethod names the input path a calculation took.
type ROIMethod string

const (
	ROIMethodFile         ROIMethod = "file"
	ROIMethodTextWithCost ROIMethod = "text_with_cost"
	ROIMethodText         ROIMethod = "text"
	ROIMethodManual       ROIMethod = "manual"
)

// ROIInputs is everything the ROI page collects. File and PastedText are
// mutually exclusive; the setters on ROIView enforce that.
type ROIInputs struct {
	CampaignCost    float64
	Revenue         float64
	AdditionalCosts float64
	PastedText      string
	File            *models.Upload
	CampaignID      *int
}

// ROIPlan is the request an ROIInputs resolves to. Exactly one of Request
// and FileRequest is set.
type ROIPlan struct {
	Method      ROIMethod
	Request     *models.ROIRequest
	FileRequest *models.ROIFileRequest
}

// PlanROI picks the input method by priority: uploaded file, pasted text
// with a cost, pasted text alone, manual cost and revenue. A cost with no
// revenue source, a revenue with no cost, and no input at all are
// validation errors. Costs are only sent when greater than zero.
func PlanROI(in ROIInputs) (ROIPlan, error) {
	text := strings.TrimSpace(in.PastedText)
	cost := positive(in.CampaignCost)
	extra := positive(in.AdditionalCosts)

	switch {
	case !in.File.Empty():
		return ROIPlan{
			Method: ROIMethodFile,
			FileRequest: &models.ROIFileRequest{
				File:            *in.File,
				CampaignCost:    cost,
				CampaignID:      cloneInt(in.CampaignID),
				AdditionalCosts: extra,
			},
		}, nil

	case text != "":
		method := ROIMethodText
		if cost != nil {
			method = ROIMethodTextWithCost
		}
		format := models.DataFormatText
		return ROIPlan{
			Method: method,
			Request: &models.ROIRequest{
				CampaignCost:    cost,
				AdditionalCosts: extra,
				UploadedData:    &text,
				DataFormat:      &format,
				CampaignID:      cloneInt(in.CampaignID),
			},
		}, nil

	case cost != nil && in.Revenue > 0:
		revenue := in.Revenue
		return ROIPlan{
			Method: ROIMethodManual,
			Request: &models.ROIRequest{
				CampaignCost:    cost,
				Revenue:         &revenue,
				AdditionalCosts: extra,
				CampaignID:      cloneInt(in.CampaignID),
			},
		}, nil

	case cost != nil:
		return ROIPlan{}, ErrMissingRevenue
	case in.Revenue > 0:
		return ROIPlan{}, ErrMissingCost
	default:
		return ROIPlan{}, ErrNoROIInput
	}
}

func positive(v float64) *float64 {
	if v > 0 {
		return &v
	}
	return nil
}

// ROIView drives the ROI calculator page.
type ROIView struct {
	base

	inputs      ROIInputs
	result      *models.ROIResponse
	method      ROIMethod
	calculating bool
	errMsg      string

	calcSlot slot
}

// ROIState is a point-in-time copy of an ROIView. File contents are not
// copied, only the file name.
type ROIState struct {
	CampaignCost    float64             `json:"campaign_cost"`
	Revenue         float64             `json:"revenue"`
	AdditionalCosts float64             `json:"additional_costs"`
	PastedText      string              `json:"pasted_text"`
	FileName        string              `json:"file_name,omitempty"`
	CampaignID      *int                `json:"campaign_id"`
	Method          ROIMethod           `json:"method,omitempty"`
	Result          *models.ROIResponse `json:"result"`
	Calculating     bool                `json:"calculating"`
	Error           string              `json:"error"`
}

// NewROIView creates an ROIView with empty inputs.
func NewROIView(deps Deps) *ROIView {
	v := &ROIView{}
	v.base.init("roi", deps)
	return v
}

// SetCampaignCost sets the manual campaign cost.
func (v *ROIView) SetCampaignCost(cost float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputs.CampaignCost = cost
}

// SetRevenue sets the manual revenue.
func (v *ROIView) SetRevenue(revenue float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputs.Revenue = revenue
}

// SetAdditionalCosts sets costs beyond the campaign itself.
func (v *ROIView) SetAdditionalCosts(costs float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputs.AdditionalCosts = costs
}

// SetCampaignID attaches a campaign for contextual enrichment, or detaches
// it when id is nil.
func (v *ROIView) SetCampaignID(id *int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputs.CampaignID = cloneInt(id)
}

// SetPastedText sets the free-text sales data. Non-empty text discards any
// uploaded file.
func (v *ROIView) SetPastedText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputs.PastedText = text
	if strings.TrimSpace(text) != "" {
		v.inputs.File = nil
	}
}

// SetFile attaches an upload and discards any pasted text.
func (v *ROIView) SetFile(file models.Upload) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputs.File = &file
	v.inputs.PastedText = ""
}

// ClearFile removes the uploaded file.
func (v *ROIView) ClearFile() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputs.File = nil
}

// Calculate resolves the inputs to a request and sends it. Validation
// problems are reported in the state's Error without contacting the API.
func (v *ROIView) Calculate() <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.result = nil
	v.method = ""
	v.calcSlot.invalidate()
	v.calculating = false

	plan, err := PlanROI(v.inputs)
	if err != nil {
		v.errMsg = err.Error()
		return settled()
	}

	v.errMsg = ""
	v.method = plan.Method
	v.calculating = true
	return runLoad(&v.base, &v.calcSlot, "calculate",
		func(ctx context.Context) (*models.ROIResponse, error) {
			if plan.FileRequest != nil {
				return v.api.CalculateROIFromFile(ctx, *plan.FileRequest)
			}
			return v.api.CalculateROI(ctx, *plan.Request)
		},
		func(resp *models.ROIResponse, err error) {
			v.calculating = false
			if err != nil {
				v.errMsg = errorText(err, msgCalculateROI)
				return
			}
			v.metrics.IncrementROICalculations(string(plan.Method), string(resp.DataSource))
			v.result = resp
		})
}

// Snapshot returns a copy of the current state.
func (v *ROIView) Snapshot() ROIState {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := ROIState{
		CampaignCost:    v.inputs.CampaignCost,
		Revenue:         v.inputs.Revenue,
		AdditionalCosts: v.inputs.AdditionalCosts,
		PastedText:      v.inputs.PastedText,
		CampaignID:      cloneInt(v.inputs.CampaignID),
		Method:          v.method,
		Result:          v.result,
		Calculating:     v.calculating,
		Error:           v.errMsg,
	}
	if v.inputs.File != nil {
		st.FileName = v.inputs.File.Filename
	}
	return st
}

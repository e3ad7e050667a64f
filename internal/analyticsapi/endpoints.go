package analyticsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/patrickwarner/campaigninsight/internal/config"
	"github.com/patrickwarner/campaigninsight/internal/models"
)

// DefaultDurationTolerance is the similar-duration window in days used when
// the caller has no preference.
const DefaultDurationTolerance = 2.0

// GetClients lists every client with its campaign count.
func (c *Client) GetClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := c.getJSON(ctx, opGetClients, "/clients", &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// GetCampaignsByClient lists the campaigns belonging to one client.
func (c *Client) GetCampaignsByClient(ctx context.Context, clientID int) ([]models.CampaignSummary, error) {
	var campaigns []models.CampaignSummary
	path := fmt.Sprintf("/campaigns/by-client/%d", clientID)
	if err := c.getJSON(ctx, opGetCampaigns, path, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// GetSimilarCampaigns lists campaigns whose duration is within tolerance days
// of the given campaign's.
func (c *Client) GetSimilarCampaigns(ctx context.Context, campaignID int, tolerance float64) ([]models.CampaignSummary, error) {
	var campaigns []models.CampaignSummary
	q := url.Values{}
	q.Set("duration_tolerance", strconv.FormatFloat(tolerance, 'f', -1, 64))
	path := fmt.Sprintf("/campaigns/%d/similar-duration?%s", campaignID, q.Encode())
	if err := c.getJSON(ctx, opGetSimilar, path, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// CompareCampaigns runs the structural and KPI comparison of the given
// campaigns (primary first).
func (c *Client) CompareCampaigns(ctx context.Context, campaignIDs []int) (*models.CompareResponse, error) {
	var resp models.CompareResponse
	body := models.CompareRequest{CampaignIDs: campaignIDs}
	if err := c.postJSON(ctx, opCompare, "/compare", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BenchmarkCampaign measures a campaign against its industry peers.
func (c *Client) BenchmarkCampaign(ctx context.Context, req models.BenchmarkRequest) (*models.BenchmarkResponse, error) {
	var resp models.BenchmarkResponse
	if err := c.postJSON(ctx, opBenchmark, "/industry-benchmark", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CalculateROI computes ROI from manual figures and/or pasted text.
func (c *Client) CalculateROI(ctx context.Context, req models.ROIRequest) (*models.ROIResponse, error) {
	var resp models.ROIResponse
	if err := c.postJSON(ctx, opCalculateROI, "/calculate-roi", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CalculateROIFromFile uploads a sales/revenue file for parsing and ROI
// calculation.
func (c *Client) CalculateROIFromFile(ctx context.Context, req models.ROIFileRequest) (*models.ROIResponse, error) {
	form := newMultipartForm()
	form.file("file", req.File)
	form.optionalFloat("campaign_cost", req.CampaignCost)
	form.optionalInt("campaign_id", req.CampaignID)
	form.optionalFloat("additional_costs", req.AdditionalCosts)

	var resp models.ROIResponse
	if err := c.postMultipart(ctx, opCalculateROIFile, "/calculate-roi-file", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CalculateAdvancedROISimple computes ROI including cost of goods.
// CalculationType is always sent as "simple".
func (c *Client) CalculateAdvancedROISimple(ctx context.Context, req models.AdvancedROISimpleRequest) (*models.AdvancedROIResponse, error) {
	req.CalculationType = models.CalculationSimple
	var resp models.AdvancedROIResponse
	if err := c.postJSON(ctx, opAdvancedSimple, "/advanced-roi/simple", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CalculateCampaignMatchedROI matches a sales file against the campaign's
// mailing list and attributes revenue to matched customers.
func (c *Client) CalculateCampaignMatchedROI(ctx context.Context, req models.CampaignMatchedROIRequest) (*models.AdvancedROIResponse, error) {
	form := newMultipartForm()
	form.field("campaign_id", strconv.Itoa(req.CampaignID))
	form.field("campaign_cost", formatFloat(req.CampaignCost))
	form.file("sales_file", req.SalesFile)

	var resp models.AdvancedROIResponse
	if err := c.postMultipart(ctx, opCampaignMatched, "/advanced-roi/campaign-matched", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HealthCheck queries the health endpoint, which lives on the API origin
// rather than under /api/v1.
func (c *Client) HealthCheck(ctx context.Context) (*models.HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.OriginOf(c.baseURL)+"/health", nil)
	if err != nil {
		return nil, wrapError(opHealth.Verb, fmt.Errorf("create request: %w", err))
	}
	var status models.HealthStatus
	if err := c.do(opHealth, req, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

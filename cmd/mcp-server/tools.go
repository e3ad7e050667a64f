package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/patrickwarner/campaigninsight/internal/analyticsapi"
	"github.com/patrickwarner/campaigninsight/internal/config"
	"github.com/patrickwarner/campaigninsight/internal/display"
	"github.com/patrickwarner/campaigninsight/internal/models"
	"github.com/patrickwarner/campaigninsight/internal/views"
	"go.uber.org/zap"
)

const toolTimeout = 30 * time.Second

// Analytics is the slice of the analytics API the tools call.
type Analytics interface {
	views.API
	HealthCheck(ctx context.Context) (*models.HealthStatus, error)
}

// ToolServer exposes the analytics API as MCP tools.
type ToolServer struct {
	api      Analytics
	features config.FeatureFlags
	logger   *zap.Logger
}

type ListCampaignsInput struct {
	ClientID int `json:"client_id"`
}

type SimilarCampaignsInput struct {
	CampaignID int     `json:"campaign_id"`
	Tolerance  float64 `json:"tolerance,omitempty"`
}

type CompareCampaignsInput struct {
	CampaignIDs []int `json:"campaign_ids"`
}

// CompareCampaignsOutput adds the rendered comparability banner and KPI
// change labels to the raw comparison.
type CompareCampaignsOutput struct {
	*models.CompareResponse
	Banner     display.Banner    `json:"banner"`
	KPIChanges map[string]string `json:"kpi_changes"`
}

type BenchmarkCampaignInput struct {
	CampaignID int    `json:"campaign_id"`
	Industry   string `json:"industry,omitempty"`
	JobType    string `json:"job_type,omitempty"`
	Timeframe  string `json:"timeframe,omitempty"`
}

type CalculateROIInput struct {
	CampaignCost    float64 `json:"campaign_cost,omitempty"`
	Revenue         float64 `json:"revenue,omitempty"`
	AdditionalCosts float64 `json:"additional_costs,omitempty"`
	SalesText       string  `json:"sales_text,omitempty"`
	CampaignID      int     `json:"campaign_id,omitempty"`
}

// ROIOutput carries a calculation with its performance and accuracy labels.
type ROIOutput struct {
	Result      any    `json:"result"`
	Performance string `json:"performance"`
	Accuracy    string `json:"accuracy"`
	Preview     bool   `json:"preview,omitempty"`
	Notice      string `json:"notice,omitempty"`
}

type CampaignMatchedROIInput struct {
	CampaignID   int     `json:"campaign_id"`
	CampaignCost float64 `json:"campaign_cost"`
	SalesCSV     string  `json:"sales_csv"`
	Filename     string  `json:"filename,omitempty"`
}

type NoInput struct{}

// jsonResult renders v as the tool's text content.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil, nil
}

func (s *ToolServer) call(ctx context.Context, tool string, fn func(ctx context.Context) (any, error)) (*mcp.CallToolResult, any, error) {
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	start := time.Now()
	v, err := fn(ctx)
	if err != nil {
		s.logger.Warn("tool call failed",
			zap.String("tool", tool),
			zap.Int("status", analyticsapi.StatusCode(err)),
			zap.Error(err))
		return nil, nil, err
	}
	s.logger.Debug("tool call served", zap.String("tool", tool), zap.Duration("elapsed", time.Since(start)))
	return jsonResult(v)
}

func (s *ToolServer) ListClients(ctx context.Context, req *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "list_clients", func(ctx context.Context) (any, error) {
		return s.api.GetClients(ctx)
	})
}

func (s *ToolServer) ListCampaigns(ctx context.Context, req *mcp.CallToolRequest, in ListCampaignsInput) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "list_campaigns", func(ctx context.Context) (any, error) {
		return s.api.GetCampaignsByClient(ctx, in.ClientID)
	})
}

func (s *ToolServer) SimilarCampaigns(ctx context.Context, req *mcp.CallToolRequest, in SimilarCampaignsInput) (*mcp.CallToolResult, any, error) {
	tolerance := in.Tolerance
	if tolerance <= 0 {
		tolerance = analyticsapi.DefaultDurationTolerance
	}
	return s.call(ctx, "similar_campaigns", func(ctx context.Context) (any, error) {
		return s.api.GetSimilarCampaigns(ctx, in.CampaignID, tolerance)
	})
}

func (s *ToolServer) CompareCampaigns(ctx context.Context, req *mcp.CallToolRequest, in CompareCampaignsInput) (*mcp.CallToolResult, any, error) {
	if len(in.CampaignIDs) != 2 {
		return nil, nil, views.ErrSelectTwoCampaigns
	}
	return s.call(ctx, "compare_campaigns", func(ctx context.Context) (any, error) {
		res, err := s.api.CompareCampaigns(ctx, in.CampaignIDs)
		if err != nil {
			return nil, err
		}
		changes := make(map[string]string, len(res.KPIComparison))
		for name, kpi := range res.KPIComparison {
			changes[name] = display.KPIChange(kpi)
		}
		return CompareCampaignsOutput{
			CompareResponse: res,
			Banner:          display.StructuralBanner(res.StructuralAnalysis),
			KPIChanges:      changes,
		}, nil
	})
}

func (s *ToolServer) BenchmarkCampaign(ctx context.Context, req *mcp.CallToolRequest, in BenchmarkCampaignInput) (*mcp.CallToolResult, any, error) {
	filters := views.BenchmarkFilters{Industry: in.Industry, JobType: in.JobType, Timeframe: in.Timeframe}
	return s.call(ctx, "benchmark_campaign", func(ctx context.Context) (any, error) {
		return s.api.BenchmarkCampaign(ctx, filters.Request(in.CampaignID))
	})
}

func (s *ToolServer) CalculateROI(ctx context.Context, req *mcp.CallToolRequest, in CalculateROIInput) (*mcp.CallToolResult, any, error) {
	inputs := views.ROIInputs{
		CampaignCost:    in.CampaignCost,
		Revenue:         in.Revenue,
		AdditionalCosts: in.AdditionalCosts,
		PastedText:      in.SalesText,
	}
	if in.CampaignID > 0 {
		inputs.CampaignID = &in.CampaignID
	}
	plan, err := views.PlanROI(inputs)
	if err != nil {
		return nil, nil, err
	}
	return s.call(ctx, "calculate_roi", func(ctx context.Context) (any, error) {
		res, err := s.api.CalculateROI(ctx, *plan.Request)
		if err != nil {
			return nil, err
		}
		return ROIOutput{
			Result:      res,
			Performance: display.ROIPerformanceIndicator(res.ROIPercentage),
			Accuracy:    display.DataSourceDisplay(res.DataSource),
		}, nil
	})
}

func (s *ToolServer) AdvancedROISimple(ctx context.Context, req *mcp.CallToolRequest, in views.SimpleROIInputs) (*mcp.CallToolResult, any, error) {
	switch {
	case in.CampaignCost <= 0:
		return nil, nil, views.ErrMissingCost
	case in.Revenue <= 0:
		return nil, nil, views.ErrEnterRevenue
	}
	return s.call(ctx, "advanced_roi_simple", func(ctx context.Context) (any, error) {
		res, err := s.api.CalculateAdvancedROISimple(ctx, in.Request())
		if err != nil {
			return nil, err
		}
		return advancedOutput(res), nil
	})
}

// CampaignMatchedROI returns the illustrative result without calling the
// API while the campaign-matched flag is off.
func (s *ToolServer) CampaignMatchedROI(ctx context.Context, req *mcp.CallToolRequest, in CampaignMatchedROIInput) (*mcp.CallToolResult, any, error) {
	if !s.features.CampaignMatchedROI {
		out := advancedOutput(views.SampleCampaignMatchedResult())
		out.Preview = true
		out.Notice = views.ErrCampaignMatchedOff.Message
		return jsonResult(out)
	}
	switch {
	case in.CampaignID <= 0:
		return nil, nil, views.ErrSelectCampaign
	case in.CampaignCost <= 0:
		return nil, nil, views.ErrMissingCost
	case in.SalesCSV == "":
		return nil, nil, views.ErrMissingSalesFile
	}
	filename := in.Filename
	if filename == "" {
		filename = "sales.csv"
	}
	return s.call(ctx, "campaign_matched_roi", func(ctx context.Context) (any, error) {
		res, err := s.api.CalculateCampaignMatchedROI(ctx, models.CampaignMatchedROIRequest{
			CampaignID:   in.CampaignID,
			CampaignCost: in.CampaignCost,
			SalesFile:    models.Upload{Filename: filename, Data: []byte(in.SalesCSV)},
		})
		if err != nil {
			return nil, err
		}
		return advancedOutput(res), nil
	})
}

func advancedOutput(res *models.AdvancedROIResponse) ROIOutput {
	return ROIOutput{
		Result:      res,
		Performance: display.ROIPerformanceIndicator(res.ROIPercentage),
		Accuracy:    display.DataSourceDisplay(res.DataSource),
	}
}

func (s *ToolServer) CheckHealth(ctx context.Context, req *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "check_health", func(ctx context.Context) (any, error) {
		return s.api.HealthCheck(ctx)
	})
}

func object(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

// Register adds every analytics tool to server.
func (s *ToolServer) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_clients",
		Description: "List every client with its industry and campaign count",
		InputSchema: object(map[string]interface{}{}),
	}, s.ListClients)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_campaigns",
		Description: "List a client's campaigns with their performance metrics",
		InputSchema: object(map[string]interface{}{
			"client_id": prop("integer", "Client ID"),
		}, "client_id"),
	}, s.ListCampaigns)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "similar_campaigns",
		Description: "List campaigns whose flight length is close to the given campaign's",
		InputSchema: object(map[string]interface{}{
			"campaign_id": prop("integer", "Campaign ID"),
			"tolerance":   prop("number", "Duration window in days (optional, defaults to 2)"),
		}, "campaign_id"),
	}, s.SimilarCampaigns)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_campaigns",
		Description: "Compare two campaigns: structural comparability, KPI deltas and insights",
		InputSchema: object(map[string]interface{}{
			"campaign_ids": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "integer"},
				"minItems":    2,
				"maxItems":    2,
				"description": "Primary campaign first, then the campaign to compare against",
			},
		}, "campaign_ids"),
	}, s.CompareCampaigns)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "benchmark_campaign",
		Description: "Benchmark a campaign's metrics against its industry peer group",
		InputSchema: object(map[string]interface{}{
			"campaign_id": prop("integer", "Campaign ID"),
			"industry":    prop("string", "Peer group industry (optional)"),
			"job_type":    prop("string", "Peer group job type (optional)"),
			"timeframe":   prop("string", "Peer group timeframe (optional)"),
		}, "campaign_id"),
	}, s.BenchmarkCampaign)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "calculate_roi",
		Description: "Calculate ROI from a cost plus revenue or pasted sales text",
		InputSchema: object(map[string]interface{}{
			"campaign_cost":    prop("number", "Campaign cost"),
			"revenue":          prop("number", "Total revenue (ignored when sales_text is given)"),
			"additional_costs": prop("number", "Additional costs (optional)"),
			"sales_text":       prop("string", "Sales data as free text for the backend to parse (optional)"),
			"campaign_id":      prop("integer", "Campaign to attribute the calculation to (optional)"),
		}),
	}, s.CalculateROI)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "advanced_roi_simple",
		Description: "Calculate ROI including cost of goods sold",
		InputSchema: object(map[string]interface{}{
			"campaign_cost":    prop("number", "Campaign cost"),
			"revenue":          prop("number", "Total revenue"),
			"cost_of_goods":    prop("number", "Cost of goods sold (optional)"),
			"additional_costs": prop("number", "Additional costs (optional)"),
		}, "campaign_cost", "revenue"),
	}, s.AdvancedROISimple)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "campaign_matched_roi",
		Description: "Calculate ROI on sales matched against a campaign's mailing list",
		InputSchema: object(map[string]interface{}{
			"campaign_id":   prop("integer", "Campaign ID"),
			"campaign_cost": prop("number", "Campaign cost"),
			"sales_csv":     prop("string", "Customer sales CSV content"),
			"filename":      prop("string", "Name to upload the CSV as (optional)"),
		}),
	}, s.CampaignMatchedROI)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_health",
		Description: "Check that the analytics API is reachable",
		InputSchema: object(map[string]interface{}{}),
	}, s.CheckHealth)
}

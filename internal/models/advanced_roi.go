package models

// Calculation types reported by the advanced ROI endpoints.
const (
	CalculationSimple          = "simple"
	CalculationCampaignMatched = "campaign_matched"
)

// AdvancedROISimpleRequest is the body of POST /advanced-roi/simple.
type AdvancedROISimpleRequest struct {
	CampaignCost    float64 `json:"campaign_cost"`
	Revenue         float64 `json:"revenue"`
	CostOfGoods     float64 `json:"cost_of_goods"`
	AdditionalCosts float64 `json:"additional_costs"`
	CalculationType string  `json:"calculation_type"`
}

// CampaignMatchedROIRequest is the multipart form of
// POST /advanced-roi/campaign-matched.
type CampaignMatchedROIRequest struct {
	CampaignID   int
	CampaignCost float64
	SalesFile    Upload
}

// CustomerMatch records how one customer from the sales file was matched
// against the campaign's mailing list.
type CustomerMatch struct {
	CustomerName    string   `json:"customer_name"`
	CustomerAddress string   `json:"customer_address"`
	MatchedAddress  *string  `json:"matched_address"`
	ConfidenceScore float64  `json:"confidence_score"`
	MatchMethod     string   `json:"match_method"` // exact, fuzzy, ai, none
	Revenue         *float64 `json:"revenue"`
}

// CampaignMatchedResults summarizes the customer-to-mailing-list match.
type CampaignMatchedResults struct {
	MatchedCustomers    int             `json:"matched_customers"`
	UnmatchedCustomers  int             `json:"unmatched_customers"`
	MatchRatePercentage float64         `json:"match_rate_percentage"`
	MatchedRevenue      float64         `json:"matched_revenue"`
	CustomerMatches     []CustomerMatch `json:"customer_matches"`
}

// AdvancedROIResponse extends the ROI result with cost-of-goods and, for
// campaign-matched calculations, the match statistics.
type AdvancedROIResponse struct {
	ROIPercentage   float64                 `json:"roi_percentage"`
	ProfitAmount    float64                 `json:"profit_amount"`
	GrossProfit     *float64                `json:"gross_profit,omitempty"`
	TotalCost       float64                 `json:"total_cost"`
	TotalRevenue    float64                 `json:"total_revenue"`
	Explanation     string                  `json:"explanation"`
	DataSource      DataSource              `json:"data_source"`
	CalculationType string                  `json:"calculation_type"`
	MatchedResults  *CampaignMatchedResults `json:"campaign_matched_results,omitempty"`
}

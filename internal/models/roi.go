package models

// DataSource tags where the figures behind an ROI result came from.
type DataSource string

const (
	DataSourceManualInput      DataSource = "manual_input"
	DataSourceCSVParsed        DataSource = "csv_parsed"
	DataSourceInsufficientData DataSource = "insufficient_data"
)

// Data formats accepted in ROIRequest.DataFormat.
const (
	DataFormatText = "text"
	DataFormatCSV  = "csv"
)

// ROIRequest is the body of POST /calculate-roi. It carries manual figures,
// pasted free text for backend parsing, or both. Nil fields are omitted.
type ROIRequest struct {
	CampaignCost    *float64 `json:"campaign_cost,omitempty"`
	Revenue         *float64 `json:"revenue,omitempty"`
	AdditionalCosts *float64 `json:"additional_costs,omitempty"`
	UploadedData    *string  `json:"uploaded_data,omitempty"`
	DataFormat      *string  `json:"data_format,omitempty"`
	CampaignID      *int     `json:"campaign_id,omitempty"`
}

// ROIFileRequest is the multipart form of POST /calculate-roi-file.
type ROIFileRequest struct {
	File            Upload
	CampaignCost    *float64
	CampaignID      *int
	AdditionalCosts *float64
}

// ROIResponse is returned by both ROI endpoints.
type ROIResponse struct {
	ROIPercentage   float64        `json:"roi_percentage"`
	ProfitAmount    float64        `json:"profit_amount"`
	TotalCost       float64        `json:"total_cost"`
	TotalRevenue    float64        `json:"total_revenue"`
	Explanation     string         `json:"explanation"`
	DataSource      DataSource     `json:"data_source"`
	CampaignContext map[string]any `json:"campaign_context,omitempty"`
	ParsedSummary   *string        `json:"parsed_data_summary,omitempty"`
}

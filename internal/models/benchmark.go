package models

// BenchmarkRequest is the body of POST /industry-benchmark. The optional
// filters narrow the peer group the campaign is measured against.
type BenchmarkRequest struct {
	CampaignID int     `json:"campaign_id"`
	Industry   *string `json:"industry,omitempty"`
	JobType    *string `json:"job_type,omitempty"`
	Timeframe  *string `json:"timeframe,omitempty"`
}

// BenchmarkMetric compares one campaign metric with its peer group.
type BenchmarkMetric struct {
	CampaignValue   *float64 `json:"campaign_value"`
	IndustryAverage *float64 `json:"industry_average"`
	IndustryMedian  *float64 `json:"industry_median"`
	Percentile      *float64 `json:"percentile"`
	Performance     string   `json:"performance"` // above_average, average, below_average
}

// BenchmarkResponse is the result of an industry benchmark.
type BenchmarkResponse struct {
	Campaign    CampaignSummary            `json:"campaign"`
	Industry    string                     `json:"industry"`
	JobType     *string                    `json:"job_type"`
	Timeframe   *string                    `json:"timeframe"`
	PeerCount   int                        `json:"peer_count"`
	Metrics     map[string]BenchmarkMetric `json:"metrics"`
	Insights    []Insight                  `json:"insights"`
	Summary     string                     `json:"summary"`
	GeneratedAt string                     `json:"generated_at,omitempty"`
}

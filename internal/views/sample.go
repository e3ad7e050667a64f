package views

import "github.com/patrickwarner/campaigninsight/internal/models"

// SampleCampaignMatchedResult returns the illustrative result shown while
// campaign-matched ROI is switched off. Each call returns a fresh copy.
func SampleCampaignMatchedResult() *models.AdvancedROIResponse {
	addr := func(s string) *string { return &s }
	rev := func(v float64) *float64 { return &v }
	gross := 18250.0

	return &models.AdvancedROIResponse{
		ROIPercentage:   143.33,
		ProfitAmount:    10750,
		GrossProfit:     &gross,
		TotalCost:       7500,
		TotalRevenue:    26450,
		Explanation:     "Illustrative example: 4 of 5 customers in the sales file matched the campaign mailing list.",
		DataSource:      models.DataSourceCSVParsed,
		CalculationType: models.CalculationCampaignMatched,
		MatchedResults: &models.CampaignMatchedResults{
			MatchedCustomers:    4,
			UnmatchedCustomers:  1,
			MatchRatePercentage: 80,
			MatchedRevenue:      26450,
			CustomerMatches: []models.CustomerMatch{
				{CustomerName: "Maria Alvarez", CustomerAddress: "1184 Oak Ridge Dr", MatchedAddress: addr("1184 Oak Ridge Drive"), ConfidenceScore: 0.97, MatchMethod: "fuzzy", Revenue: rev(8200)},
				{CustomerName: "Daniel Brooks", CustomerAddress: "52 Harbor Ln", MatchedAddress: addr("52 Harbor Ln"), ConfidenceScore: 1, MatchMethod: "exact", Revenue: rev(6750)},
				{CustomerName: "Priya Natarajan", CustomerAddress: "907 W Maple St Apt 3", MatchedAddress: addr("907 West Maple Street #3"), ConfidenceScore: 0.88, MatchMethod: "ai", Revenue: rev(5900)},
				{CustomerName: "Tom Kowalski", CustomerAddress: "310 Pine Ct", MatchedAddress: addr("310 Pine Ct"), ConfidenceScore: 1, MatchMethod: "exact", Revenue: rev(5600)},
				{CustomerName: "Lena Fischer", CustomerAddress: "77 Summit Ave", ConfidenceScore: 0, MatchMethod: "none", Revenue: rev(3100)},
			},
		},
	}
}

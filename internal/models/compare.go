package models

// ComparabilityLevel grades how safely two campaigns can be compared.
type ComparabilityLevel string

const (
	ComparabilityHigh           ComparabilityLevel = "High"
	ComparabilityModerate       ComparabilityLevel = "Moderate"
	ComparabilityLow            ComparabilityLevel = "Low"
	ComparabilityNotRecommended ComparabilityLevel = "Not Recommended"
)

// Structural factors reported by the compare endpoint.
const (
	FactorDuration     = "duration"
	FactorMailingCount = "mailing_count"
	FactorPiecesMailed = "pieces_mailed"
	FactorJobType      = "job_type"
)

// KPIMetricData is the before/after delta for one named KPI.
// Change is Current-Previous and ChangePercent is Change/Previous*100, so
// ChangePercent is meaningless when Previous is zero. IsPositive is decided
// by the backend per KPI and is not derived from the sign of Change.
type KPIMetricData struct {
	Previous      float64 `json:"previous"`
	Current       float64 `json:"current"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	IsPositive    bool    `json:"is_positive"`
}

// StructuralDifference describes one structural factor that differs between
// the compared campaigns.
type StructuralDifference struct {
	Factor               string `json:"factor"`
	Campaign1Value       any    `json:"campaign_1_value"`
	Campaign2Value       any    `json:"campaign_2_value"`
	DifferenceDesc       string `json:"difference_description"`
	BusinessImpact       string `json:"business_impact"`
	Recommendation       string `json:"recommendation"`
	ComparabilityConcern bool   `json:"comparability_concern"`
}

// StructuralAnalysis aggregates the structural differences and an overall
// comparability grade.
type StructuralAnalysis struct {
	Differences            []StructuralDifference `json:"differences"`
	OverallComparability   ComparabilityLevel     `json:"overall_comparability"`
	InterpretationGuidance string                 `json:"interpretation_guidance"`
	HasConcerns            bool                   `json:"has_structural_concerns"`
}

// Concerns returns the differences flagged as comparability concerns.
func (s StructuralAnalysis) Concerns() []StructuralDifference {
	var out []StructuralDifference
	for _, d := range s.Differences {
		if d.ComparabilityConcern {
			out = append(out, d)
		}
	}
	return out
}

// Insight is one typed observation produced by a comparison or benchmark.
type Insight struct {
	Type        string `json:"type"` // positive, negative, neutral, warning
	Title       string `json:"title"`
	Description string `json:"description"`
	Metric      string `json:"metric,omitempty"`
}

// CompareRequest is the body of POST /compare.
type CompareRequest struct {
	CampaignIDs []int `json:"campaign_ids"`
}

// CompareResponse bundles two campaign snapshots with their structural
// analysis and KPI deltas.
type CompareResponse struct {
	Campaign1          CampaignSummary          `json:"campaign_1"`
	Campaign2          CampaignSummary          `json:"campaign_2"`
	StructuralAnalysis StructuralAnalysis       `json:"structural_analysis"`
	KPIComparison      map[string]KPIMetricData `json:"kpi_comparison"`
	Insights           []Insight                `json:"insights"`
	Summary            string                   `json:"summary"`
	Recommendation     string                   `json:"recommendation"`
}

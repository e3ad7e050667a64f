package display

import "github.com/patrickwarner/campaigninsight/internal/models"

// Severity drives how loudly the structural-analysis banner is rendered.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityNotice  Severity = "notice"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// ComparabilitySeverity maps the overall comparability grade to a banner
// severity. Unrecognized grades are treated as the most severe.
func ComparabilitySeverity(level models.ComparabilityLevel) Severity {
	switch level {
	case models.ComparabilityHigh:
		return SeverityInfo
	case models.ComparabilityModerate:
		return SeverityNotice
	case models.ComparabilityLow:
		return SeverityWarning
	default:
		return SeverityDanger
	}
}

// Banner is the rendered structural-analysis warning.
type Banner struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Guidance string   `json:"guidance"`
	Concerns []string `json:"concerns,omitempty"`
}

// StructuralBanner summarizes a structural analysis for display.
func StructuralBanner(a models.StructuralAnalysis) Banner {
	b := Banner{
		Severity: ComparabilitySeverity(a.OverallComparability),
		Title:    "Comparability: " + string(a.OverallComparability),
		Guidance: a.InterpretationGuidance,
	}
	if a.OverallComparability == "" {
		b.Title = "Comparability: Unknown"
	}
	for _, d := range a.Concerns() {
		line := d.Factor
		if d.BusinessImpact != "" {
			line += ": " + d.BusinessImpact
		}
		b.Concerns = append(b.Concerns, line)
	}
	return b
}

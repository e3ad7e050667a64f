package display

import (
	"math"
	"testing"

	"github.com/patrickwarner/campaigninsight/internal/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCampaignName(t *testing.T) {
	assert.Equal(t, "Campaign 7", CampaignName(models.CampaignSummary{CampaignID: 7}))
	assert.Equal(t, "Campaign 7", CampaignName(models.CampaignSummary{CampaignID: 7, Name: strPtr("")}))
	assert.Equal(t, "Spring Roofing", CampaignName(models.CampaignSummary{CampaignID: 7, Name: strPtr("Spring Roofing")}))
	assert.Equal(t, "  spaced  ", CampaignName(models.CampaignSummary{CampaignID: 7, Name: strPtr("  spaced  ")}))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		days *int
		want string
	}{
		{nil, "Unknown duration"},
		{intPtr(0), "Unknown duration"},
		{intPtr(1), "1 day"},
		{intPtr(2), "2 days"},
		{intPtr(45), "45 days"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.days))
	}
}

func TestROIPerformanceIndicator_Boundaries(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{1000, ROIExcellent},
		{300, ROIExcellent},
		{299.99, ROIGood},
		{100, ROIGood},
		{99.99, ROIPositive},
		{0, ROIPositive},
		{-0.01, ROILoss},
		{-100, ROILoss},
		{math.NaN(), NotAvailable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ROIPerformanceIndicator(tt.pct), "pct=%v", tt.pct)
	}
}

func TestDataSourceDisplay(t *testing.T) {
	assert.Equal(t, "High Accuracy", DataSourceDisplay(models.DataSourceManualInput))
	assert.Equal(t, "Medium-High Accuracy", DataSourceDisplay(models.DataSourceCSVParsed))
	assert.Equal(t, "N/A", DataSourceDisplay(models.DataSourceInsufficientData))
	assert.Equal(t, "Unknown", DataSourceDisplay("ai_guess"))
	assert.Equal(t, "Unknown", DataSourceDisplay(""))
}

func TestKPIChange(t *testing.T) {
	assert.Equal(t, "+50.0%", KPIChange(models.KPIMetricData{Previous: 2, Current: 3, Change: 1, ChangePercent: 50, IsPositive: true}))
	assert.Equal(t, "-25.0%", KPIChange(models.KPIMetricData{Previous: 4, Current: 3, Change: -1, ChangePercent: -25}))
	// prefix follows IsPositive, not the sign
	assert.Equal(t, "+-12.5%", KPIChange(models.KPIMetricData{Previous: 8, Current: 7, Change: -1, ChangePercent: -12.5, IsPositive: true}))
	assert.Equal(t, "12.3%", KPIChange(models.KPIMetricData{Previous: 1, ChangePercent: 12.345}))
	assert.Equal(t, NotAvailable, KPIChange(models.KPIMetricData{Previous: 0, Current: 5, Change: 5, IsPositive: true}))
}

func TestRatio(t *testing.T) {
	assert.Nil(t, Ratio(10, 0))
	r := Ratio(30000, 5000)
	if assert.NotNil(t, r) {
		assert.Equal(t, 6.0, *r)
	}
	assert.Equal(t, NotAvailable, RatioText(1, 0, 2))
	assert.Equal(t, "0.33", RatioText(1, 3, 2))
}

func TestCurrencyAndPercent(t *testing.T) {
	assert.Equal(t, "$0.00", Currency(0))
	assert.Equal(t, "$999.50", Currency(999.5))
	assert.Equal(t, "$1,234,567.89", Currency(1234567.891))
	assert.Equal(t, "-$5,000.00", Currency(-5000))
	assert.Equal(t, NotAvailable, Currency(math.Inf(1)))
	assert.Equal(t, "12.3%", Percent(12.34))
	assert.Equal(t, NotAvailable, Percent(math.NaN()))
	assert.Equal(t, "1,000", OptionalInt(intPtr(1000)))
	assert.Equal(t, NotAvailable, OptionalInt(nil))
	assert.Equal(t, NotAvailable, OptionalFloat(nil, 2))
}

func TestStructuralBanner(t *testing.T) {
	a := models.StructuralAnalysis{
		OverallComparability:   models.ComparabilityNotRecommended,
		InterpretationGuidance: "compare with care",
		Differences: []models.StructuralDifference{
			{Factor: models.FactorDuration, BusinessImpact: "3x longer flight", ComparabilityConcern: true},
			{Factor: models.FactorJobType},
		},
	}
	b := StructuralBanner(a)
	assert.Equal(t, SeverityDanger, b.Severity)
	assert.Equal(t, "Comparability: Not Recommended", b.Title)
	assert.Equal(t, []string{"duration: 3x longer flight"}, b.Concerns)

	assert.Equal(t, SeverityInfo, ComparabilitySeverity(models.ComparabilityHigh))
	assert.Equal(t, SeverityNotice, ComparabilitySeverity(models.ComparabilityModerate))
	assert.Equal(t, SeverityWarning, ComparabilitySeverity(models.ComparabilityLow))
	assert.Equal(t, "Comparability: Unknown", StructuralBanner(models.StructuralAnalysis{}).Title)
}

// Package display turns raw analytics API fields into the labels shown on
// the dashboard. Everything here is pure and total.
package display

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/patrickwarner/campaigninsight/internal/models"
)

// NotAvailable is rendered wherever a value cannot be computed.
const NotAvailable = "N/A"

// ROI performance tiers.
const (
	ROIExcellent = "Excellent ROI"
	ROIGood      = "Good ROI"
	ROIPositive  = "Positive ROI"
	ROILoss      = "Loss"
)

// Data source accuracy labels.
const (
	AccuracyHigh       = "High Accuracy"
	AccuracyMediumHigh = "Medium-High Accuracy"
	AccuracyUnknown    = "Unknown"
)

// CampaignName returns the campaign's name, or "Campaign {id}" when the
// backend has none.
func CampaignName(c models.CampaignSummary) string {
	if c.Name != nil && *c.Name != "" {
		return *c.Name
	}
	return fmt.Sprintf("Campaign %d", c.CampaignID)
}

// Duration renders a campaign flight length. Zero is treated like a missing
// value because the backend reports 0 when the mail dates are unknown.
func Duration(days *int) string {
	if days == nil || *days == 0 {
		return "Unknown duration"
	}
	if *days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", *days)
}

// ROIPerformanceIndicator buckets an ROI percentage. Each tier includes its
// lower bound: 300 is Excellent, 100 is Good, 0 is Positive.
func ROIPerformanceIndicator(pct float64) string {
	switch {
	case math.IsNaN(pct):
		return NotAvailable
	case pct >= 300:
		return ROIExcellent
	case pct >= 100:
		return ROIGood
	case pct >= 0:
		return ROIPositive
	default:
		return ROILoss
	}
}

// DataSourceDisplay maps a data source tag to its accuracy label.
func DataSourceDisplay(source models.DataSource) string {
	switch source {
	case models.DataSourceManualInput:
		return AccuracyHigh
	case models.DataSourceCSVParsed:
		return AccuracyMediumHigh
	case models.DataSourceInsufficientData:
		return NotAvailable
	default:
		return AccuracyUnknown
	}
}

// KPIChange renders a KPI delta as a percentage with one decimal. The "+"
// prefix follows the backend's IsPositive verdict, not the numeric sign, so
// a favourable drop in cost renders as "+-12.0%". A zero baseline has no
// defined percentage and renders as N/A.
func KPIChange(kpi models.KPIMetricData) string {
	if kpi.Previous == 0 || math.IsNaN(kpi.ChangePercent) || math.IsInf(kpi.ChangePercent, 0) {
		return NotAvailable
	}
	prefix := ""
	if kpi.IsPositive {
		prefix = "+"
	}
	return prefix + strconv.FormatFloat(kpi.ChangePercent, 'f', 1, 64) + "%"
}

// Ratio divides n by d, returning nil when the result is undefined.
func Ratio(n, d float64) *float64 {
	if d == 0 || math.IsNaN(n) || math.IsNaN(d) {
		return nil
	}
	r := n / d
	return &r
}

// RatioText renders n/d with the given number of decimals, or N/A.
func RatioText(n, d float64, decimals int) string {
	r := Ratio(n, d)
	if r == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*r, 'f', decimals, 64)
}

// Currency renders a dollar amount with thousands separators and cents.
func Currency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", v)
}

// Percent renders v with one decimal and a % sign.
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// OptionalFloat renders a nullable metric with the given number of decimals.
func OptionalFloat(v *float64, decimals int) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

// OptionalInt renders a nullable count with thousands separators.
func OptionalInt(v *int) string {
	if v == nil {
		return NotAvailable
	}
	return humanize.Comma(int64(*v))
}

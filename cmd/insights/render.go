package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/patrickwarner/campaigninsight/internal/display"
	"github.com/patrickwarner/campaigninsight/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Faint(true)

	severityStyles = map[display.Severity]lipgloss.Style{
		display.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		display.SeverityNotice:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		display.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		display.SeverityDanger:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// emit prints v as indented JSON when --json is set, otherwise runs text.
func (a *app) emit(v any, text func()) error {
	if a.asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text()
	return nil
}

func (a *app) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(a.out, t.Render())
}

func (a *app) title(s string) {
	fmt.Fprintln(a.out, titleStyle.Render(s))
}

// fields prints aligned "label  value" lines.
func (a *app) fields(pairs ...[2]string) {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p[0]))
	}
	for _, p := range pairs {
		fmt.Fprintf(a.out, "%s  %s\n", labelStyle.Render(fmt.Sprintf("%-*s", width, p[0])), p[1])
	}
}

func (a *app) campaignTable(campaigns []models.CampaignSummary) {
	rows := make([][]string, 0, len(campaigns))
	for _, c := range campaigns {
		rows = append(rows, []string{
			strconv.Itoa(c.CampaignID),
			display.CampaignName(c),
			display.Duration(c.DurationDays),
			display.OptionalInt(c.TotalPcsMailed),
			display.OptionalFloat(c.CombinedSocialCTR, 2),
			display.OptionalFloat(c.LeadsPer1000, 2),
			display.OptionalInt(c.TotalLeads),
		})
	}
	a.table([]string{"ID", "Name", "Duration", "Mailed", "Social CTR %", "Leads/1000", "Leads"}, rows)
}

func (a *app) banner(b display.Banner) {
	style, ok := severityStyles[b.Severity]
	if !ok {
		style = severityStyles[display.SeverityDanger]
	}
	fmt.Fprintln(a.out, style.Render(b.Title))
	if b.Guidance != "" {
		fmt.Fprintln(a.out, b.Guidance)
	}
	for _, c := range b.Concerns {
		fmt.Fprintln(a.out, style.Render("  ! ")+c)
	}
}

func (a *app) insights(list []models.Insight) {
	if len(list) == 0 {
		return
	}
	a.title("Insights")
	for _, in := range list {
		fmt.Fprintf(a.out, "  [%s] %s: %s\n", in.Type, in.Title, in.Description)
	}
}

func (a *app) roiResult(r *models.ROIResponse) {
	a.fields(
		[2]string{"ROI", display.Percent(r.ROIPercentage) + " (" + display.ROIPerformanceIndicator(r.ROIPercentage) + ")"},
		[2]string{"Profit", display.Currency(r.ProfitAmount)},
		[2]string{"Total cost", display.Currency(r.TotalCost)},
		[2]string{"Total revenue", display.Currency(r.TotalRevenue)},
		[2]string{"Data", display.DataSourceDisplay(r.DataSource)},
	)
	if r.ParsedSummary != nil && *r.ParsedSummary != "" {
		fmt.Fprintln(a.out, *r.ParsedSummary)
	}
	if r.Explanation != "" {
		fmt.Fprintln(a.out, r.Explanation)
	}
}

func (a *app) advancedResult(r *models.AdvancedROIResponse) {
	pairs := [][2]string{
		{"ROI", display.Percent(r.ROIPercentage) + " (" + display.ROIPerformanceIndicator(r.ROIPercentage) + ")"},
		{"Profit", display.Currency(r.ProfitAmount)},
	}
	if r.GrossProfit != nil {
		pairs = append(pairs, [2]string{"Gross profit", display.Currency(*r.GrossProfit)})
	}
	pairs = append(pairs,
		[2]string{"Total cost", display.Currency(r.TotalCost)},
		[2]string{"Total revenue", display.Currency(r.TotalRevenue)},
		[2]string{"Data", display.DataSourceDisplay(r.DataSource)},
	)
	a.fields(pairs...)

	if m := r.MatchedResults; m != nil {
		a.title("Customer matching")
		a.fields(
			[2]string{"Matched", strconv.Itoa(m.MatchedCustomers)},
			[2]string{"Unmatched", strconv.Itoa(m.UnmatchedCustomers)},
			[2]string{"Match rate", display.Percent(m.MatchRatePercentage)},
			[2]string{"Matched revenue", display.Currency(m.MatchedRevenue)},
		)
		rows := make([][]string, 0, len(m.CustomerMatches))
		for _, c := range m.CustomerMatches {
			matched := display.NotAvailable
			if c.MatchedAddress != nil {
				matched = *c.MatchedAddress
			}
			revenue := display.NotAvailable
			if c.Revenue != nil {
				revenue = display.Currency(*c.Revenue)
			}
			rows = append(rows, []string{
				c.CustomerName, c.CustomerAddress, matched, c.MatchMethod,
				strconv.FormatFloat(c.ConfidenceScore*100, 'f', 0, 64) + "%", revenue,
			})
		}
		a.table([]string{"Customer", "Address", "Matched address", "Method", "Confidence", "Revenue"}, rows)
	}
	if r.Explanation != "" {
		fmt.Fprintln(a.out, r.Explanation)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/patrickwarner/campaigninsight/internal/analyticsapi"
	"github.com/patrickwarner/campaigninsight/internal/display"
	"github.com/patrickwarner/campaigninsight/internal/models"
	"github.com/patrickwarner/campaigninsight/internal/views"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func intArg(args []string, i int, name string) (int, error) {
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[i])
	}
	return n, nil
}

func readUpload(path string) (*models.Upload, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &models.Upload{Filename: filepath.Base(path), Data: data}, nil
}

func (a *app) clientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := a.client.GetClients(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(clients, func() {
				rows := make([][]string, 0, len(clients))
				for _, c := range clients {
					rows = append(rows, []string{
						strconv.Itoa(c.ClientID), c.ClientName, c.Industry, strconv.Itoa(c.CampaignCount),
					})
				}
				a.table([]string{"ID", "Client", "Industry", "Campaigns"}, rows)
			})
		},
	}
}

func (a *app) campaignsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "campaigns CLIENT_ID",
		Short: "List a client's campaigns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID, err := intArg(args, 0, "client id")
			if err != nil {
				return err
			}
			campaigns, err := a.client.GetCampaignsByClient(cmd.Context(), clientID)
			if err != nil {
				return err
			}
			return a.emit(campaigns, func() { a.campaignTable(campaigns) })
		},
	}
}

func (a *app) similarCmd() *cobra.Command {
	var tolerance float64
	cmd := &cobra.Command{
		Use:   "similar CAMPAIGN_ID",
		Short: "List campaigns with a similar flight length",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			campaignID, err := intArg(args, 0, "campaign id")
			if err != nil {
				return err
			}
			campaigns, err := a.client.GetSimilarCampaigns(cmd.Context(), campaignID, tolerance)
			if err != nil {
				return err
			}
			return a.emit(campaigns, func() {
				if len(campaigns) == 0 {
					fmt.Fprintln(a.out, "No campaigns with a similar duration.")
					return
				}
				a.campaignTable(campaigns)
			})
		},
	}
	cmd.Flags().Float64Var(&tolerance, "tolerance", analyticsapi.DefaultDurationTolerance, "duration window in days")
	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare CAMPAIGN_ID CAMPAIGN_ID",
		Short: "Compare two campaigns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := intArg(args, 0, "campaign id")
			if err != nil {
				return err
			}
			second, err := intArg(args, 1, "campaign id")
			if err != nil {
				return err
			}
			res, err := a.client.CompareCampaigns(cmd.Context(), []int{first, second})
			if err != nil {
				return err
			}
			return a.emit(res, func() { a.comparison(res) })
		},
	}
}

func (a *app) comparison(res *models.CompareResponse) {
	a.banner(display.StructuralBanner(res.StructuralAnalysis))
	fmt.Fprintln(a.out)
	a.campaignTable([]models.CampaignSummary{res.Campaign1, res.Campaign2})

	rows := make([][]string, 0, len(res.KPIComparison))
	for _, name := range sortedKeys(res.KPIComparison) {
		kpi := res.KPIComparison[name]
		rows = append(rows, []string{
			name,
			strconv.FormatFloat(kpi.Previous, 'f', 2, 64),
			strconv.FormatFloat(kpi.Current, 'f', 2, 64),
			display.KPIChange(kpi),
		})
	}
	if len(rows) > 0 {
		a.table([]string{"KPI", "Previous", "Current", "Change"}, rows)
	}
	a.insights(res.Insights)
	if res.Summary != "" {
		fmt.Fprintln(a.out, res.Summary)
	}
	if res.Recommendation != "" {
		a.fields([2]string{"Recommendation", res.Recommendation})
	}
}

func (a *app) benchmarkCmd() *cobra.Command {
	var industry, jobType, timeframe string
	cmd := &cobra.Command{
		Use:   "benchmark CAMPAIGN_ID",
		Short: "Benchmark a campaign against its industry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			campaignID, err := intArg(args, 0, "campaign id")
			if err != nil {
				return err
			}
			req := views.BenchmarkFilters{Industry: industry, JobType: jobType, Timeframe: timeframe}.Request(campaignID)
			res, err := a.client.BenchmarkCampaign(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(res, func() { a.benchmark(res) })
		},
	}
	cmd.Flags().StringVar(&industry, "industry", "", "peer group industry")
	cmd.Flags().StringVar(&jobType, "job-type", "", "peer group job type")
	cmd.Flags().StringVar(&timeframe, "timeframe", "", "peer group timeframe")
	return cmd
}

func (a *app) benchmark(res *models.BenchmarkResponse) {
	a.title(display.CampaignName(res.Campaign) + " vs " + res.Industry)
	a.fields([2]string{"Peers", strconv.Itoa(res.PeerCount)})

	rows := make([][]string, 0, len(res.Metrics))
	for _, name := range sortedKeys(res.Metrics) {
		m := res.Metrics[name]
		rows = append(rows, []string{
			name,
			display.OptionalFloat(m.CampaignValue, 2),
			display.OptionalFloat(m.IndustryAverage, 2),
			display.OptionalFloat(m.IndustryMedian, 2),
			display.OptionalFloat(m.Percentile, 0),
			m.Performance,
		})
	}
	if len(rows) > 0 {
		a.table([]string{"Metric", "Campaign", "Average", "Median", "Percentile", "Performance"}, rows)
	}
	a.insights(res.Insights)
	if res.Summary != "" {
		fmt.Fprintln(a.out, res.Summary)
	}
}

func (a *app) roiCmd() *cobra.Command {
	var (
		in             views.ROIInputs
		campaignID     int
		textFile, file string
	)
	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Calculate campaign ROI",
		Long: `roi picks its input the same way the dashboard does: an uploaded file
first, then pasted sales text (with or without a cost), then manual cost
and revenue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if campaignID > 0 {
				in.CampaignID = &campaignID
			}
			if textFile != "" {
				data, err := os.ReadFile(textFile)
				if err != nil {
					return fmt.Errorf("read %s: %w", textFile, err)
				}
				in.PastedText = string(data)
			}
			upload, err := readUpload(file)
			if err != nil {
				return err
			}
			in.File = upload

			plan, err := views.PlanROI(in)
			if err != nil {
				return err
			}
			a.logger.Debug("calculating roi", zap.String("method", string(plan.Method)))

			var res *models.ROIResponse
			if plan.FileRequest != nil {
				res, err = a.client.CalculateROIFromFile(cmd.Context(), *plan.FileRequest)
			} else {
				res, err = a.client.CalculateROI(cmd.Context(), *plan.Request)
			}
			if err != nil {
				return err
			}
			return a.emit(res, func() { a.roiResult(res) })
		},
	}
	cmd.Flags().Float64Var(&in.CampaignCost, "cost", 0, "campaign cost")
	cmd.Flags().Float64Var(&in.Revenue, "revenue", 0, "total revenue")
	cmd.Flags().Float64Var(&in.AdditionalCosts, "additional-costs", 0, "additional costs")
	cmd.Flags().IntVar(&campaignID, "campaign-id", 0, "campaign to attribute the calculation to")
	cmd.Flags().StringVar(&in.PastedText, "text", "", "sales data as free text")
	cmd.Flags().StringVar(&textFile, "text-file", "", "read sales text from a file")
	cmd.Flags().StringVar(&file, "file", "", "upload a CSV or spreadsheet")
	cmd.MarkFlagsMutuallyExclusive("text", "text-file", "file")
	return cmd
}

func (a *app) advancedROICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advanced-roi",
		Short: "Advanced ROI with cost of goods or campaign matching",
	}

	var simple views.SimpleROIInputs
	simpleCmd := &cobra.Command{
		Use:   "simple",
		Short: "ROI including cost of goods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if simple.CampaignCost <= 0 {
				return views.ErrMissingCost
			}
			if simple.Revenue <= 0 {
				return views.ErrEnterRevenue
			}
			res, err := a.client.CalculateAdvancedROISimple(cmd.Context(), simple.Request())
			if err != nil {
				return err
			}
			return a.emit(res, func() { a.advancedResult(res) })
		},
	}
	simpleCmd.Flags().Float64Var(&simple.CampaignCost, "cost", 0, "campaign cost")
	simpleCmd.Flags().Float64Var(&simple.Revenue, "revenue", 0, "total revenue")
	simpleCmd.Flags().Float64Var(&simple.CostOfGoods, "cost-of-goods", 0, "cost of goods sold")
	simpleCmd.Flags().Float64Var(&simple.AdditionalCosts, "additional-costs", 0, "additional costs")

	var (
		campaignID int
		cost       float64
		salesFile  string
	)
	matchedCmd := &cobra.Command{
		Use:   "matched",
		Short: "ROI from sales matched against a campaign's mailing list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.features.CampaignMatchedROI {
				res := views.SampleCampaignMatchedResult()
				return a.emit(res, func() {
					fmt.Fprintln(a.out, severityStyles[display.SeverityNotice].Render(views.ErrCampaignMatchedOff.Message))
					a.advancedResult(res)
				})
			}
			if campaignID <= 0 {
				return views.ErrSelectCampaign
			}
			if cost <= 0 {
				return views.ErrMissingCost
			}
			upload, err := readUpload(salesFile)
			if err != nil {
				return err
			}
			if upload.Empty() {
				return views.ErrMissingSalesFile
			}
			res, err := a.client.CalculateCampaignMatchedROI(cmd.Context(), models.CampaignMatchedROIRequest{
				CampaignID:   campaignID,
				CampaignCost: cost,
				SalesFile:    *upload,
			})
			if err != nil {
				return err
			}
			return a.emit(res, func() { a.advancedResult(res) })
		},
	}
	matchedCmd.Flags().IntVar(&campaignID, "campaign-id", 0, "campaign whose mailing list is matched")
	matchedCmd.Flags().Float64Var(&cost, "cost", 0, "campaign cost")
	matchedCmd.Flags().StringVar(&salesFile, "sales-file", "", "customer sales CSV")

	cmd.AddCommand(simpleCmd, matchedCmd)
	return cmd
}

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the analytics API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.client.HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(status, func() {
				a.fields(
					[2]string{"API", a.client.BaseURL()},
					[2]string{"Status", status.Status},
				)
			})
		},
	}
}

// overview is the landing page in one call: the client list and API health,
// fetched concurrently.
type overview struct {
	Health  *models.HealthStatus `json:"health"`
	Clients []models.Client      `json:"clients"`
}

func (a *app) overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show API health and every client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.fetchOverview(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(res, func() {
				a.fields(
					[2]string{"API", a.client.BaseURL()},
					[2]string{"Status", res.Health.Status},
					[2]string{"Clients", strconv.Itoa(len(res.Clients))},
				)
				rows := make([][]string, 0, len(res.Clients))
				total := 0
				for _, c := range res.Clients {
					total += c.CampaignCount
					rows = append(rows, []string{c.ClientName, c.Industry, strconv.Itoa(c.CampaignCount)})
				}
				a.table([]string{"Client", "Industry", "Campaigns"}, rows)
				a.fields([2]string{"Campaigns", strconv.Itoa(total)})
			})
		},
	}
}

func (a *app) fetchOverview(ctx context.Context) (*overview, error) {
	var res overview
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		status, err := a.client.HealthCheck(ctx)
		res.Health = status
		return err
	})
	g.Go(func() error {
		clients, err := a.client.GetClients(ctx)
		res.Clients = clients
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/patrickwarner/campaigninsight/internal/analyticsapi"
	"github.com/patrickwarner/campaigninsight/internal/config"
	"github.com/patrickwarner/campaigninsight/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the global flags and the clients built from them.
type app struct {
	out      io.Writer
	baseURL  string
	timeout  time.Duration
	asJSON   bool
	features config.FeatureFlags

	logger *zap.Logger
	client *analyticsapi.Client
}

func newRootCmd(out io.Writer, cfg config.Config) *cobra.Command {
	a := &app{out: out, features: cfg.Features}

	root := &cobra.Command{
		Use:   "insights",
		Short: "Query the campaign analytics API from the terminal",
		Long: `insights lists clients and campaigns, compares campaigns of similar
duration, benchmarks a campaign against its industry and calculates ROI.

The API root defaults to $API_BASE_URL, or is derived from $API_ORIGIN.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := observability.InitStderrLogger("insights")
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			a.client = analyticsapi.NewClient(a.baseURL, a.timeout, logger, observability.NewNoOpRegistry())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.baseURL, "api", cfg.APIBaseURL, "analytics API root including /api/v1")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "per-request timeout")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print raw JSON instead of tables")

	root.AddCommand(
		a.clientsCmd(),
		a.campaignsCmd(),
		a.similarCmd(),
		a.compareCmd(),
		a.benchmarkCmd(),
		a.roiCmd(),
		a.advancedROICmd(),
		a.healthCmd(),
		a.overviewCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd(os.Stdout, config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

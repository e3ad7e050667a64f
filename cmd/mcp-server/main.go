package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/patrickwarner/campaigninsight/internal/analyticsapi"
	"github.com/patrickwarner/campaigninsight/internal/config"
	"github.com/patrickwarner/campaigninsight/internal/observability"
	"go.uber.org/zap"
)

const serverVersion = "1.0.0"

// newMCPServer builds the MCP server with every analytics tool registered.
func newMCPServer(api Analytics, features config.FeatureFlags, logger *zap.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "campaigninsight",
		Version: serverVersion,
	}, nil)
	tools := &ToolServer{api: api, features: features, logger: logger}
	tools.Register(server)
	return server
}

func main() {
	cfg := config.Load()

	// stdout carries the protocol
	logger, err := observability.InitStderrLogger("campaigninsight-mcp")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := analyticsapi.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger, observability.NewNoOpRegistry())
	server := newMCPServer(client, cfg.Features, logger)

	// Keep the protocol exchange for the error report
	var logBuffer bytes.Buffer
	transport := &mcp.LoggingTransport{
		Transport: &mcp.StdioTransport{},
		Writer:    &logBuffer,
	}

	logger.Info("MCP server running via stdio",
		zap.String("api_base_url", client.BaseURL()),
		zap.Bool("campaign_matched_roi", cfg.Features.CampaignMatchedROI))

	if err := server.Run(ctx, transport); err != nil && ctx.Err() == nil {
		logger.Error("server error", zap.Error(err), zap.String("mcp_logs", logBuffer.String()))
		os.Exit(1)
	}
}

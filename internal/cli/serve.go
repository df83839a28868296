package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talentflow/talentflow/internal/chaos"
	"github.com/talentflow/talentflow/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the TalentFlow HTTP API.

Every API route sits behind a simulated unreliable network: 200-1200ms of
added latency on all requests and a ~10% failure rate on mutations. Disable
it with TALENTFLOW_CHAOS=false or chaos_enabled: false in the config file.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := chaos.New(logger,
		chaos.WithFailureRate(cfg.ChaosFailureRate),
		chaos.WithLatency(cfg.ChaosMinLatency, cfg.ChaosMaxLatency),
	)
	injector.SetEnabled(cfg.ChaosEnabled)

	logger.Info("chaos boundary",
		"enabled", cfg.ChaosEnabled,
		"failure_rate", cfg.ChaosFailureRate,
		"min_latency", cfg.ChaosMinLatency,
		"max_latency", cfg.ChaosMaxLatency)

	srv := server.New(cfg.ListenAddr, dbClient, injector, logger)
	return srv.Run(ctx)
}

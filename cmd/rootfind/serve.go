package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zephyrtronium/rootfind/internal/metrics"
	"github.com/zephyrtronium/rootfind/internal/server"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve root finding, evaluation, differentiation, and sampling over HTTP.

Endpoints:
  POST /api/v1/solve        run a method
  POST /api/v1/evaluate     evaluate a function at a point
  POST /api/v1/derivative   differentiate a function
  POST /api/v1/sample       tabulate a function over an interval
  GET  /api/v1/methods      list methods and their trace columns
  GET  /healthz             health check
  GET  /metrics             Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.addr, "addr", "l", "", "override listen address (default from ROOTFIND_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveFlags.addr != "" {
		cfg.Addr = serveFlags.addr
	}
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.New(cfg, metrics.New(), logger)
	logger.Info("starting server",
		zap.String("addr", cfg.Addr),
		zap.Float64("tolerance", cfg.Tolerance),
		zap.Int("max_iter", cfg.MaxIter),
		zap.Int("workers", cfg.Workers),
	)
	return s.Run(ctx)
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/internal/httpapi"
	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyses as a JSON API",
	Long: `Start a read-only HTTP API over the sales database.

Endpoints:
  GET /api/v1/branches
  GET /api/v1/compare?branches=A,B&start=2024-01&end=2024-12&alpha=0.05
  GET /api/v1/trend, /pareto, /growth, /summary, /report
  GET /healthz
  GET /metrics (Prometheus)

Query parameters override the configured window, branches, dimension, limit
and alpha. Send "Cache-Control: no-cache" to skip the result cache.

Examples:
  salespulse serve --addr :9090`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := contract.NewJSONLogger(os.Stderr)
		srv := httpapi.NewServer(cfg, salesStore, cacheManager, logger)
		return srv.ListenAndServe(ctx, cfg.Addr)
	},
}

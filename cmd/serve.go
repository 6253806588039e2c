package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/storecast/internal/web"
	"github.com/spf13/cobra"
)

// serveCmd runs the web forms until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the prediction forms as a web app.",
	Long: `Start the web server with the time series, recommendation and image classifier pages.

Also exposes /health, /ready and a JSON API under /api/v1.

Examples:
  storecast serve --listen :8080 --forecast-url http://localhost:5000/predict
  STORECAST_LOG_FORMAT=json storecast serve`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		srv, err := web.NewServer(cfg, predictionClient, cacheManager, logger, web.WithVersion(version))
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"lyriq/internal/api/server"
	"lyriq/internal/app"
	"lyriq/internal/app/api/provider"
	"lyriq/internal/app/logging"
)

const shutdownTimeout = 30 * time.Second

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web page",
	Long: `Start the web page

- Refuses to start when OPENAI_API_KEY is missing
- Listens on LYRIQ_HOST:LYRIQ_PORT (default 0.0.0.0:8080)
- Exposes /health and /metrics next to the page`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		rt, err := app.LoadRuntime(configPath)
		if err != nil {
			return err
		}

		logger, err := logging.New(!rt.Settings.Server.IsProduction(), rt.Settings.Log.Level)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return Run(ctx, rt, logger)
	},
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func Run(ctx context.Context, rt *app.Runtime, logger *zap.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := provider.NewMetrics(registry)

	pipeline := app.InitializePipeline(rt.Settings, rt.APIKey, logger, metrics)
	srv, err := server.NewServer(rt.Settings.Server, pipeline, registry, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

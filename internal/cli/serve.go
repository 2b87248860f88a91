package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpadapter "todoweb/internal/adapter/http"
	"todoweb/internal/adapter/telemetry"
	"todoweb/internal/shared"
)

type serveOptions struct {
	envFile string
	port    string
	apiURL  string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	cmd.Flags().StringVar(&opts.port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&opts.apiURL, "api-url", "", "backend base URL (overrides API_URL)")

	return cmd
}

func (o *serveOptions) apply(config *shared.AppConfig) {
	if o.port != "" {
		config.Port = o.port
	}
	if o.apiURL != "" {
		config.APIURL = o.apiURL
	}
}

func runServe(ctx context.Context, opts *serveOptions) error {
	config, err := shared.LoadConfig(opts.envFile, opts.apply)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := shared.NewLogger(config.ServiceName, config.LokiURL)
	if err != nil {
		return err
	}
	defer logger.Sync()

	container, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    config.ServiceName,
		ServiceVersion: config.ServiceVersion,
		Environment:    config.Environment,
		MetricsPort:    config.MetricsPort,
		OTLPEndpoint:   config.OTLPEndpoint,
	}, logger.Zap())
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := container.Shutdown(shutdownCtx); err != nil {
			logger.Zap().Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	container.AppMetrics.StartSystemMetrics(ctx)
	probe := container.NewTelemetryProbe(logger.Logger)

	err = httpadapter.StartServerWithConfig(ctx, config, logger, container.AppMetrics, probe)
	logger.Zap().Info("Shutting down gracefully...")

	return err
}

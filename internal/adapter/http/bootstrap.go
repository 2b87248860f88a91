package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"todoweb/internal/adapter/http/routes"
	"todoweb/internal/core/port"
	"todoweb/internal/core/telemetry"
	"todoweb/internal/shared"
)

const shutdownTimeout = 10 * time.Second

func NewServer(listenPort string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + listenPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
}

// StartServerWithConfig serves until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func StartServerWithConfig(ctx context.Context, config *shared.AppConfig, logger *shared.Logger, metrics *telemetry.AppMetrics, probe port.Telemetry) error {
	container, err := NewContainer(ctx, config, logger, metrics, probe)
	if err != nil {
		return err
	}
	defer container.Close()

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		TodoHandler:   container.TodoHandler,
		HealthHandler: container.HealthHandler,
	}, metrics, logger, container.ResponseCache, config)

	srv := NewServer(config.Port, router)

	logger.InfoWithTrace(ctx, "Server starting",
		zap.String("port", config.Port),
		zap.String("api_url", config.APIURL),
		zap.String("environment", config.Environment),
		zap.Bool("rate_limit_enabled", config.RateLimitEnabled),
		zap.Bool("cache_enabled", config.CacheEnabled),
		zap.String("cache_driver", config.CacheDriver),
		zap.Bool("https_enforced", config.EnforceHTTPS))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.InfoWithTrace(context.Background(), "Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

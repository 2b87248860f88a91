package http

import (
	"context"
	"fmt"

	"todoweb/internal/adapter/backend"
	"todoweb/internal/adapter/cache/memory"
	"todoweb/internal/adapter/cache/redis"
	"todoweb/internal/adapter/http/handler"
	"todoweb/internal/core/port"
	"todoweb/internal/core/service"
	"todoweb/internal/core/telemetry"
	"todoweb/internal/shared"
)

type Container struct {
	PageCache     port.PageCache
	ResponseCache *shared.ResponseCache

	TodoAPI     port.TodoAPI
	TodoService port.TodoService

	TodoHandler   *handler.TodoHandler
	HealthHandler *handler.HealthHandler
}

func NewContainer(ctx context.Context, config *shared.AppConfig, logger *shared.Logger, metrics *telemetry.AppMetrics, probe port.Telemetry) (*Container, error) {
	pageCache, err := newPageCache(ctx, config)
	if err != nil {
		return nil, err
	}

	responseCache := shared.NewResponseCache(pageCache, logger.Zap(), metrics)

	todoAPI := backend.NewClient(config.APIURL,
		backend.WithTimeout(config.APITimeout),
		backend.WithTelemetry(probe),
	)
	todoSvc := service.NewTodoService(todoAPI, responseCache, probe)

	return &Container{
		PageCache:     pageCache,
		ResponseCache: responseCache,

		TodoAPI:     todoAPI,
		TodoService: todoSvc,

		TodoHandler:   handler.NewTodoHandler(todoSvc, logger),
		HealthHandler: handler.NewHealthHandler(config.ServiceName),
	}, nil
}

func (c *Container) Close() error {
	return c.PageCache.Close()
}

// newPageCache only dials Redis when the cache is enabled with the redis
// driver. Otherwise an in-process store backs revalidation.
func newPageCache(ctx context.Context, config *shared.AppConfig) (port.PageCache, error) {
	if config.CacheEnabled && config.CacheDriver == shared.CacheDriverRedis {
		pageCache, err := redis.NewPageCache(ctx, config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect page cache: %w", err)
		}
		return pageCache, nil
	}

	return memory.NewPageCache(), nil
}

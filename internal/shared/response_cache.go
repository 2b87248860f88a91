package shared

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"todoweb/internal/core/port"
	"todoweb/internal/core/telemetry"
	"todoweb/pkg/tracing"
)

const cacheKeyPrefix = "page:"

// ResponseCacheConfig configuration for response cache
type ResponseCacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// ResponseCache replays rendered GET pages from a port.PageCache and drops
// them again when a server action revalidates their path.
type ResponseCache struct {
	store   port.PageCache
	config  map[string]ResponseCacheConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.RWMutex
}

func NewResponseCache(store port.PageCache, logger *zap.Logger, metrics *telemetry.AppMetrics) *ResponseCache {
	configs := map[string]ResponseCacheConfig{
		"/": {
			TTL:     5 * time.Second,
			Enabled: true,
		},
		"default": {
			TTL:     1 * time.Second,
			Enabled: false,
		},
	}

	return &ResponseCache{
		store:   store,
		config:  configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		config := rc.configFor(path)
		if !config.Enabled {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		// Read before rendering: a revalidation during the render bumps the
		// generation, and this render lands under a key no reader asks for.
		generation, err := rc.store.Generation(ctx, path)
		if err != nil {
			rc.logger.Warn("Cache generation lookup failed", zap.String("path", path), zap.Error(err))
			c.Next()
			return
		}

		cacheKey := generateCacheKey(path, generation, c.Request.URL.RawQuery)

		cached, found, err := rc.store.Get(ctx, cacheKey)
		if err != nil {
			rc.logger.Warn("Cache lookup failed", zap.String("cache_key", cacheKey), zap.Error(err))
		}

		if found && time.Since(cached.StoredAt) < config.TTL {
			_, span := tracing.CreateChildSpan(ctx, "cache.response.hit", []attribute.KeyValue{
				attribute.String("cache.key", cacheKey),
				attribute.String("cache.path", path),
				attribute.String("cache.age", time.Since(cached.StoredAt).String()),
				attribute.Int("cache.status_code", cached.StatusCode),
				attribute.Int("cache.body_size", len(cached.Body)),
			})
			defer span.End()

			if rc.metrics != nil {
				rc.metrics.RecordCacheHit(ctx, path)
			}

			rc.logger.Debug("Cache hit",
				zap.String("path", path),
				zap.String("cache_key", cacheKey),
				zap.Duration("age", time.Since(cached.StoredAt)))

			c.Header("X-Cache", "HIT")
			c.Header("X-Cache-Age", fmt.Sprintf("%.0f", time.Since(cached.StoredAt).Seconds()))
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		spanCtx, span := tracing.CreateChildSpan(ctx, "cache.response.miss", []attribute.KeyValue{
			attribute.String("cache.key", cacheKey),
			attribute.String("cache.path", path),
			attribute.Int64("cache.generation", generation),
		})
		defer span.End()

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(ctx, path)
		}

		rc.logger.Debug("Cache miss",
			zap.String("path", path),
			zap.String("cache_key", cacheKey))

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		c.Writer = writer.ResponseWriter

		if !writer.cacheable() {
			return
		}

		page := port.CachedPage{
			StatusCode:  writer.Status(),
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
			StoredAt:    time.Now(),
		}

		if err := rc.store.Set(spanCtx, cacheKey, page, config.TTL); err != nil {
			tracing.AddSpanError(span, err)
			rc.logger.Warn("Cache store failed", zap.String("cache_key", cacheKey), zap.Error(err))
		}
	}
}

func (rc *ResponseCache) configFor(path string) ResponseCacheConfig {
	rc.mutex.RLock()
	defer rc.mutex.RUnlock()

	if config, exists := rc.config[path]; exists {
		return config
	}
	return rc.config["default"]
}

func generateCacheKey(path string, generation int64, rawQuery string) string {
	return fmt.Sprintf("%s%s:g%d:%x", cacheKeyPrefix, path, generation, md5.Sum([]byte(rawQuery)))
}

// Revalidate moves path to a new generation, which retires every cached
// variant of it, then deletes the retired entries.
func (rc *ResponseCache) Revalidate(ctx context.Context, path string) error {
	return tracing.SpanWrapper(ctx, "cache.revalidate", []attribute.KeyValue{
		attribute.String("cache.path", path),
	}, func(ctx context.Context) error {
		generation, err := rc.store.NextGeneration(ctx, path)
		if err != nil {
			return fmt.Errorf("revalidate %s: %w", path, err)
		}

		removed, err := rc.store.DeletePrefix(ctx, cacheKeyPrefix+path+":")
		if err != nil {
			rc.logger.Warn("Cache cleanup failed", zap.String("path", path), zap.Error(err))
		}

		tracing.AddSpanEvent(trace.SpanFromContext(ctx), "cache.entries_removed", []attribute.KeyValue{
			attribute.Int64("cache.generation", generation),
			attribute.Int("cache.removed", removed),
		})

		if rc.metrics != nil {
			rc.metrics.RecordCacheInvalidation(ctx, path)
		}

		rc.logger.Debug("Cache invalidated",
			zap.String("path", path),
			zap.Int64("generation", generation),
			zap.Int("removed", removed),
			zap.String("trace_id", tracing.GetTraceID(ctx)))

		return nil
	})
}

// SetConfig allows configuring cache for specific endpoints
func (rc *ResponseCache) SetConfig(path string, config ResponseCacheConfig) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()
	rc.config[path] = config
}

func (rc *ResponseCache) GetStats() map[string]interface{} {
	rc.mutex.RLock()
	defer rc.mutex.RUnlock()

	stats := map[string]interface{}{
		"configs": len(rc.config),
	}

	if counter, ok := rc.store.(interface{ ItemCount() int }); ok {
		stats["active_entries"] = counter.ItemCount()
	}

	return stats
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) cacheable() bool {
	status := w.Status()
	if status < 200 || status >= 300 {
		return false
	}
	return !strings.Contains(w.Header().Get("Cache-Control"), "no-store")
}

// markMiss labels the response before its headers are flushed.
func (w *responseWriter) markMiss() {
	if !w.Written() && w.cacheable() {
		w.Header().Set("X-Cache", "MISS")
	}
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.markMiss()
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.markMiss()
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

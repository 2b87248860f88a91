package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"todoweb/internal/core/port"
)

const (
	scanBatchSize    = 100
	generationPrefix = "page-generation:"
)

// PageCache stores rendered pages in Redis so every replica sees the same
// invalidations.
type PageCache struct {
	client *goredis.Client
}

func NewPageCache(ctx context.Context, redisURL string) (*PageCache, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &PageCache{client: client}, nil
}

func NewPageCacheFromClient(client *goredis.Client) *PageCache {
	return &PageCache{client: client}
}

func (pc *PageCache) Get(ctx context.Context, key string) (port.CachedPage, bool, error) {
	data, err := pc.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return port.CachedPage{}, false, nil
	}
	if err != nil {
		return port.CachedPage{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var page port.CachedPage
	if err := json.Unmarshal(data, &page); err != nil {
		return port.CachedPage{}, false, fmt.Errorf("decode cached page %s: %w", key, err)
	}

	return page, true, nil
}

func (pc *PageCache) Set(ctx context.Context, key string, page port.CachedPage, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode cached page %s: %w", key, err)
	}

	if err := pc.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func (pc *PageCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var keys []string

	iter := pc.client.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan %s*: %w", prefix, err)
	}

	if len(keys) == 0 {
		return 0, nil
	}

	deleted, err := pc.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis del: %w", err)
	}

	return int(deleted), nil
}

func (pc *PageCache) Generation(ctx context.Context, path string) (int64, error) {
	generation, err := pc.client.Get(ctx, generationPrefix+path).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation %s: %w", path, err)
	}
	return generation, nil
}

// NextGeneration is atomic across replicas.
func (pc *PageCache) NextGeneration(ctx context.Context, path string) (int64, error) {
	generation, err := pc.client.Incr(ctx, generationPrefix+path).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr generation %s: %w", path, err)
	}
	return generation, nil
}

func (pc *PageCache) Close() error {
	return pc.client.Close()
}

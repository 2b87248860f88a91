package memory

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"todoweb/internal/core/port"
)

// PageCache keeps rendered pages in process memory.
type PageCache struct {
	cache       *cache.Cache
	generations *cache.Cache
}

func NewPageCache() *PageCache {
	return &PageCache{
		cache:       cache.New(5*time.Minute, 10*time.Minute),
		generations: cache.New(cache.NoExpiration, 0),
	}
}

func (pc *PageCache) Get(ctx context.Context, key string) (port.CachedPage, bool, error) {
	item, found := pc.cache.Get(key)
	if !found {
		return port.CachedPage{}, false, nil
	}

	page, ok := item.(port.CachedPage)
	if !ok {
		pc.cache.Delete(key)
		return port.CachedPage{}, false, nil
	}

	return page, true, nil
}

func (pc *PageCache) Set(ctx context.Context, key string, page port.CachedPage, ttl time.Duration) error {
	pc.cache.Set(key, page, ttl)
	return nil
}

func (pc *PageCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	deleted := 0

	for key := range pc.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			pc.cache.Delete(key)
			deleted++
		}
	}

	return deleted, nil
}

func (pc *PageCache) Generation(ctx context.Context, path string) (int64, error) {
	item, found := pc.generations.Get(path)
	if !found {
		return 0, nil
	}
	return item.(int64), nil
}

func (pc *PageCache) NextGeneration(ctx context.Context, path string) (int64, error) {
	if err := pc.generations.Add(path, int64(1), cache.NoExpiration); err == nil {
		return 1, nil
	}
	return pc.generations.IncrementInt64(path, 1)
}

func (pc *PageCache) ItemCount() int {
	return pc.cache.ItemCount()
}

func (pc *PageCache) Close() error {
	pc.cache.Flush()
	return nil
}

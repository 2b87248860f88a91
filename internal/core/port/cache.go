package port

import (
	"context"
	"time"
)

// CachedPage is a rendered GET response kept for replay.
type CachedPage struct {
	StatusCode  int       `json:"status_code"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	StoredAt    time.Time `json:"stored_at"`
}

// PageCache stores rendered pages by key. Each path also carries a
// generation counter; pages are keyed by the generation they were rendered
// under, so bumping it retires every page rendered before the bump.
type PageCache interface {
	Get(ctx context.Context, key string) (CachedPage, bool, error)
	Set(ctx context.Context, key string, page CachedPage, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Generation(ctx context.Context, path string) (int64, error)
	NextGeneration(ctx context.Context, path string) (int64, error)
	Close() error
}

// Revalidator marks the rendered view of a path as stale so the next request
// for it re-fetches from the backend.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

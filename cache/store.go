package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss reports that a key is absent or expired.
var ErrMiss = errors.New("cache: key not found")

// Store is the minimal key-value surface the cache layer needs. The
// Redis implementation backs production; the memory one backs tests.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePattern removes every key matching a glob-style pattern,
	// e.g. "todo_list_*". Each underlying delete is independent, so a
	// partial run leaves no inconsistent state, only stale entries.
	DeletePattern(ctx context.Context, pattern string) error
}

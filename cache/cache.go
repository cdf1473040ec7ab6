package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/malwarebo/taskhub/utils"
)

// Cache layers get-or-compute and invalidation semantics over a Store.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger *utils.Logger
}

func CreateCache(store Store, ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: utils.NewLogger("cache"),
	}
}

// GetOrSet returns the cached JSON for key, or computes, stores, and
// returns it. Store failures propagate; stale data is never served in
// place of an error. Concurrent misses may compute the same value more
// than once — there is no stampede protection.
func (c *Cache) GetOrSet(ctx context.Context, key string, compute func() (interface{}, error), ttl time.Duration) (json.RawMessage, error) {
	data, err := c.store.Get(ctx, key)
	if err == nil {
		return json.RawMessage(data), nil
	}
	if err != ErrMiss {
		return nil, utils.WrapError(err, "cache get failed")
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, utils.WrapError(err, "cache encode failed")
	}

	if ttl == 0 {
		ttl = c.ttl
	}
	if err := c.store.Set(ctx, key, encoded, ttl); err != nil {
		return nil, utils.WrapError(err, "cache set failed")
	}

	return json.RawMessage(encoded), nil
}

// Invalidate evicts every list key of the resource and, when ids are
// given, those detail keys too. Each delete is independent and
// repeatable, so a partially applied invalidation can simply be rerun.
func (c *Cache) Invalidate(ctx context.Context, resource string, ids ...uint) error {
	var firstErr error

	if err := c.store.DeletePattern(ctx, ListPattern(resource)); err != nil {
		c.logger.Error(ctx, "list cache invalidation failed", map[string]interface{}{
			"resource": resource,
			"error":    err.Error(),
		})
		firstErr = err
	}

	for _, id := range ids {
		if err := c.store.Delete(ctx, DetailKey(resource, id)); err != nil {
			c.logger.Error(ctx, "detail cache invalidation failed", map[string]interface{}{
				"resource": resource,
				"id":       id,
				"error":    err.Error(),
			})
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

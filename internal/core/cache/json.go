package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// GetOrLoadJSON is GetOrLoad for values that round-trip through JSON.
// An entry that no longer decodes into T is dropped and rebuilt from load.
func GetOrLoadJSON[T any](c *Cache, ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var fresh *T
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		fresh = &v
		return json.Marshal(v)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if fresh != nil {
		return *fresh, nil
	}

	var out T
	if err := json.Unmarshal(b, &out); err == nil {
		return out, nil
	}
	_ = c.Invalidate(ctx, key)
	v, err := load(ctx)
	if err != nil {
		return v, fmt.Errorf("reload %s: %w", key, err)
	}
	if b, err := json.Marshal(v); err == nil {
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
	}
	return v, nil
}

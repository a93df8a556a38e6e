package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Keys used by the catalog endpoints.
const (
	KeyKeywords   = "catalog:keywords"
	KeyTagsPrefix = "catalog:tags:"
)

// Remember returns the cached value under key, or calls load and caches its
// result. Cache failures only cost a reload; load errors are returned as is.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var out T
	if c != nil {
		if hit, err := c.GetJSON(ctx, key, &out); err == nil && hit {
			return out, nil
		}
	}

	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	if c != nil {
		_ = c.SetJSON(ctx, key, out, ttl)
	}
	return out, nil
}

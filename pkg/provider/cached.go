package provider

import (
	"context"
	"time"

	"github.com/orbitviz/orbit/pkg/cache"
	"github.com/orbitviz/orbit/pkg/graph"
	"github.com/orbitviz/orbit/pkg/observability"
)

// cacheKeyType labels graph cache operations in observability events.
const cacheKeyType = "graph"

// Cached decorates a Provider with a byte cache. Fetch results are stored
// as marshaled graphs keyed by resource and depth; a corrupt cache entry
// is treated as a miss and overwritten.
type Cached struct {
	inner Provider
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCached wraps inner with the given cache. A nil keyer uses the
// default; a zero ttl caches without expiration.
func NewCached(inner Provider, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Cached{inner: inner, cache: c, keyer: keyer, ttl: ttl}
}

// Fetch returns a cached neighborhood when available, delegating to the
// wrapped provider on a miss. Cache I/O failures fall through to the
// underlying provider rather than failing the fetch.
func (c *Cached) Fetch(ctx context.Context, resourceID string, depth int) (graph.Graph, error) {
	key := c.keyer.GraphKey(resourceID, depth)

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		if g, err := graph.Unmarshal(data); err == nil {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return g, nil
		}
		_ = c.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	g, err := c.inner.Fetch(ctx, resourceID, depth)
	if err != nil {
		return graph.Graph{}, err
	}

	if data, err := graph.Marshal(g); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return g, nil
}

// Ensure Cached implements Provider.
var _ Provider = (*Cached)(nil)

package cache

import (
	"context"

	"github.com/IvanBrykalov/bufkit/lru"
)

// Options configures the cache. Zero values are safe except Capacity;
// defaults are applied in New():
//   - Shards <= 0  => auto (≈ 2*GOMAXPROCS, power of two)
//   - nil Metrics  => lru.NoopMetrics
type Options[K comparable, V any] struct {
	// Capacity is the total entry limit, split evenly (ceil) across shards.
	Capacity int

	// Shards defines the number of shards, rounded up to a power of two.
	Shards int

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called for every capacity eviction, under the shard lock.
	// Keep it lightweight and do not call back into the cache.
	OnEvict func(k K, v V)

	// Metrics receives Hit/Miss/Evict signals from every shard and the total
	// resident size.
	Metrics lru.Metrics
}

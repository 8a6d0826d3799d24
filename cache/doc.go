// Package cache provides a generic, sharded, concurrency-safe LRU cache for
// memoizing built values (for example, constructed extension instances),
// with optional singleflight loading and metrics hooks.
//
// Design
//
//   - Concurrency: the cache is split into shards, each an lru.Cache
//     protected by its own mutex. The default shard count is
//     nextPow2(2*GOMAXPROCS), clamped to 256.
//
//   - Eviction: LRU per shard. Capacity is split evenly (ceil) across
//     shards, so with more than one shard eviction order is only LRU within
//     a shard. Use Shards: 1 for a single global order.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using
//     singleflight. If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict signals and the
//     total resident size. The Prometheus adapter in metrics/prom
//     implements it.
//
//   - Callbacks: Options.OnEvict(k, v) runs for every capacity eviction,
//     under the shard lock, before the entry is dropped.
//
// Basic usage
//
//	c := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v
//	}
//	c.Remove("a")
//
// With GetOrLoad (singleflight)
//
//	c := cache.New[string, *Plugin](cache.Options[string, *Plugin]{
//	    Capacity: 128,
//	    Loader: func(ctx context.Context, name string) (*Plugin, error) {
//	        return buildPlugin(ctx, name)
//	    },
//	})
//	p, err := c.GetOrLoad(ctx, "auth")
package cache

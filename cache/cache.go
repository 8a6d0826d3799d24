package cache

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/IvanBrykalov/bufkit/internal/singleflight"
	"github.com/IvanBrykalov/bufkit/internal/util"
	"github.com/IvanBrykalov/bufkit/lru"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
var ErrNoLoader = errors.New("cache: no Loader provided")

// ErrClosed is returned by GetOrLoad after Close.
var ErrClosed = errors.New("cache: closed")

// cache is a sharded in-memory KV store of lru.Cache shards.
type cache[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
	closed atomic.Bool
	size   atomic.Int64

	opt Options[K, V]

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[K, V]
}

// New constructs a cache with the provided Options.
// It panics if Capacity <= 0.
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.Capacity <= 0 {
		panic("cache: Capacity must be > 0")
	}
	if opt.Metrics == nil {
		opt.Metrics = lru.NoopMetrics{}
	}

	sh := util.ShardCount(opt.Shards)
	perShardCap := (opt.Capacity + sh - 1) / sh

	c := &cache[K, V]{
		shards: make([]*shard[K, V], sh),
		hash:   util.Fnv64a[K],
		opt:    opt,
	}
	for i := range c.shards {
		c.shards[i] = newShard(perShardCap, opt, opt.Metrics)
	}
	return c
}

// Add inserts k→v only if absent.
func (c *cache[K, V]) Add(k K, v V) bool {
	if c.closed.Load() {
		return false
	}
	ok, delta := c.getShard(k).add(k, v)
	c.grow(delta)
	return ok
}

// Set inserts or updates k→v.
func (c *cache[K, V]) Set(k K, v V) {
	if c.closed.Load() {
		return
	}
	c.grow(c.getShard(k).set(k, v))
}

// Get returns the value for k and a presence flag.
func (c *cache[K, V]) Get(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).get(k)
}

// Remove deletes k if present and returns true on success.
func (c *cache[K, V]) Remove(k K) bool {
	if c.closed.Load() {
		return false
	}
	if !c.getShard(k).remove(k) {
		return false
	}
	c.grow(-1)
	return true
}

// Len returns the total number of resident entries across all shards.
func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.len()
	}
	return total
}

// Stats sums the per-shard counters.
func (c *cache[K, V]) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		st.Hits += s.hits.Load()
		st.Misses += s.misses.Load()
		st.Evictions += s.evicts.Load()
	}
	return st
}

// Close marks the cache as closed. Future operations are ignored.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	var zero V
	if c.closed.Load() {
		return zero, ErrClosed
	}
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		return zero, ErrNoLoader
	}

	return c.sf.Do(ctx, k, func() (V, error) {
		// double-check after flight join
		if v, ok := c.Get(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err == nil {
			c.Set(k, v)
		}
		return v, err
	})
}

// ---- helpers ----

// getShard picks a shard by hashing the key; len(c.shards) is a power of two.
func (c *cache[K, V]) getShard(k K) *shard[K, V] {
	return c.shards[util.ShardIndex(c.hash(k), len(c.shards))]
}

// grow applies a resident-entry delta and publishes the new total.
func (c *cache[K, V]) grow(delta int) {
	if delta == 0 {
		return
	}
	c.opt.Metrics.Size(int(c.size.Add(int64(delta))))
}

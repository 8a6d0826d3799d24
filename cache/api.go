package cache

import "context"

// Cache is a sharded, in-memory key/value cache.
// All methods are safe for concurrent use by multiple goroutines.
//
// Each shard is an lru.Cache guarded by a mutex, so operations cost a hash,
// a lock and amortized O(1) list work.
type Cache[K comparable, V any] interface {
	// Add inserts k→v only if k is not present.
	// Returns false if the key already exists (no update is performed).
	Add(k K, v V) bool

	// Set inserts or updates k→v and promotes it to MRU in its shard.
	Set(k K, v V)

	// Get returns the value for k and whether it was present.
	// A hit promotes the entry.
	Get(k K) (V, bool)

	// Remove deletes k if present and returns true on success.
	Remove(k K) bool

	// Len returns the total number of resident entries across all shards.
	Len() int

	// Stats returns hit/miss/eviction counters accumulated since New.
	Stats() Stats

	// Close marks the cache closed; later operations are ignored.
	Close() error

	// GetOrLoad returns the value for k, loading it via Options.Loader on miss.
	// Concurrent loads for the same key are coalesced (singleflight).
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k K) (V, error)
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

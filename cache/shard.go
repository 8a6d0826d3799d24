package cache

import (
	"sync"

	"github.com/IvanBrykalov/bufkit/internal/util"
	"github.com/IvanBrykalov/bufkit/lru"
)

// shard is an independent partition of the cache: one lru.Cache and the
// mutex that owns it.
type shard[K comparable, V any] struct {
	mu  sync.Mutex
	lru *lru.Cache[K, V] // guarded by mu

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedCounter
	misses util.PaddedCounter
	evicts util.PaddedCounter
}

func newShard[K comparable, V any](capacity int, opt Options[K, V], m lru.Metrics) *shard[K, V] {
	s := &shard[K, V]{}
	c, err := lru.New[K, V](lru.Options[K, V]{
		Capacity: capacity,
		OnEvict:  opt.OnEvict,
		Metrics:  shardMetrics[K, V]{s: s, m: m},
	})
	if err != nil {
		// capacity is validated by New
		panic(err)
	}
	s.lru = c
	return s
}

// The only error an lru call can return here is lru.ErrNilKey. util.Fnv64a
// already panics on most nilable keys; a nil pointer that implements
// fmt.Stringer can still get through, and it panics here the same way
// instead of being dropped silently.

// add inserts only if k is absent. delta is the change in resident entries.
func (s *shard[K, V]) add(k K, v V) (added bool, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lru.Contains(k) {
		return false, 0
	}
	before := s.lru.Len()
	if err := s.lru.Add(k, v); err != nil {
		panic(err)
	}
	return true, s.lru.Len() - before
}

func (s *shard[K, V]) set(k K, v V) (delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.lru.Len()
	if err := s.lru.Add(k, v); err != nil {
		panic(err)
	}
	return s.lru.Len() - before
}

func (s *shard[K, V]) get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok, err := s.lru.TryGet(k)
	if err != nil {
		panic(err)
	}
	return v, ok
}

func (s *shard[K, V]) remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.lru.Remove(k)
	if err != nil {
		panic(err)
	}
	return ok
}

func (s *shard[K, V]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// shardMetrics counts per shard and forwards Hit/Miss/Evict. Size is
// reported by the cache as a global total, not per shard.
type shardMetrics[K comparable, V any] struct {
	s *shard[K, V]
	m lru.Metrics
}

func (h shardMetrics[K, V]) Hit()     { h.s.hits.Add(1); h.m.Hit() }
func (h shardMetrics[K, V]) Miss()    { h.s.misses.Add(1); h.m.Miss() }
func (h shardMetrics[K, V]) Evict()   { h.s.evicts.Add(1); h.m.Evict() }
func (h shardMetrics[K, V]) Size(int) {}

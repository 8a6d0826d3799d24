// Package lru implements a fixed-capacity least-recently-used cache.
//
// A Cache pairs a key->node map with an intrusive doubly linked list ordered
// from most-recently-used (head) to least-recently-used (tail), so lookup,
// promotion and eviction are O(1) expected.
//
// Every successful Add, Get and TryGet moves the entry to the head. When an
// Add of a new key finds the cache full, the tail entry is evicted first and
// the registered listeners see it before it is unlinked.
//
// A Cache is not safe for concurrent use. Owners sharing one across
// goroutines must guard every call, or use the sharded cache package.
package lru

import "iter"

// Cache is a fixed-capacity LRU map from K to V.
type Cache[K comparable, V any] struct {
	m    map[K]*node[K, V]
	head *node[K, V] // MRU
	tail *node[K, V] // LRU
	cap  int

	listeners []func(K, V)
	metrics   Metrics
}

// New constructs a Cache. It returns ErrInvalidCapacity if
// opt.Capacity <= 0.
func New[K comparable, V any](opt Options[K, V]) (*Cache[K, V], error) {
	if opt.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	c := &Cache[K, V]{
		m:       make(map[K]*node[K, V], opt.Capacity),
		cap:     opt.Capacity,
		metrics: opt.Metrics,
	}
	if opt.OnEvict != nil {
		c.listeners = append(c.listeners, opt.OnEvict)
	}
	return c, nil
}

// OnEvict registers fn to run on every capacity eviction. Listeners run
// synchronously in registration order, before the entry is unlinked, and
// must not call back into the same cache.
func (c *Cache[K, V]) OnEvict(fn func(k K, v V)) {
	if fn != nil {
		c.listeners = append(c.listeners, fn)
	}
}

// Add inserts or replaces k and makes it the MRU entry. Inserting a new key
// into a full cache evicts the LRU entry first.
func (c *Cache[K, V]) Add(k K, v V) error {
	if isNilKey(k) {
		return ErrNilKey
	}
	if n, ok := c.m[k]; ok {
		n.val = v
		c.moveToFront(n)
		return nil
	}
	if len(c.m) >= c.cap {
		c.evict(c.tail)
	}
	n := &node[K, V]{key: k, val: v}
	c.m[k] = n
	c.pushFront(n)
	c.metrics.Size(len(c.m))
	return nil
}

// Get returns the value for k, promoting it, or def if k is absent.
func (c *Cache[K, V]) Get(k K, def V) (V, error) {
	v, ok, err := c.TryGet(k)
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

// TryGet returns the value for k and whether it was present. A hit promotes
// the entry to MRU.
func (c *Cache[K, V]) TryGet(k K) (V, bool, error) {
	var zero V
	if isNilKey(k) {
		return zero, false, ErrNilKey
	}
	n, ok := c.m[k]
	if !ok {
		c.metrics.Miss()
		return zero, false, nil
	}
	c.moveToFront(n)
	c.metrics.Hit()
	return n.val, true, nil
}

// Peek returns the value for k without touching the usage order.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	if n, ok := c.m[k]; ok {
		return n.val, true
	}
	var zero V
	return zero, false
}

// Contains reports whether k is resident, without promoting it.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.m[k]
	return ok
}

// Remove deletes k wherever it sits in the usage order. It reports whether
// k was present; removing an absent key is a no-op. Eviction listeners are
// not called.
func (c *Cache[K, V]) Remove(k K) (bool, error) {
	if isNilKey(k) {
		return false, ErrNilKey
	}
	n, ok := c.m[k]
	if !ok {
		return false, nil
	}
	c.unlink(n)
	delete(c.m, k)
	c.metrics.Size(len(c.m))
	return true, nil
}

// Purge removes every entry without notifying eviction listeners.
func (c *Cache[K, V]) Purge() {
	for n := c.head; n != nil; {
		next := n.next
		n.prev, n.next = nil, nil
		n = next
	}
	clear(c.m)
	c.head, c.tail = nil, nil
	c.metrics.Size(0)
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.m) }

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int { return c.cap }

// All returns a lazy sequence of entries from MRU to LRU. It reads the live
// list as it goes; mutating the cache while iterating is unsupported.
// Iterating does not promote entries.
func (c *Cache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := c.head; n != nil; n = n.next {
			if !yield(n.key, n.val) {
				return
			}
		}
	}
}

// Keys returns the resident keys from MRU to LRU.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.m))
	for k := range c.All() {
		keys = append(keys, k)
	}
	return keys
}

// ---- list internals ----

// pushFront inserts n at MRU in O(1).
func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

// moveToFront promotes n to MRU in O(1).
func (c *Cache[K, V]) moveToFront(n *node[K, V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

// unlink detaches n from the list; map bookkeeping is left to the caller.
func (c *Cache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.head == n {
		c.head = n.next
	}
	if c.tail == n {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// evict notifies listeners, then drops n.
func (c *Cache[K, V]) evict(n *node[K, V]) {
	if n == nil {
		return
	}
	for _, fn := range c.listeners {
		fn(n.key, n.val)
	}
	c.unlink(n)
	delete(c.m, n.key)
	c.metrics.Evict()
}

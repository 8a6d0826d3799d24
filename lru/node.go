package lru

// node is an intrusive doubly linked list element owned by a Cache.
// head is MRU, tail is LRU.
type node[K comparable, V any] struct {
	key K
	val V

	prev *node[K, V]
	next *node[K, V]
}

package lru

// Metrics exposes cache-level observability hooks.
// NoopMetrics is used when Options.Metrics is nil.
type Metrics interface {
	Hit()
	Miss()
	Evict()
	Size(entries int)
}

// NoopMetrics is a Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Hit()     {}
func (NoopMetrics) Miss()    {}
func (NoopMetrics) Evict()   {}
func (NoopMetrics) Size(int) {}

var _ Metrics = NoopMetrics{}

// Options configures a Cache.
type Options[K comparable, V any] struct {
	// Capacity is the maximum number of entries; it must be > 0.
	Capacity int

	// OnEvict, if set, is registered as the first eviction listener.
	// More listeners can be added with Cache.OnEvict.
	OnEvict func(k K, v V)

	// Metrics receives Hit/Miss/Evict/Size signals; nil => NoopMetrics.
	Metrics Metrics
}

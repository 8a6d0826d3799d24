// Package singleflight coalesces concurrent calls that share a key.
package singleflight

import (
	"context"
	"fmt"
	"sync"
)

// Group runs fn at most once per key at a time. Callers arriving while a
// call for their key is in flight wait for its result instead.
//
// The first caller for a key is the leader and runs fn on the calling
// goroutine; no goroutine is started.
// Cancelling a follower's ctx unblocks only that follower; the leader keeps
// running. A panic in fn is re-raised in the leader and reported to
// followers as an error.
//
// The zero Group is ready to use.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

type call[V any] struct {
	done chan struct{} // closed once val/err are published
	val  V
	err  error
	dups int
}

// PanicError wraps a value recovered from fn.
type PanicError struct{ Value any }

func (p *PanicError) Error() string { return fmt.Sprintf("singleflight: fn panicked: %v", p.Value) }

// Do runs fn once for key and returns its result to every concurrent caller.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (V, error)) (V, error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	if c, ok := g.m[key]; ok {
		c.dups++
		g.mu.Unlock()

		select {
		case <-c.done:
			return c.val, c.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}

	c := &call[V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	g.run(key, c, fn)
	return c.val, c.err
}

// Forget drops the in-flight marker for key, so the next Do starts a fresh
// call even if the current one has not returned.
func (g *Group[K, V]) Forget(key K) {
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()
}

// Pending reports how many callers are waiting on key's in-flight call,
// excluding the leader.
func (g *Group[K, V]) Pending(key K) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.m[key]; ok {
		return c.dups
	}
	return 0
}

func (g *Group[K, V]) run(key K, c *call[V], fn func() (V, error)) {
	var recovered any
	defer func() {
		g.mu.Lock()
		if g.m[key] == c {
			delete(g.m, key)
		}
		g.mu.Unlock()
		close(c.done)

		if recovered != nil {
			panic(recovered)
		}
	}()

	func() {
		defer func() {
			if r := recover(); r != nil {
				recovered = r
				c.err = &PanicError{Value: r}
			}
		}()
		c.val, c.err = fn()
	}()
}

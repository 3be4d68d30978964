// Package cache memoises parsed layers by content hash so watch mode only
// re-parses the files that actually changed.
package cache

import (
	"fmt"
	"sync/atomic"

	"github.com/maypok86/otter"
)

// DefaultCapacity is the number of parsed layers kept when none is given.
// A board has at most three layers, so this covers a handful of revisions.
const DefaultCapacity = 32

// Stats is a snapshot of cache effectiveness.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int
}

// Cache maps content keys to parsed values. It is safe for concurrent use.
type Cache[V any] struct {
	store  otter.Cache[Key, V]
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache holding at most capacity entries.
// A capacity of zero or less uses DefaultCapacity.
func New[V any](capacity int) (*Cache[V], error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	store, err := otter.MustBuilder[Key, V](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build parse cache: %w", err)
	}
	return &Cache[V]{store: store}, nil
}

// Get returns the value stored under key.
func (c *Cache[V]) Get(key Key) (V, bool) {
	v, ok := c.store.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores v under key.
func (c *Cache[V]) Set(key Key, v V) {
	c.store.Set(key, v)
}

// GetOrCompute returns the cached value for key, calling compute and storing
// its result on a miss. The boolean reports whether the value was cached.
func (c *Cache[V]) GetOrCompute(key Key, compute func() V) (V, bool) {
	if v, ok := c.Get(key); ok {
		return v, true
	}
	v := compute()
	c.Set(key, v)
	return v, false
}

// Stats returns hit and miss counts since creation.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.store.Size(),
	}
}

// Close releases the cache's background resources.
func (c *Cache[V]) Close() {
	c.store.Close()
}

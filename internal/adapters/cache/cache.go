// Package cache memoizes query results per snapshot generation.
package cache

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/okian/raidstats/pkg/metrics"
)

// Key identifies a result: the query's canonical string within one snapshot.
type Key struct {
	Generation uint64
	Query      string
}

func (k Key) flight() string {
	return strconv.FormatUint(k.Generation, 10) + "/" + k.Query
}

// Cache holds computed query results.
type Cache interface {
	// Get returns a cached result.
	Get(ctx context.Context, key Key) (any, bool)
	// Do returns the cached result for key or computes it with fn. Concurrent
	// callers missing on the same key share one call to fn; cached reports
	// whether this caller was served without running fn. Errors are not cached.
	Do(ctx context.Context, key Key, fn func() (any, error)) (v any, cached bool, err error)
	// DropBefore removes every entry older than generation and stops
	// accepting new ones for those generations.
	DropBefore(ctx context.Context, generation uint64)
	Size() int64
}

// node is an entry of the insertion-ordered list.
type node struct {
	key        Key
	value      any
	prev, next *node
}

// memoCache keeps results in a map with an insertion-ordered list for
// eviction. head is the newest entry, tail the oldest. Values are only read
// while mu is held.
type memoCache struct {
	mu      sync.Mutex
	entries map[Key]*node
	head    *node
	tail    *node
	maxSize int
	// floor is the oldest generation still accepted by put.
	floor uint64
	size  atomic.Int64
	group singleflight.Group
}

// New creates a memo cache with configuration options.
func New(opts ...Option) Cache {
	c := &memoCache{
		maxSize: 4096,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[Key]*node)
	return c
}

// lookup returns the value stored for key.
func (c *memoCache) lookup(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return n.value, true
}

func (c *memoCache) Get(_ context.Context, key Key) (any, bool) {
	v, ok := c.lookup(key)
	if !ok {
		metrics.RecordCacheMiss()
		return nil, false
	}
	metrics.RecordCacheHit()
	return v, true
}

func (c *memoCache) Do(ctx context.Context, key Key, fn func() (any, error)) (any, bool, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, true, nil
	}
	v, err, shared := c.group.Do(key.flight(), func() (any, error) {
		// A caller that lost the race may find the value already stored.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := fn()
		if err != nil {
			return nil, err
		}
		c.put(key, v)
		return v, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, shared, nil
}

func (c *memoCache) put(key Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Results of a superseded snapshot are returned to their caller but not kept.
	if key.Generation < c.floor {
		return
	}
	if n, ok := c.entries[key]; ok {
		n.value = v
		return
	}
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	n := &node{key: key, value: v, next: c.head}
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
	c.entries[key] = n
	metrics.UpdateCacheEntries(int(c.size.Add(1)))
}

// evictOldest removes the tail. Must be called with c.mu held.
func (c *memoCache) evictOldest() {
	if c.tail == nil {
		return
	}
	c.unlink(c.tail)
	metrics.RecordCacheEviction()
}

// unlink removes n from the list and the map. Must be called with c.mu held.
func (c *memoCache) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	delete(c.entries, n.key)
	n.prev, n.next = nil, nil
	metrics.UpdateCacheEntries(int(c.size.Add(-1)))
}

func (c *memoCache) DropBefore(_ context.Context, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.floor = max(c.floor, generation)
	for n := c.head; n != nil; {
		next := n.next
		if n.key.Generation < generation {
			c.unlink(n)
		}
		n = next
	}
}

// Size returns the current number of entries in the cache.
func (c *memoCache) Size() int64 {
	return c.size.Load()
}

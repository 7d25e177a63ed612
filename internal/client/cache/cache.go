// Package cache implements a TTL response cache with request coalescing.
//
// Without it, several screens mounting at once would each fetch the same
// collection. The cache serves repeat reads within the TTL from memory and
// collapses concurrent fetches for one key into a single backend call via
// singleflight. Mutations must invalidate the keys they make stale — there
// is no automatic invalidation on write; the service layer owns that
// contract.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long an entry stays valid unless the caller overrides it.
const DefaultTTL = 5 * time.Minute

// sweepInterval is how often expired entries are evicted regardless of
// access, bounding memory growth over long sessions.
const sweepInterval = 10 * time.Minute

type entry struct {
	data      any
	timestamp time.Time
	ttl       time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.timestamp) >= e.ttl
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache and starts its background sweeper. Call Close when
// the cache is no longer needed.
func New() *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Get returns the cached value for key while it is fresh. On a miss it runs
// fetcher — concurrent callers for the same key share one in-flight call and
// its result. The fetched value is stored with the completion timestamp; a
// failed fetch stores nothing, so the next call retries.
func (c *Cache) Get(ctx context.Context, key string, ttl time.Duration, fetcher func(ctx context.Context) (any, error)) (any, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if data, ok := c.lookup(key); ok {
		return data, nil
	}

	data, err, _ := c.group.Do(key, func() (any, error) {
		// A caller that waited on the flight may find the value already
		// stored; re-check before fetching again.
		if data, ok := c.lookup(key); ok {
			return data, nil
		}
		data, err := fetcher(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, data, ttl)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Invalidate removes every key containing pattern as a substring; with an
// empty pattern the whole cache is cleared.
func (c *Cache) Invalidate(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pattern == "" {
		c.entries = make(map[string]entry)
		return
	}
	for key := range c.entries {
		if strings.Contains(key, pattern) {
			delete(c.entries, key)
		}
	}
}

// ClearExpired evicts entries past their TTL.
func (c *Cache) ClearExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
}

// Stats describes the cache contents for debugging.
type Stats struct {
	Size int
	Keys []string
}

// Stats returns a snapshot of the cache contents.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return Stats{Size: len(c.entries), Keys: keys}
}

// Close stops the background sweeper.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.expired(time.Now()) {
		return nil, false
	}
	return e.data, true
}

func (c *Cache) store(key string, data any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: data, timestamp: time.Now(), ttl: ttl}
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.ClearExpired()
		case <-c.stop:
			return
		}
	}
}

// Fetch is a typed wrapper around Cache.Get for callers that know the
// value's concrete type.
func Fetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetcher func(ctx context.Context) (T, error)) (T, error) {
	data, err := c.Get(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return fetcher(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return data.(T), nil
}

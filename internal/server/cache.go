package server

import (
	"context"
	"sync"
	"time"

	"github.com/mj1618/chatstress/internal/locator"
	"github.com/mj1618/chatstress/internal/model"
	"github.com/mj1618/chatstress/internal/platform"
)

// cacheEntry holds a discovery result with its timestamp.
type cacheEntry struct {
	result    *model.DiscoveryResult
	timestamp time.Time
}

// DiscoveryCache provides a TTL-based cache of discovery results keyed by
// window title.
type DiscoveryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

// NewDiscoveryCache creates a new cache. A ttl of 0 disables caching.
func NewDiscoveryCache(ttl time.Duration) *DiscoveryCache {
	return &DiscoveryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Discover returns a cached result for win if within TTL, otherwise runs d.
// Partial results are returned but never stored.
func (c *DiscoveryCache) Discover(ctx context.Context, d locator.Discoverer, win platform.Window) (*model.DiscoveryResult, error) {
	if c.ttl == 0 {
		return d.Discover(ctx, win)
	}

	key := win.Title()
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && time.Since(entry.timestamp) < c.ttl {
		result := entry.result
		c.mu.Unlock()
		return result, nil
	}
	c.mu.Unlock()

	result, err := d.Discover(ctx, win)
	if err != nil {
		return nil, err
	}
	if result.Partial {
		return result, nil
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{result: result, timestamp: time.Now()}
	c.mu.Unlock()

	return result, nil
}

// Invalidate removes the entry for one window title.
func (c *DiscoveryCache) Invalidate(window string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, window)
}

// InvalidateAll clears the entire cache.
func (c *DiscoveryCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// cached reports whether a live entry exists for window.
func (c *DiscoveryCache) cached(window string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[window]
	return ok && time.Since(entry.timestamp) < c.ttl
}

// cachingDiscoverer lets a Locator go through the cache.
type cachingDiscoverer struct {
	cache *DiscoveryCache
	inner locator.Discoverer
}

func (d cachingDiscoverer) Discover(ctx context.Context, win platform.Window) (*model.DiscoveryResult, error) {
	return d.cache.Discover(ctx, d.inner, win)
}

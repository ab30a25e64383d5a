package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/bbernstein/weatherdash/internal/config"
	"github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// TTLCacheEntry wraps the cached value with its expiry. ExpiresAt is fixed
// when the entry is stored.
type TTLCacheEntry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Stats is a read-only view of the cache contents
type Stats struct {
	Size       int           `json:"size"`
	TTL        time.Duration `json:"-"`
	TTLMinutes float64       `json:"ttlMinutes"`
	Keys       []string      `json:"entries"`
}

// TTLCache stores values for a fixed time-to-live. Expired entries are
// removed lazily when read, or by Sweep for keys that are never read again.
// The LRU bound only applies when more than MaxEntries live keys exist.
type TTLCache[V any] struct {
	lru   *lru.Cache[string, *TTLCacheEntry[V]]
	ttl   time.Duration
	clock clock
	mu    sync.Mutex
}

func NewTTLCache[V any](cfg *config.CacheConfig) (*TTLCache[V], error) {
	if cfg == nil {
		cfg = config.DefaultCacheConfig()
	}
	if cfg.TTLMinutes <= 0 {
		return nil, fmt.Errorf("cache TTL must be positive, got %d minutes", cfg.TTLMinutes)
	}

	lruCache, err := lru.New[string, *TTLCacheEntry[V]](cfg.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &TTLCache[V]{
		lru:   lruCache,
		ttl:   cfg.GetTTL(),
		clock: systemClock{},
	}, nil
}

// Set stores value under key, replacing any previous entry
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, &TTLCacheEntry[V]{
		Value:     value,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

// Get returns the value for key if it has not expired. An expired entry is
// evicted before returning.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, ok := c.lru.Get(key)
	if !ok {
		return zero, false
	}

	if c.clock.Now().After(entry.ExpiresAt) {
		c.lru.Remove(key)
		log.Debug().Str("key", key).Msg("Evicted expired cache entry on read")
		return zero, false
	}

	return entry.Value, true
}

// Delete removes key. Deleting a missing key is a no-op.
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

// Clear removes all entries
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Sweep evicts every expired entry and returns how many were removed
func (c *TTLCache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for _, key := range c.lru.Keys() {
		entry, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		if now.After(entry.ExpiresAt) {
			c.lru.Remove(key)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Int("removed", removed).Int("remaining", c.lru.Len()).Msg("Swept expired cache entries")
	}
	return removed
}

// GetStats reports the entry count, TTL and keys. Expired entries that have
// not been reclaimed yet are still counted; nothing is evicted here.
func (c *TTLCache[V]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:       c.lru.Len(),
		TTL:        c.ttl,
		TTLMinutes: c.ttl.Minutes(),
		Keys:       c.lru.Keys(),
	}
}

// Len returns the number of stored entries, expired or not
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

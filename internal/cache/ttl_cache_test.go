package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bbernstein/weatherdash/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock implements a mock time source for testing
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type testSnapshot struct {
	Temperature int
}

func createTestCache(t *testing.T, cfg *config.CacheConfig) (*TTLCache[testSnapshot], *fakeClock) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultCacheConfig()
	}
	c, err := NewTTLCache[testSnapshot](cfg)
	require.NoError(t, err)

	clk := &fakeClock{now: time.Date(2024, 10, 5, 12, 0, 0, 0, time.UTC)}
	c.clock = clk
	return c, clk
}

func TestNewTTLCache(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.CacheConfig
		wantTTL   time.Duration
		wantError bool
	}{
		{
			name:    "defaults when nil",
			cfg:     nil,
			wantTTL: 5 * time.Minute,
		},
		{
			name:    "custom TTL",
			cfg:     &config.CacheConfig{TTLMinutes: 15, MaxEntries: 10},
			wantTTL: 15 * time.Minute,
		},
		{
			name:      "zero TTL",
			cfg:       &config.CacheConfig{TTLMinutes: 0, MaxEntries: 10},
			wantError: true,
		},
		{
			name:      "zero size",
			cfg:       &config.CacheConfig{TTLMinutes: 5, MaxEntries: 0},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewTTLCache[testSnapshot](tt.cfg)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTTL, c.GetStats().TTL)
		})
	}
}

func TestTTLCache_SetAndGet(t *testing.T) {
	c, clk := createTestCache(t, nil)
	key := "weather:52.5200,13.4050"
	snapshot := testSnapshot{Temperature: 13}

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, snapshot)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, snapshot, got)

	// still valid right up to the expiry instant
	clk.Advance(5 * time.Minute)
	got, ok = c.Get(key)
	require.True(t, ok)
	assert.Equal(t, snapshot, got)
}

func TestTTLCache_ExpiredEntryEvictedOnRead(t *testing.T) {
	c, clk := createTestCache(t, nil)
	key := "weather:52.5200,13.4050"

	c.Set(key, testSnapshot{Temperature: 13})
	c.Set("weather:48.8566,2.3522", testSnapshot{Temperature: 15})
	require.Equal(t, 2, c.Len())

	clk.Advance(5*time.Minute + time.Second)

	_, ok := c.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "expired read must evict the entry")
	assert.NotContains(t, c.GetStats().Keys, key)
}

func TestTTLCache_SetOverwritesAndResetsExpiry(t *testing.T) {
	c, clk := createTestCache(t, nil)
	key := "weather:1.0000,2.0000"

	c.Set(key, testSnapshot{Temperature: 1})
	clk.Advance(4 * time.Minute)
	c.Set(key, testSnapshot{Temperature: 2})
	clk.Advance(4 * time.Minute)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, testSnapshot{Temperature: 2}, got)
	assert.Equal(t, 1, c.Len())
}

func TestTTLCache_DeleteIsIdempotent(t *testing.T) {
	c, _ := createTestCache(t, nil)
	key := "weather:1.0000,2.0000"
	c.Set(key, testSnapshot{Temperature: 1})

	c.Delete(key)
	afterFirst := c.GetStats()
	c.Delete(key)
	afterSecond := c.GetStats()

	assert.Equal(t, afterFirst, afterSecond)
	assert.Equal(t, 0, afterSecond.Size)

	assert.NotPanics(t, func() { c.Delete("never-stored") })
}

func TestTTLCache_Clear(t *testing.T) {
	c, _ := createTestCache(t, nil)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("key-%d", i), testSnapshot{Temperature: i})
	}
	require.Equal(t, 5, c.Len())

	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("key-0")
	assert.False(t, ok)
}

func TestTTLCache_Sweep(t *testing.T) {
	c, clk := createTestCache(t, nil)

	c.Set("old-1", testSnapshot{Temperature: 1})
	c.Set("old-2", testSnapshot{Temperature: 2})
	clk.Advance(3 * time.Minute)
	c.Set("fresh", testSnapshot{Temperature: 3})
	clk.Advance(2*time.Minute + time.Second)

	removed := c.Sweep()
	sweepTime := clk.Now()

	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"fresh"}, c.GetStats().Keys)

	// no surviving entry expired before the sweep
	for _, key := range c.lru.Keys() {
		entry, ok := c.lru.Peek(key)
		require.True(t, ok)
		assert.False(t, entry.ExpiresAt.Before(sweepTime))
	}

	// nothing left to do on a second pass
	assert.Equal(t, 0, c.Sweep())
}

func TestTTLCache_SweepAndReadEvictSameKey(t *testing.T) {
	c, clk := createTestCache(t, nil)
	c.Set("k", testSnapshot{Temperature: 1})
	clk.Advance(6 * time.Minute)

	assert.Equal(t, 1, c.Sweep())

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_GetStatsDoesNotEvict(t *testing.T) {
	c, clk := createTestCache(t, nil)
	c.Set("a", testSnapshot{Temperature: 1})
	c.Set("b", testSnapshot{Temperature: 2})
	clk.Advance(10 * time.Minute)

	stats := c.GetStats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, 5.0, stats.TTLMinutes)
	assert.ElementsMatch(t, []string{"a", "b"}, stats.Keys)

	// a second call sees exactly the same thing
	assert.Equal(t, stats, c.GetStats())
	assert.Equal(t, 2, c.Len())
}

func TestTTLCache_BoundedByMaxEntries(t *testing.T) {
	c, _ := createTestCache(t, &config.CacheConfig{TTLMinutes: 5, MaxEntries: 2})

	c.Set("a", testSnapshot{Temperature: 1})
	c.Set("b", testSnapshot{Temperature: 2})
	c.Set("c", testSnapshot{Temperature: 3})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok, "least recently used entry is dropped")
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	c, clk := createTestCache(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%5)
			c.Set(key, testSnapshot{Temperature: i})
			c.Get(key)
			if i%4 == 0 {
				clk.Advance(time.Minute)
				c.Sweep()
			}
			if i%7 == 0 {
				c.Delete(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 5)
}

package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"mediaarchive/src/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T, clock *fakeClock) *cache.MemoryStore {
	t.Helper()
	store := cache.NewMemoryStore(time.Hour, 0, cache.WithClock(clock.Now))
	t.Cleanup(store.Close)
	return store
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get returns what was set", func(t *testing.T) {
		store := newTestStore(t, newFakeClock())

		require.NoError(t, store.Set(ctx, "collection:1", []byte(`{"a":1}`), 0))

		value, ok, err := store.Get(ctx, "collection:1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte(`{"a":1}`), value)
	})

	t.Run("missing key is a miss, not an error", func(t *testing.T) {
		store := newTestStore(t, newFakeClock())

		value, ok, err := store.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		store := newTestStore(t, newFakeClock())

		require.NoError(t, store.Set(ctx, "k", []byte("old"), 0))
		require.NoError(t, store.Set(ctx, "k", []byte("new"), 0))

		value, _, _ := store.Get(ctx, "k")
		assert.Equal(t, []byte("new"), value)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("default ttl expires entries", func(t *testing.T) {
		clock := newFakeClock()
		store := newTestStore(t, clock)

		require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))

		clock.Advance(59 * time.Minute)
		_, ok, _ := store.Get(ctx, "k")
		assert.True(t, ok)

		clock.Advance(time.Minute)
		_, ok, _ = store.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("explicit ttl overrides the default", func(t *testing.T) {
		clock := newFakeClock()
		store := newTestStore(t, clock)

		require.NoError(t, store.Set(ctx, "short", []byte("v"), time.Second))
		clock.Advance(2 * time.Second)

		_, ok, _ := store.Get(ctx, "short")
		assert.False(t, ok)
	})

	t.Run("get does not extend ttl", func(t *testing.T) {
		clock := newFakeClock()
		store := newTestStore(t, clock)

		require.NoError(t, store.Set(ctx, "k", []byte("v"), 10*time.Second))
		clock.Advance(9 * time.Second)
		_, ok, _ := store.Get(ctx, "k")
		require.True(t, ok)

		clock.Advance(time.Second)
		_, ok, _ = store.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("keys skips expired entries", func(t *testing.T) {
		clock := newFakeClock()
		store := newTestStore(t, clock)

		require.NoError(t, store.Set(ctx, "live", []byte("v"), time.Hour))
		require.NoError(t, store.Set(ctx, "dead", []byte("v"), time.Second))
		clock.Advance(time.Minute)

		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"live"}, keys)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := newTestStore(t, newFakeClock())

		require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
		require.NoError(t, store.Delete(ctx, "k"))
		require.NoError(t, store.Delete(ctx, "k", "never-existed"))

		_, ok, _ := store.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("delete expired removes only stale entries", func(t *testing.T) {
		clock := newFakeClock()
		store := newTestStore(t, clock)

		require.NoError(t, store.Set(ctx, "a", []byte("v"), time.Second))
		require.NoError(t, store.Set(ctx, "b", []byte("v"), time.Second))
		require.NoError(t, store.Set(ctx, "c", []byte("v"), time.Hour))
		clock.Advance(time.Minute)

		assert.Equal(t, 2, store.DeleteExpired())
		assert.Equal(t, 1, store.Len())
	})
}

func TestMemoryStoreSweep(t *testing.T) {
	store := cache.NewMemoryStore(time.Millisecond, 5*time.Millisecond)
	defer store.Close()

	require.NoError(t, store.Set(context.Background(), "k", []byte("v"), 0))

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newFakeClock())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := cache.CollectionKey(string(rune('a' + i)))
			for j := 0; j < 100; j++ {
				_ = store.Set(ctx, key, []byte("v"), 0)
				_, _, _ = store.Get(ctx, key)
				_, _ = store.Keys(ctx)
				_ = store.Delete(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryStoreCloseTwice(t *testing.T) {
	store := cache.NewMemoryStore(time.Hour, time.Minute)
	store.Close()
	assert.NotPanics(t, store.Close)
}

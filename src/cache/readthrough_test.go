package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mediaarchive/src/cache"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func TestReadThroughServesSecondReadFromCache(t *testing.T) {
	store := newTestStore(t, newFakeClock())
	rt := cache.NewReadThrough(store, time.Hour, nil)
	key := cache.CollectionListKey("")

	var calls int
	load := func(context.Context) (any, error) {
		calls++
		return listing{Message: "ok", Count: 2}, nil
	}

	first, err := rt.Fetch(context.Background(), key, load)
	require.NoError(t, err)
	assert.False(t, first.Hit)

	second, err := rt.Fetch(context.Background(), key, load)
	require.NoError(t, err)
	assert.True(t, second.Hit)

	assert.Equal(t, 1, calls)
	assert.JSONEq(t, `{"message":"ok","count":2}`, string(first.Body))
	assert.Equal(t, first.Body, second.Body)
}

func TestReadThroughDoesNotCacheErrors(t *testing.T) {
	store := newTestStore(t, newFakeClock())
	rt := cache.NewReadThrough(store, time.Hour, nil)
	key := cache.CollectionKey("missing")
	notFound := errors.New("not found")

	var calls int
	load := func(context.Context) (any, error) {
		calls++
		return nil, notFound
	}

	for i := 0; i < 2; i++ {
		_, err := rt.Fetch(context.Background(), key, load)
		assert.ErrorIs(t, err, notFound)
	}

	assert.Equal(t, 2, calls)
	assert.Zero(t, store.Len())
}

func TestReadThroughCachesEmptyResults(t *testing.T) {
	store := newTestStore(t, newFakeClock())
	rt := cache.NewReadThrough(store, time.Hour, nil)

	_, err := rt.Fetch(context.Background(), cache.CollectionListKey(""), func(context.Context) (any, error) {
		return listing{Message: "Collections retrieved successfully"}, nil
	})
	require.NoError(t, err)

	_, ok, err := store.Get(context.Background(), cache.CollectionListKey(""))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadThroughReloadsAfterExpiry(t *testing.T) {
	clock := newFakeClock()
	store := newTestStore(t, clock)
	rt := cache.NewReadThrough(store, time.Minute, nil)
	key := cache.ArchiveItemKey("a1")

	var calls int
	load := func(context.Context) (any, error) {
		calls++
		return listing{Count: calls}, nil
	}

	_, err := rt.Fetch(context.Background(), key, load)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)

	res, err := rt.Fetch(context.Background(), key, load)
	require.NoError(t, err)
	assert.False(t, res.Hit)
	assert.Equal(t, 2, calls)
}

func TestReadThroughDegradesWhenStoreFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	rt := cache.NewReadThrough(failingStore{err: errors.New("connection refused")}, time.Hour, cache.NewMetrics(reg))
	key := cache.ArchiveItemListKey("", "")

	var calls int
	load := func(context.Context) (any, error) {
		calls++
		return listing{Count: 1}, nil
	}

	for i := 0; i < 3; i++ {
		res, err := rt.Fetch(context.Background(), key, load)
		require.NoError(t, err)
		assert.False(t, res.Hit)
	}

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3.0, counterValue(t, reg, "cache_errors_total", "get"))
	assert.Equal(t, 3.0, counterValue(t, reg, "cache_errors_total", "set"))
	assert.Equal(t, 3.0, counterValue(t, reg, "cache_misses_total", "archive_items"))
}

func TestReadThroughCountsHitsPerNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := newTestStore(t, newFakeClock())
	rt := cache.NewReadThrough(store, time.Hour, cache.NewMetrics(reg))
	load := func(context.Context) (any, error) { return listing{}, nil }

	for i := 0; i < 3; i++ {
		_, err := rt.Fetch(context.Background(), cache.CollectionKey("c1"), load)
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, counterValue(t, reg, "cache_misses_total", "collections"))
	assert.Equal(t, 2.0, counterValue(t, reg, "cache_hits_total", "collections"))
}

// countingStore counts Get calls so a test can tell when every reader has
// missed and moved on to the load.
type countingStore struct {
	cache.Store
	gets atomic.Int32
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	defer s.gets.Add(1)
	return s.Store.Get(ctx, key)
}

func TestReadThroughCollapsesConcurrentMisses(t *testing.T) {
	store := &countingStore{Store: newTestStore(t, newFakeClock())}
	rt := cache.NewReadThrough(store, time.Hour, nil)
	key := cache.CollectionListKey("maps")

	const readers = 8
	var calls atomic.Int32
	load := func(context.Context) (any, error) {
		calls.Add(1)
		// Hold the load until every reader has missed; they are then
		// waiting on this flight.
		for store.gets.Load() < readers {
			time.Sleep(time.Millisecond)
		}
		time.Sleep(20 * time.Millisecond)
		return listing{Count: 1}, nil
	}

	var wg sync.WaitGroup
	wg.Add(readers)
	bodies := make([][]byte, readers)
	for i := 0; i < readers; i++ {
		go func(i int) {
			defer wg.Done()
			res, err := rt.Fetch(context.Background(), key, load)
			assert.NoError(t, err)
			bodies[i] = res.Body
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, body := range bodies {
		assert.JSONEq(t, `{"message":"","count":1}`, string(body))
	}

	res, err := rt.Fetch(context.Background(), key, load)
	require.NoError(t, err)
	assert.True(t, res.Hit)
}

func TestReadThroughLoadOverlappingInvalidationIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newFakeClock())
	rt := cache.NewReadThrough(store, time.Hour, nil)
	invalidator := cache.NewCacheInvalidator(store, nil, rt)
	key := cache.CollectionListKey("")

	var mu sync.Mutex
	current := "before"
	read := func() string {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	loading := make(chan struct{})
	release := make(chan struct{})
	early := make(chan cache.Result, 1)
	go func() {
		res, err := rt.Fetch(ctx, key, func(context.Context) (any, error) {
			v := read()
			close(loading)
			<-release
			return map[string]string{"v": v}, nil
		})
		assert.NoError(t, err)
		early <- res
	}()
	<-loading

	// The write commits and the namespace is invalidated while the first
	// load is still running.
	mu.Lock()
	current = "after"
	mu.Unlock()
	require.NoError(t, invalidator.Invalidate(ctx, cache.NamespaceCollections))

	late, err := rt.Fetch(ctx, key, func(context.Context) (any, error) {
		return map[string]string{"v": read()}, nil
	})
	require.NoError(t, err)
	assert.False(t, late.Hit)
	assert.JSONEq(t, `{"v":"after"}`, string(late.Body))

	close(release)
	assert.JSONEq(t, `{"v":"before"}`, string((<-early).Body))

	cached, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"v":"after"}`, string(cached))
}

func TestReadThroughDropsLoadFinishingAfterInvalidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newFakeClock())
	rt := cache.NewReadThrough(store, time.Hour, nil)
	invalidator := cache.NewCacheInvalidator(store, nil, rt)
	key := cache.ArchiveItemKey("a1")

	loading := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := rt.Fetch(ctx, key, func(context.Context) (any, error) {
			close(loading)
			<-release
			return listing{Message: "stale"}, nil
		})
		assert.NoError(t, err)
	}()
	<-loading

	require.NoError(t, invalidator.Invalidate(ctx, cache.NamespaceArchiveItems))
	close(release)
	<-done

	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// Other namespaces keep filling normally.
	_, err = rt.Fetch(ctx, cache.CollectionKey("c1"), func(context.Context) (any, error) {
		return listing{}, nil
	})
	require.NoError(t, err)
	_, ok, err = store.Get(ctx, cache.CollectionKey("c1"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadThroughLoadSurvivesCanceledRequest(t *testing.T) {
	store := newTestStore(t, newFakeClock())
	rt := cache.NewReadThrough(store, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rt.Fetch(ctx, cache.CollectionKey("c1"), func(ctx context.Context) (any, error) {
		return listing{}, ctx.Err()
	})
	require.NoError(t, err)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"mediaarchive/src/cache"
	"mediaarchive/src/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckCountsCacheKeysPerNamespace(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(time.Hour, 0)
	t.Cleanup(store.Close)

	for _, key := range []string{
		cache.CollectionListKey(""),
		cache.CollectionKey("c1"),
		cache.ArchiveItemKey("a1"),
		cache.GetSessionKey("u1"),
	} {
		require.NoError(t, store.Set(ctx, key, []byte("{}"), 0))
	}

	health := service.NewHealthCheckService(nil, nil, store)

	counts, err := health.CacheCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[cache.Namespace]int{
		cache.NamespaceCollections:  2,
		cache.NamespaceArchiveItems: 1,
		cache.NamespaceSessions:     1,
	}, counts)

	results := health.Check(ctx)
	require.Len(t, results, 2)

	assert.Equal(t, "Postgre", results[0].Name)
	assert.False(t, results[0].IsUp)

	assert.Equal(t, "Cache", results[1].Name)
	assert.True(t, results[1].IsUp)
	require.NotNil(t, results[1].Message)
	assert.Equal(t, "2 collection keys, 1 archive item keys, 1 session keys", *results[1].Message)
}

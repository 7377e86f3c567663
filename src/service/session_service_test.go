package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediaarchive/src/cache"
	"mediaarchive/src/model"
	"mediaarchive/src/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(time.Hour, 0)
	t.Cleanup(store.Close)
	sessions := service.NewSessionService(store, 30*time.Minute)

	user := &model.User{Base: model.Base{ID: uuid.New()}, UserName: "archivist", Role: "admin"}

	_, err := sessions.GetUserSession(ctx, user.ID.String())
	assert.ErrorIs(t, err, service.ErrCacheMiss)

	require.NoError(t, sessions.CacheUserSession(ctx, user))

	session, err := sessions.GetUserSession(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "archivist", session.UserName)
	assert.Equal(t, "admin", session.Role)

	ns, ok := cache.NamespaceOf(cache.GetSessionKey(user.ID.String()))
	require.True(t, ok)
	assert.Equal(t, cache.NamespaceSessions, ns)

	require.NoError(t, sessions.InvalidateSession(ctx, user.ID.String()))
	_, err = sessions.GetUserSession(ctx, user.ID.String())
	assert.True(t, errors.Is(err, service.ErrCacheMiss))
}

func TestSessionsSurviveResponseInvalidation(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(time.Hour, 0)
	t.Cleanup(store.Close)
	sessions := service.NewSessionService(store, 30*time.Minute)
	user := &model.User{Base: model.Base{ID: uuid.New()}, UserName: "archivist", Role: "admin"}
	require.NoError(t, sessions.CacheUserSession(ctx, user))

	cache.NewCacheInvalidator(store, nil, nil).InvalidateNamespaces(ctx, cache.NamespaceCollections, cache.NamespaceArchiveItems)

	_, err := sessions.GetUserSession(ctx, user.ID.String())
	assert.NoError(t, err)
}

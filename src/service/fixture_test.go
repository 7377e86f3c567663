package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"mediaarchive/src/cache"
	"mediaarchive/src/media/mediatest"
	"mediaarchive/src/model"
	"mediaarchive/src/repository/repositorytest"
	"mediaarchive/src/service"
	"mediaarchive/src/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db          *repositorytest.Store
	media       *mediatest.Store
	cache       *cache.MemoryStore
	collections service.CollectionService
	items       service.ArchiveItemService
	drafts      service.DraftService
	category    model.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := repositorytest.NewStore()
	mediaStore := mediatest.NewStore()
	store := cache.NewMemoryStore(time.Hour, 0)
	t.Cleanup(store.Close)

	validate := validation.Validator()
	reader := cache.NewReadThrough(store, time.Hour, nil)
	invalidator := cache.NewCacheInvalidator(store, nil, reader)

	f := &fixture{
		db:          db,
		media:       mediaStore,
		cache:       store,
		collections: service.NewCollectionService(db.Collections(), db.ArchiveItems(), reader, invalidator, validate),
		items:       service.NewArchiveItemService(db.ArchiveItems(), db.Collections(), db.Categories(), mediaStore, reader, invalidator, validate),
		drafts:      service.NewDraftService(db.ArchiveItems(), db.Categories(), mediaStore, invalidator, validate),
		category:    model.Category{Name: "Maps", Description: "Historic maps"},
	}
	require.NoError(t, db.Categories().Create(context.Background(), &f.category))
	return f
}

func pngUpload() *service.MediaUpload {
	data := []byte("\x89PNG\r\n\x1a\nfake image body")
	return &service.MediaUpload{Reader: bytes.NewReader(data), Size: int64(len(data)), ContentType: "image/png"}
}

func (f *fixture) createItem(t *testing.T, title, visibility string) *model.ArchiveItem {
	t.Helper()
	item, err := f.items.CreateArchiveItem(context.Background(), &validation.CreateArchiveItem{
		Title:       title,
		Description: title + " description",
		CategoryID:  f.category.ID.String(),
		Visibility:  visibility,
	}, pngUpload())
	require.NoError(t, err)
	return item
}

func (f *fixture) createCollection(t *testing.T, name string, items ...*model.ArchiveItem) string {
	t.Helper()
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID.String()
	}
	created, err := f.collections.CreateCollection(context.Background(), &validation.CreateCollection{
		Name:        name,
		Description: name + " description",
		ArchiveIDs:  ids,
	})
	require.NoError(t, err)
	return created.ID.String()
}

// warm reads every cached view once so the namespaces have live keys.
func (f *fixture) warm(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.collections.ListCollections(ctx, &validation.QueryCollections{})
	require.NoError(t, err)
	_, _ = f.items.ListArchiveItems(ctx, &validation.QueryArchiveItems{})
}

func (f *fixture) hasKey(t *testing.T, key string) bool {
	t.Helper()
	_, ok, err := f.cache.Get(context.Background(), key)
	require.NoError(t, err)
	return ok
}

func (f *fixture) namespaceKeys(t *testing.T, ns cache.Namespace) int {
	t.Helper()
	keys, err := f.cache.Keys(context.Background())
	require.NoError(t, err)
	n := 0
	for _, k := range keys {
		if got, ok := cache.NamespaceOf(k); ok && got == ns {
			n++
		}
	}
	return n
}

func assertStatus(t *testing.T, err error, code int) {
	t.Helper()
	var fiberErr *fiber.Error
	require.True(t, errors.As(err, &fiberErr), "expected *fiber.Error, got %v", err)
	assert.Equal(t, code, fiberErr.Code)
}

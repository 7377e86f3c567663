package service_test

import (
	"context"
	"errors"
	"testing"

	"mediaarchive/src/cache"
	"mediaarchive/src/model"
	"mediaarchive/src/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListArchiveItems(t *testing.T) {
	ctx := context.Background()

	t.Run("empty result is a 404 and is not cached", func(t *testing.T) {
		f := newFixture(t)

		for i := 0; i < 2; i++ {
			_, err := f.items.ListArchiveItems(ctx, &validation.QueryArchiveItems{})
			assertStatus(t, err, fiber.StatusNotFound)
		}
		assert.Equal(t, 2, f.db.Calls("ArchiveItems.List"))
		assert.Zero(t, f.cache.Len())
	})

	t.Run("drafts are not listed", func(t *testing.T) {
		f := newFixture(t)
		f.createItem(t, "Private letter", "private")

		_, err := f.items.ListArchiveItems(ctx, &validation.QueryArchiveItems{})
		assertStatus(t, err, fiber.StatusNotFound)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newFixture(t)
		f.createItem(t, "Harbour map", "public")

		_, err := f.items.ListArchiveItems(ctx, &validation.QueryArchiveItems{CategoryID: uuid.NewString()})
		assertStatus(t, err, fiber.StatusBadRequest)
		assert.Zero(t, f.namespaceKeys(t, cache.NamespaceArchiveItems))
	})

	t.Run("category and search get their own keys", func(t *testing.T) {
		f := newFixture(t)
		f.createItem(t, "Harbour map", "public")
		cat := f.category.ID.String()

		_, err := f.items.ListArchiveItems(ctx, &validation.QueryArchiveItems{CategoryID: cat})
		require.NoError(t, err)
		_, err = f.items.ListArchiveItems(ctx, &validation.QueryArchiveItems{Search: "harbour"})
		require.NoError(t, err)
		res, err := f.items.ListArchiveItems(ctx, &validation.QueryArchiveItems{CategoryID: cat})
		require.NoError(t, err)

		assert.True(t, res.Hit)
		assert.Equal(t, 2, f.db.Calls("ArchiveItems.List"))
		assert.True(t, f.hasKey(t, cache.ArchiveItemListKey(cat, "")))
		assert.True(t, f.hasKey(t, cache.ArchiveItemListKey("", "harbour")))
	})
}

func TestGetArchiveItemByID(t *testing.T) {
	ctx := context.Background()

	t.Run("detail embeds category and collections", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		f.createCollection(t, "Maritime", item)

		res, err := f.items.GetArchiveItemByID(ctx, item.ID.String())
		require.NoError(t, err)
		assert.False(t, res.Hit)
		assert.Contains(t, string(res.Body), `"category":{`)
		assert.Contains(t, string(res.Body), "Maritime")

		res, err = f.items.GetArchiveItemByID(ctx, item.ID.String())
		require.NoError(t, err)
		assert.True(t, res.Hit)
	})

	t.Run("draft is not visible", func(t *testing.T) {
		f := newFixture(t)
		draft := f.createItem(t, "Private letter", "private")

		_, err := f.items.GetArchiveItemByID(ctx, draft.ID.String())
		assertStatus(t, err, fiber.StatusNotFound)
		assert.False(t, f.hasKey(t, cache.ArchiveItemKey(draft.ID.String())))
	})
}

func TestCreateArchiveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("public item purges archive items only", func(t *testing.T) {
		f := newFixture(t)
		first := f.createItem(t, "Harbour map", "public")
		f.createCollection(t, "Maritime", first)
		f.warm(t)

		item := f.createItem(t, "Lighthouse", "")

		assert.Equal(t, model.VisibilityPublic, item.Visibility)
		assert.Equal(t, "image", item.MediaType)
		assert.True(t, f.media.Has(item.MediaKey))
		assert.Zero(t, f.namespaceKeys(t, cache.NamespaceArchiveItems))
		assert.Positive(t, f.namespaceKeys(t, cache.NamespaceCollections))
	})

	t.Run("draft leaves the cache alone", func(t *testing.T) {
		f := newFixture(t)
		f.createItem(t, "Harbour map", "public")
		f.warm(t)
		before := f.cache.Len()

		f.createItem(t, "Private letter", "private")

		assert.Equal(t, before, f.cache.Len())
	})

	t.Run("missing media", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.items.CreateArchiveItem(ctx, &validation.CreateArchiveItem{
			Title: "t", Description: "d", CategoryID: f.category.ID.String(),
		}, nil)
		assertStatus(t, err, fiber.StatusBadRequest)
	})

	t.Run("unknown category uploads nothing", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.items.CreateArchiveItem(ctx, &validation.CreateArchiveItem{
			Title: "t", Description: "d", CategoryID: uuid.NewString(),
		}, pngUpload())
		assertStatus(t, err, fiber.StatusBadRequest)
		assert.Empty(t, f.media.Uploaded)
	})

	t.Run("upload failure writes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.media.UploadErr = errors.New("bucket unavailable")

		_, err := f.items.CreateArchiveItem(ctx, &validation.CreateArchiveItem{
			Title: "t", Description: "d", CategoryID: f.category.ID.String(),
		}, pngUpload())
		assertStatus(t, err, fiber.StatusInternalServerError)
		assert.Zero(t, f.db.Calls("ArchiveItems.Create"))
	})

	t.Run("store failure removes the uploaded media", func(t *testing.T) {
		f := newFixture(t)
		f.db.Fail("ArchiveItems.Create", errors.New("disk full"))

		_, err := f.items.CreateArchiveItem(ctx, &validation.CreateArchiveItem{
			Title: "t", Description: "d", CategoryID: f.category.ID.String(),
		}, pngUpload())
		require.Error(t, err)
		require.Len(t, f.media.Uploaded, 1)
		assert.Equal(t, f.media.Uploaded, f.media.Deleted)
		assert.Zero(t, f.media.Len())
	})
}

func TestUpdateArchiveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("non-member purges archive items only", func(t *testing.T) {
		f := newFixture(t)
		other := f.createItem(t, "Harbour map", "public")
		item := f.createItem(t, "Lighthouse", "public")
		f.createCollection(t, "Maritime", other)
		f.warm(t)

		title := "Old lighthouse"
		updated, err := f.items.UpdateArchiveItem(ctx, item.ID.String(), &validation.UpdateArchiveItem{Title: &title}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Old lighthouse", updated.Title)

		assert.Zero(t, f.namespaceKeys(t, cache.NamespaceArchiveItems))
		assert.Positive(t, f.namespaceKeys(t, cache.NamespaceCollections))
	})

	t.Run("member purges both namespaces", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		f.createCollection(t, "Maritime", item)
		f.warm(t)

		title := "Harbour chart"
		_, err := f.items.UpdateArchiveItem(ctx, item.ID.String(), &validation.UpdateArchiveItem{Title: &title}, nil)
		require.NoError(t, err)

		assert.Zero(t, f.namespaceKeys(t, cache.NamespaceArchiveItems))
		assert.Zero(t, f.namespaceKeys(t, cache.NamespaceCollections))

		res, err := f.collections.ListCollections(ctx, &validation.QueryCollections{})
		require.NoError(t, err)
		assert.False(t, res.Hit)
	})

	t.Run("move to drafts hides the item", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		_, err := f.items.GetArchiveItemByID(ctx, item.ID.String())
		require.NoError(t, err)

		private := "private"
		_, err = f.items.UpdateArchiveItem(ctx, item.ID.String(), &validation.UpdateArchiveItem{Visibility: &private}, nil)
		require.NoError(t, err)

		_, err = f.items.GetArchiveItemByID(ctx, item.ID.String())
		assertStatus(t, err, fiber.StatusNotFound)

		draft, err := f.drafts.GetDraftByID(ctx, item.ID.String())
		require.NoError(t, err)
		assert.Equal(t, item.ID, draft.ID)
	})

	t.Run("new media replaces the old object after commit", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		oldKey := item.MediaKey

		updated, err := f.items.UpdateArchiveItem(ctx, item.ID.String(), &validation.UpdateArchiveItem{}, pngUpload())
		require.NoError(t, err)

		assert.NotEqual(t, oldKey, updated.MediaKey)
		assert.False(t, f.media.Has(oldKey))
		assert.True(t, f.media.Has(updated.MediaKey))
	})

	t.Run("failed update removes the new object and keeps the old one", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		f.db.Fail("ArchiveItems.Update", errors.New("deadlock"))

		_, err := f.items.UpdateArchiveItem(ctx, item.ID.String(), &validation.UpdateArchiveItem{}, pngUpload())
		require.Error(t, err)

		assert.True(t, f.media.Has(item.MediaKey))
		assert.Equal(t, 1, f.media.Len())
	})

	t.Run("old object delete failure does not fail the update", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		f.media.DeleteErr = errors.New("timeout")

		_, err := f.items.UpdateArchiveItem(ctx, item.ID.String(), &validation.UpdateArchiveItem{}, pngUpload())
		assert.NoError(t, err)
	})

	t.Run("unknown collection", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")

		_, err := f.items.UpdateArchiveItem(ctx, item.ID.String(), &validation.UpdateArchiveItem{
			AddCollectionIDs: []string{uuid.NewString()},
		}, nil)
		assertStatus(t, err, fiber.StatusNotFound)
	})

	t.Run("nothing to update", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")

		_, err := f.items.UpdateArchiveItem(ctx, item.ID.String(), &validation.UpdateArchiveItem{}, nil)
		assertStatus(t, err, fiber.StatusBadRequest)
	})
}

func TestDeleteArchiveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("member purges both namespaces and the media", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		other := f.createItem(t, "Lighthouse", "public")
		collectionID := f.createCollection(t, "Maritime", item, other)
		_, err := f.collections.GetCollectionByID(ctx, collectionID)
		require.NoError(t, err)

		require.NoError(t, f.items.DeleteArchiveItem(ctx, item.ID.String()))

		assert.False(t, f.media.Has(item.MediaKey))
		assert.Zero(t, f.namespaceKeys(t, cache.NamespaceCollections))

		res, err := f.collections.GetCollectionByID(ctx, collectionID)
		require.NoError(t, err)
		assert.NotContains(t, string(res.Body), item.ID.String())
	})

	t.Run("media delete failure is not surfaced", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		f.media.DeleteErr = errors.New("timeout")

		require.NoError(t, f.items.DeleteArchiveItem(ctx, item.ID.String()))

		_, err := f.items.GetArchiveItemByID(ctx, item.ID.String())
		assertStatus(t, err, fiber.StatusNotFound)
	})

	t.Run("store failure keeps media and cache", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		f.warm(t)
		f.db.Fail("ArchiveItems.Delete", errors.New("deadlock"))

		require.Error(t, f.items.DeleteArchiveItem(ctx, item.ID.String()))

		assert.True(t, f.media.Has(item.MediaKey))
		assert.Positive(t, f.namespaceKeys(t, cache.NamespaceArchiveItems))
	})
}

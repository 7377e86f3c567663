package service_test

import (
	"context"
	"errors"
	"testing"

	"mediaarchive/src/cache"
	"mediaarchive/src/validation"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCollectionsReadThrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "Harbour map", "public")
	f.createCollection(t, "Maritime", item)

	first, err := f.collections.ListCollections(ctx, &validation.QueryCollections{})
	require.NoError(t, err)
	second, err := f.collections.ListCollections(ctx, &validation.QueryCollections{})
	require.NoError(t, err)

	assert.False(t, first.Hit)
	assert.True(t, second.Hit)
	assert.Equal(t, 1, f.db.Calls("Collections.List"))

	var body struct {
		Count       int `json:"count"`
		Collections []struct {
			Name      string `json:"name"`
			ItemCount int    `json:"itemCount"`
		} `json:"collections"`
	}
	require.NoError(t, sonic.Unmarshal(second.Body, &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "Maritime", body.Collections[0].Name)
	assert.Equal(t, 1, body.Collections[0].ItemCount)
}

func TestListCollectionsCachesEmptyResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.collections.ListCollections(ctx, &validation.QueryCollections{Search: "nothing"})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, f.db.Calls("Collections.List"))
	assert.True(t, f.hasKey(t, cache.CollectionListKey("nothing")))
}

func TestGetCollectionNotFoundIsNotCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.NewString()

	for i := 0; i < 2; i++ {
		_, err := f.collections.GetCollectionByID(ctx, id)
		assertStatus(t, err, fiber.StatusNotFound)
	}

	assert.Equal(t, 2, f.db.Calls("Collections.FindByID"))
	assert.False(t, f.hasKey(t, cache.CollectionKey(id)))
}

func TestGetCollectionInvalidID(t *testing.T) {
	f := newFixture(t)

	_, err := f.collections.GetCollectionByID(context.Background(), "not-a-uuid")

	assertStatus(t, err, fiber.StatusBadRequest)
	assert.Zero(t, f.db.Calls("Collections.FindByID"))
}

func TestCreateCollectionInvalidatesBothNamespaces(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Harbour map", "public")
	f.warm(t)
	require.Positive(t, f.namespaceKeys(t, cache.NamespaceCollections))
	require.Positive(t, f.namespaceKeys(t, cache.NamespaceArchiveItems))

	f.createCollection(t, "Maritime", item)

	assert.Zero(t, f.namespaceKeys(t, cache.NamespaceCollections))
	assert.Zero(t, f.namespaceKeys(t, cache.NamespaceArchiveItems))
}

func TestCreateCollectionShowsUpInNextList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "Harbour map", "public")

	_, err := f.collections.ListCollections(ctx, &validation.QueryCollections{})
	require.NoError(t, err)

	f.createCollection(t, "Maritime", item)

	res, err := f.collections.ListCollections(ctx, &validation.QueryCollections{})
	require.NoError(t, err)
	assert.False(t, res.Hit)
	assert.Contains(t, string(res.Body), "Maritime")
}

func TestCreateCollectionErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "Harbour map", "public")
	f.createCollection(t, "Maritime", item)

	t.Run("duplicate name", func(t *testing.T) {
		_, err := f.collections.CreateCollection(ctx, &validation.CreateCollection{
			Name: "Maritime", Description: "again", ArchiveIDs: []string{item.ID.String()},
		})
		assertStatus(t, err, fiber.StatusConflict)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := f.collections.CreateCollection(ctx, &validation.CreateCollection{
			Name: "Other", Description: "desc", ArchiveIDs: []string{uuid.NewString()},
		})
		assertStatus(t, err, fiber.StatusNotFound)
	})

	t.Run("no items", func(t *testing.T) {
		_, err := f.collections.CreateCollection(ctx, &validation.CreateCollection{
			Name: "Other", Description: "desc",
		})
		assert.Error(t, err)
	})

	t.Run("failed create leaves the cache alone", func(t *testing.T) {
		f.warm(t)
		before := f.namespaceKeys(t, cache.NamespaceCollections)

		f.db.Fail("Collections.Create", errors.New("connection reset"))
		defer f.db.Fail("Collections.Create", nil)

		_, err := f.collections.CreateCollection(ctx, &validation.CreateCollection{
			Name: "Other", Description: "desc", ArchiveIDs: []string{item.ID.String()},
		})
		assert.Error(t, err)
		assert.Equal(t, before, f.namespaceKeys(t, cache.NamespaceCollections))
	})
}

func TestUpdateCollection(t *testing.T) {
	ctx := context.Background()

	t.Run("empty body", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		id := f.createCollection(t, "Maritime", item)

		_, err := f.collections.UpdateCollection(ctx, id, &validation.UpdateCollection{})
		assertStatus(t, err, fiber.StatusBadRequest)
	})

	t.Run("rename purges both namespaces when it has members", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		id := f.createCollection(t, "Maritime", item)

		_, err := f.items.GetArchiveItemByID(ctx, item.ID.String())
		require.NoError(t, err)
		_, err = f.collections.GetCollectionByID(ctx, id)
		require.NoError(t, err)

		name := "Coastal"
		updated, err := f.collections.UpdateCollection(ctx, id, &validation.UpdateCollection{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Coastal", updated.Name)

		assert.False(t, f.hasKey(t, cache.CollectionKey(id)))
		assert.False(t, f.hasKey(t, cache.ArchiveItemKey(item.ID.String())))

		res, err := f.items.GetArchiveItemByID(ctx, item.ID.String())
		require.NoError(t, err)
		assert.Contains(t, string(res.Body), "Coastal")
	})

	t.Run("membership changes", func(t *testing.T) {
		f := newFixture(t)
		first := f.createItem(t, "Harbour map", "public")
		second := f.createItem(t, "Lighthouse", "public")
		id := f.createCollection(t, "Maritime", first)

		updated, err := f.collections.UpdateCollection(ctx, id, &validation.UpdateCollection{
			AddItemIDs:    []string{second.ID.String()},
			RemoveItemIDs: []string{first.ID.String()},
		})
		require.NoError(t, err)
		require.Len(t, updated.Items, 1)
		assert.Equal(t, second.ID, updated.Items[0].ID)
	})

	t.Run("unknown collection", func(t *testing.T) {
		f := newFixture(t)
		name := "Coastal"

		_, err := f.collections.UpdateCollection(ctx, uuid.NewString(), &validation.UpdateCollection{Name: &name})
		assertStatus(t, err, fiber.StatusNotFound)
	})

	t.Run("name taken", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		f.createCollection(t, "Maritime", item)
		id := f.createCollection(t, "Coastal", item)
		name := "Maritime"

		_, err := f.collections.UpdateCollection(ctx, id, &validation.UpdateCollection{Name: &name})
		assertStatus(t, err, fiber.StatusConflict)
	})
}

func TestDeleteCollection(t *testing.T) {
	ctx := context.Background()

	t.Run("purges caches and drops membership", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		id := f.createCollection(t, "Maritime", item)
		f.warm(t)

		require.NoError(t, f.collections.DeleteCollection(ctx, id))

		assert.Zero(t, f.namespaceKeys(t, cache.NamespaceCollections))
		assert.Zero(t, f.namespaceKeys(t, cache.NamespaceArchiveItems))

		_, err := f.collections.GetCollectionByID(ctx, id)
		assertStatus(t, err, fiber.StatusNotFound)

		res, err := f.items.GetArchiveItemByID(ctx, item.ID.String())
		require.NoError(t, err)
		assert.NotContains(t, string(res.Body), "Maritime")
	})

	t.Run("members are taken from the delete itself", func(t *testing.T) {
		f := newFixture(t)
		first := f.createItem(t, "Harbour map", "public")
		second := f.createItem(t, "Lighthouse", "public")
		id := f.createCollection(t, "Maritime", first)

		_, err := f.collections.UpdateCollection(ctx, id, &validation.UpdateCollection{
			RemoveItemIDs: []string{first.ID.String()},
		})
		require.NoError(t, err)

		// A member added after any earlier membership read.
		f.db.AddMember(uuid.MustParse(id), second.ID)
		f.warm(t)
		require.Positive(t, f.namespaceKeys(t, cache.NamespaceArchiveItems))
		itemIDCalls := f.db.Calls("Collections.ItemIDs")

		require.NoError(t, f.collections.DeleteCollection(ctx, id))

		assert.Equal(t, itemIDCalls, f.db.Calls("Collections.ItemIDs"))
		assert.Zero(t, f.namespaceKeys(t, cache.NamespaceArchiveItems))
	})

	t.Run("without members keeps archive items cached", func(t *testing.T) {
		f := newFixture(t)
		item := f.createItem(t, "Harbour map", "public")
		id := f.createCollection(t, "Maritime", item)
		_, err := f.collections.UpdateCollection(ctx, id, &validation.UpdateCollection{
			RemoveItemIDs: []string{item.ID.String()},
		})
		require.NoError(t, err)
		f.warm(t)

		require.NoError(t, f.collections.DeleteCollection(ctx, id))

		assert.Zero(t, f.namespaceKeys(t, cache.NamespaceCollections))
		assert.Positive(t, f.namespaceKeys(t, cache.NamespaceArchiveItems))
	})

	t.Run("missing collection", func(t *testing.T) {
		f := newFixture(t)

		err := f.collections.DeleteCollection(ctx, uuid.NewString())
		assertStatus(t, err, fiber.StatusNotFound)
	})
}

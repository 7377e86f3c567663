package cache_test

import (
	"testing"

	"mediaarchive/src/cache"

	"github.com/stretchr/testify/assert"
)

const categoryA = "6f1c2b7e-4a7d-4d2c-9b3e-1f2a3b4c5d6e"
const categoryB = "0b8f4d2a-1c3e-4f5a-8b7c-9d0e1f2a3b4c"

func TestCollectionListKey(t *testing.T) {
	assert.Equal(t, "collections:none", cache.CollectionListKey(""))
	assert.Equal(t, `collections:"maps"`, cache.CollectionListKey("maps"))
	assert.Equal(t, cache.CollectionListKey("maps"), cache.CollectionListKey("maps"))
	assert.Equal(t, `collections:"old \"maps\""`, cache.CollectionListKey(`old "maps"`))
}

func TestArchiveItemListKey(t *testing.T) {
	assert.Equal(t, "archive_items:all:none", cache.ArchiveItemListKey("", ""))
	assert.Equal(t, "archive_items:"+categoryA+":none", cache.ArchiveItemListKey(categoryA, ""))
	assert.Equal(t, `archive_items:all:"climate"`, cache.ArchiveItemListKey("", "climate"))
}

func TestArchiveItemListKeysAreDistinct(t *testing.T) {
	filters := []struct{ category, search string }{
		{"", ""},
		{"", "none"},
		{"", "all"},
		{"", "climate"},
		{"", "Climate"},
		{"", "climate:none"},
		{categoryA, ""},
		{categoryA, "climate"},
		{categoryB, ""},
		{categoryB, "climate"},
	}

	seen := make(map[string]int)
	for i, f := range filters {
		key := cache.ArchiveItemListKey(f.category, f.search)
		assert.Equal(t, key, cache.ArchiveItemListKey(f.category, f.search), "key must be deterministic")
		if prev, dup := seen[key]; dup {
			t.Errorf("filters %v and %v share key %q", filters[prev], f, key)
		}
		seen[key] = i
	}
}

func TestSearchForNoneDoesNotCollideWithNoSearch(t *testing.T) {
	assert.NotEqual(t, cache.CollectionListKey(""), cache.CollectionListKey("none"))
	assert.NotEqual(t, cache.ArchiveItemListKey("", ""), cache.ArchiveItemListKey("", "none"))
}

func TestSearchCaseIsNotFolded(t *testing.T) {
	assert.NotEqual(t, cache.ArchiveItemListKey("", "climate"), cache.ArchiveItemListKey("", "Climate"))
}

func TestNamespaceOf(t *testing.T) {
	tests := []struct {
		key  string
		want cache.Namespace
	}{
		{cache.CollectionListKey(""), cache.NamespaceCollections},
		{cache.CollectionKey("x"), cache.NamespaceCollections},
		{cache.ArchiveItemListKey("", "q"), cache.NamespaceArchiveItems},
		{cache.ArchiveItemKey("x"), cache.NamespaceArchiveItems},
		{cache.GetSessionKey("u"), cache.NamespaceSessions},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ns, ok := cache.NamespaceOf(tt.key)
			assert.True(t, ok)
			assert.Equal(t, tt.want, ns)
		})
	}

	_, ok := cache.NamespaceOf("unrelated")
	assert.False(t, ok)
}

func TestNamespacePrefixes(t *testing.T) {
	assert.ElementsMatch(t, []string{"collections:", "collection:"}, cache.NamespaceCollections.Prefixes())
	assert.ElementsMatch(t, []string{"archive_items:", "archive_item:"}, cache.NamespaceArchiveItems.Prefixes())
	assert.Nil(t, cache.Namespace("drafts").Prefixes())
}

package cache

import (
	"strconv"
	"strings"
)

// Namespace is a closed set of cache key families that are invalidated together.
type Namespace string

const (
	NamespaceCollections  Namespace = "collections"
	NamespaceArchiveItems Namespace = "archive_items"
	NamespaceSessions     Namespace = "sessions"
)

const (
	// Format: collections:{search|none}
	collectionListPrefix = "collections:"
	// Format: collection:{id}
	collectionPrefix = "collection:"
	// Format: archive_items:{categoryID|all}:{search|none}
	archiveItemListPrefix = "archive_items:"
	// Format: archive_item:{id}
	archiveItemPrefix = "archive_item:"
	// Format: session:user:{userID}
	SessionKeyPrefix = "session:user:"

	noSearch      = "none"
	allCategories = "all"
)

var namespacePrefixes = map[Namespace][]string{
	NamespaceCollections:  {collectionListPrefix, collectionPrefix},
	NamespaceArchiveItems: {archiveItemListPrefix, archiveItemPrefix},
	NamespaceSessions:     {SessionKeyPrefix},
}

// Prefixes returns the key prefixes owned by n, or nil for an unknown namespace.
func (n Namespace) Prefixes() []string {
	prefixes := namespacePrefixes[n]
	if prefixes == nil {
		return nil
	}
	return append([]string(nil), prefixes...)
}

// NamespaceOf reports which namespace a key belongs to.
func NamespaceOf(key string) (Namespace, bool) {
	for ns, prefixes := range namespacePrefixes {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				return ns, true
			}
		}
	}
	return "", false
}

// CollectionListKey returns the key for GET /collections?search=. A present
// search term is Go-quoted with strconv.Quote, so search "Test" gives
// `collections:"Test"` and an empty search gives `collections:none`.
func CollectionListKey(search string) string {
	return collectionListPrefix + searchSegment(search)
}

// CollectionKey returns the key for GET /collections/:id.
func CollectionKey(id string) string {
	return collectionPrefix + id
}

// ArchiveItemListKey returns the key for GET /archive-items?categoryId=&search=.
// categoryID must be empty or a UUID; category always precedes search. The
// search segment is quoted as in CollectionListKey, e.g.
// `archive_items:all:"lamp"` or `archive_items:<categoryID>:none`.
func ArchiveItemListKey(categoryID, search string) string {
	category := categoryID
	if category == "" {
		category = allCategories
	}
	return archiveItemListPrefix + category + ":" + searchSegment(search)
}

// ArchiveItemKey returns the key for GET /archive-items/:id.
func ArchiveItemKey(id string) string {
	return archiveItemPrefix + id
}

// GetSessionKey returns user session cache key
func GetSessionKey(userID string) string {
	return SessionKeyPrefix + userID
}

// searchSegment quotes a present search term so that a literal search for
// "none" never shares a key with the absent filter. Case is not folded.
func searchSegment(search string) string {
	if search == "" {
		return noSearch
	}
	return strconv.Quote(search)
}

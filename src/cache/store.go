// Package cache implements the read-through response cache that sits in front
// of the collection and archive-item queries, and the namespace invalidation
// that keeps it consistent with the database.
package cache

import (
	"context"
	"time"
)

// Store is a key/value map with per-entry TTL and key enumeration.
//
// Get never extends a TTL and reports a missing key as ok=false, not as an
// error. Set overwrites unconditionally; a ttl <= 0 means the store default.
// Keys returns a point-in-time snapshot of live keys. Delete is idempotent.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Keys(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, keys ...string) error
}

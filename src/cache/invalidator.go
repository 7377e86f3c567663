package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// CacheInvalidator removes every key of a namespace from a Store.
type CacheInvalidator struct {
	store   Store
	metrics *Metrics
	reader  *ReadThrough
}

// NewCacheInvalidator creates an invalidator over store. reader, when not nil,
// is told about every namespace invalidation so that loads already in flight
// do not write their results back. It must share store with reader.
func NewCacheInvalidator(store Store, metrics *Metrics, reader *ReadThrough) *CacheInvalidator {
	return &CacheInvalidator{store: store, metrics: metrics, reader: reader}
}

// Invalidate deletes every key owned by ns. Keys of other namespaces are
// untouched. Calling it on an empty store is a no-op.
func (ci *CacheInvalidator) Invalidate(ctx context.Context, ns Namespace) error {
	prefixes := ns.Prefixes()
	if prefixes == nil {
		return fmt.Errorf("unknown cache namespace %q", ns)
	}

	ci.reader.advance(ns)

	n, err := ci.InvalidateByPrefix(ctx, prefixes...)
	if err != nil {
		return fmt.Errorf("invalidate %s: %w", ns, err)
	}
	ci.metrics.invalidate(ns, n)
	logrus.Debugf("Invalidated %d cache keys in namespace %s", n, ns)
	return nil
}

// InvalidateNamespaces runs Invalidate for each namespace after a committed
// mutation. Failures are logged and never returned; the stale entries expire
// with their TTL.
func (ci *CacheInvalidator) InvalidateNamespaces(ctx context.Context, namespaces ...Namespace) {
	if ci == nil {
		return
	}
	for _, ns := range namespaces {
		if err := ci.Invalidate(ctx, ns); err != nil {
			ci.metrics.storeError("invalidate")
			logrus.Warnf("Cache invalidation failed for namespace %s: %v", ns, err)
		}
	}
}

// InvalidateByPrefix deletes all keys of the current snapshot that start with
// one of the prefixes and returns how many were matched. Unlike Invalidate it
// does not stop loads already in flight from refilling those keys.
func (ci *CacheInvalidator) InvalidateByPrefix(ctx context.Context, prefixes ...string) (int, error) {
	if ci == nil || ci.store == nil {
		return 0, nil
	}

	keys, err := ci.store.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("list keys: %w", err)
	}

	var matched []string
	for _, key := range keys {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				matched = append(matched, key)
				break
			}
		}
	}

	if len(matched) == 0 {
		return 0, nil
	}
	if err := ci.store.Delete(ctx, matched...); err != nil {
		return 0, fmt.Errorf("failed to delete keys: %w", err)
	}
	return len(matched), nil
}

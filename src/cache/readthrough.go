package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Loader builds the response payload for a key on a cache miss.
type Loader func(ctx context.Context) (any, error)

// Result is a serialized payload and whether it came from the cache.
type Result struct {
	Body []byte
	Hit  bool
}

// ReadThrough serves cached payloads and populates the cache on a miss.
// Only successful loads are stored. Concurrent misses on one key share a
// single load.
//
// Every namespace carries a generation that the CacheInvalidator advances
// before it deletes keys. A load only fills the cache if the generation it
// started under is still current, and callers arriving after an invalidation
// never join a load that began before it.
type ReadThrough struct {
	store   Store
	ttl     time.Duration
	metrics *Metrics
	group   singleflight.Group

	genMu sync.RWMutex
	gens  map[Namespace]uint64
}

// NewReadThrough creates a read-through cache over store. ttl <= 0 uses the
// store default.
func NewReadThrough(store Store, ttl time.Duration, metrics *Metrics) *ReadThrough {
	return &ReadThrough{
		store:   store,
		ttl:     ttl,
		metrics: metrics,
		gens:    make(map[Namespace]uint64),
	}
}

// Fetch returns the cached payload for key or runs load, stores its JSON
// encoding and returns it. A cache read error is treated as a miss and a cache
// write error is logged; neither reaches the caller. Errors from load are
// returned as is.
func (rt *ReadThrough) Fetch(ctx context.Context, key string, load Loader) (Result, error) {
	ns, _ := NamespaceOf(key)
	gen := rt.generation(ns)

	body, ok, err := rt.store.Get(ctx, key)
	if err != nil {
		rt.metrics.storeError("get")
		logrus.Warnf("Cache get failed for key %s: %v", key, err)
	}
	if err == nil && ok {
		rt.metrics.hit(ns)
		return Result{Body: body, Hit: true}, nil
	}
	rt.metrics.miss(ns)

	// The load is shared by every waiter on key, so it must outlive the
	// request that happened to start it.
	loadCtx := context.WithoutCancel(ctx)
	flight := key + "#" + strconv.FormatUint(gen, 10)
	v, err, _ := rt.group.Do(flight, func() (any, error) {
		payload, err := load(loadCtx)
		if err != nil {
			return nil, err
		}

		data, err := sonic.Marshal(payload)
		if err != nil {
			return nil, err
		}

		rt.fill(loadCtx, ns, gen, key, data)
		return data, nil
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Body: v.([]byte)}, nil
}

// fill stores data unless ns was invalidated after the load began. The read
// lock keeps advance from running between the check and the write.
func (rt *ReadThrough) fill(ctx context.Context, ns Namespace, gen uint64, key string, data []byte) {
	rt.genMu.RLock()
	defer rt.genMu.RUnlock()

	if rt.gens[ns] != gen {
		logrus.Debugf("Skipping cache fill for key %s: namespace %s was invalidated during the load", key, ns)
		return
	}
	if err := rt.store.Set(ctx, key, data, rt.ttl); err != nil {
		rt.metrics.storeError("set")
		logrus.Warnf("Cache set failed for key %s: %v", key, err)
	}
}

func (rt *ReadThrough) generation(ns Namespace) uint64 {
	rt.genMu.RLock()
	defer rt.genMu.RUnlock()
	return rt.gens[ns]
}

// advance starts a new generation for ns. It must run before the keys of ns
// are deleted.
func (rt *ReadThrough) advance(ns Namespace) {
	if rt == nil {
		return
	}
	rt.genMu.Lock()
	rt.gens[ns]++
	rt.genMu.Unlock()
}

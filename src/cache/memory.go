package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// MemoryStore is the process-local Store, backed by go-cache. Expired entries
// are invisible to Get and Keys immediately and are physically removed by a
// background sweep.
//
// Entries also carry their own deadline, checked against the store clock, so
// expiry follows WithClock in tests while go-cache keeps its wall-clock TTL.
type MemoryStore struct {
	items      *gocache.Cache
	defaultTTL time.Duration
	now        func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates a store and, when sweepInterval > 0, starts the
// expiry sweeper. Call Close to stop it.
func NewMemoryStore(defaultTTL, sweepInterval time.Duration, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		// The sweep below replaces the go-cache janitor, which cannot be
		// stopped explicitly.
		items:      gocache.New(defaultTTL, 0),
		defaultTTL: defaultTTL,
		now:        time.Now,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if sweepInterval > 0 {
		go s.sweep(sweepInterval)
	} else {
		close(s.done)
	}

	return s
}

func (s *MemoryStore) lookup(key string) (memoryEntry, bool) {
	v, ok := s.items.Get(key)
	if !ok {
		return memoryEntry{}, false
	}
	e, ok := v.(memoryEntry)
	if !ok || e.expired(s.now()) {
		return memoryEntry{}, false
	}
	return e, true
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := s.lookup(key)
	if !ok {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.items.Set(key, memoryEntry{value: value, expiresAt: s.now().Add(ttl)}, ttl)
	return nil
}

func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	now := s.now()
	snapshot := s.items.Items()

	keys := make([]string, 0, len(snapshot))
	for k, item := range snapshot {
		if e, ok := item.Object.(memoryEntry); ok && !e.expired(now) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.items.Delete(k)
	}
	return nil
}

// DeleteExpired removes every entry past its TTL and returns how many were
// removed. The count is approximate while other goroutines write.
func (s *MemoryStore) DeleteExpired() int {
	before := s.items.ItemCount()

	now := s.now()
	for k, item := range s.items.Items() {
		if e, ok := item.Object.(memoryEntry); ok && e.expired(now) {
			s.items.Delete(k)
		}
	}
	s.items.DeleteExpired()

	if removed := before - s.items.ItemCount(); removed > 0 {
		return removed
	}
	return 0
}

// Len counts stored entries, including expired ones not yet swept.
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}

// Close stops the sweeper. It is safe to call more than once.
func (s *MemoryStore) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *MemoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.DeleteExpired(); n > 0 {
				logrus.Debugf("Cache sweep removed %d expired entries", n)
			}
		}
	}
}

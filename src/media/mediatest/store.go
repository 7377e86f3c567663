// Package mediatest provides an in-memory media.Store for tests.
package mediatest

import (
	"context"
	"io"
	"sync"

	"mediaarchive/src/media"
)

type Store struct {
	mu      sync.Mutex
	objects map[string][]byte

	// UploadErr and DeleteErr, when set, are returned by every call.
	UploadErr error
	DeleteErr error

	Uploaded []string
	Deleted  []string
}

func NewStore() *Store {
	return &Store{objects: make(map[string][]byte)}
}

func (s *Store) Upload(_ context.Context, r io.Reader, _ int64, contentType string) (media.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UploadErr != nil {
		return media.Object{}, s.UploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return media.Object{}, err
	}

	kind := media.KindFromMIME(contentType)
	key := media.ObjectKey(kind, contentType)
	s.objects[key] = data
	s.Uploaded = append(s.Uploaded, key)

	return media.Object{Key: key, URL: "https://media.test/archive/" + key, Kind: kind}, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Deleted = append(s.Deleted, key)
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.objects, key)
	return nil
}

// Has reports whether key is currently stored.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

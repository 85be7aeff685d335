package memory

import (
	"context"
	"sync"

	"tally/internal/kv"
)

type Store struct {
	mu     sync.Mutex
	items  map[string]string
	closed bool
}

func New() *Store {
	return &Store{items: map[string]string{}}
}

// NewWithValues seeds the store, mostly for tests.
func NewWithValues(values map[string]string) *Store {
	s := New()
	for k, v := range values {
		s.items[k] = v
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, kv.ErrClosed
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kv.ErrClosed
	}
	s.items[key] = value
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// internal/store/memory.go
//
// In-memory stores.
//   - Sessions[T]: live game sessions keyed by id, for the HTTP layer.
//   - memoryKV: the default ledger backend.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Get returns ErrNotFound for missing ids/keys.

package store

import (
	"context"
	"sync"
)

// Sessions is a map of live sessions keyed by id. It only guards the map;
// callers serialize access to each session value themselves.
type Sessions[T any] struct {
	mu    sync.RWMutex // guards items
	items map[string]T
}

func NewSessions[T any]() *Sessions[T] {
	return &Sessions[T]{items: make(map[string]T)}
}

// Save adds or replaces the session under id.
func (s *Sessions[T]) Save(_ context.Context, id string, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = v
	return nil
}

// Get looks up a session by id.
func (s *Sessions[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.items[id]; ok {
		return v, nil
	}
	var zero T
	return zero, ErrNotFound
}

func (s *Sessions[T]) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

func (s *Sessions[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

type memoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV constructs an empty in-memory KV.
func NewMemoryKV() KV {
	return &memoryKV{data: make(map[string]string)}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryKV) Close() error { return nil }

// Package memory provides an in-process core.Storage, used by tests and by
// callers that do not need notes to outlive the process.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/scratchpad/pkg/core"
)

// Storage implements core.Storage in memory.
type Storage struct {
	mu    sync.RWMutex
	items map[string]string

	// FailWrites makes SetItem and RemoveItem return this error when set.
	FailWrites error
}

// New creates an empty Storage.
func New() *Storage {
	return &Storage{items: make(map[string]string)}
}

// Seed stores a raw value, bypassing the Store (e.g. to plant corrupt data).
func (s *Storage) Seed(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// Raw returns the raw value stored under key.
func (s *Storage) Raw(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

func (s *Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.items[key] = value
	return nil
}

func (s *Storage) RemoveItem(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	delete(s.items, key)
	return nil
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "memory"
}

var _ core.Storage = (*Storage)(nil)

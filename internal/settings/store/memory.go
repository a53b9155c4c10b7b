package store

import (
	"context"
	"sync"

	"onsite/internal/settings"
)

// InMemoryStore is the test double for the settings store.
type InMemoryStore struct {
	mu      sync.RWMutex
	current settings.Settings
	loaded  bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Load(_ context.Context) (settings.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return settings.Defaults(), nil
	}
	return s.current.Normalize(), nil
}

func (s *InMemoryStore) Update(_ context.Context, in settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = in.Normalize()
	s.loaded = true
	return nil
}

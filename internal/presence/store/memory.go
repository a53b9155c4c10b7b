// Package store provides the presence-record stores: one row per person,
// last write wins. Postgres is the default backend; Redis serves
// multi-instance deployments; the in-memory store backs tests.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"onsite/internal/presence/models"
)

// InMemoryStore keeps presence records in a map.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]models.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[uuid.UUID]models.Record)}
}

// Upsert overwrites the record for the person. Last write wins.
func (s *InMemoryStore) Upsert(_ context.Context, rec models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.PersonID] = rec
	return nil
}

// All returns every presence record.
func (s *InMemoryStore) All(_ context.Context) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}

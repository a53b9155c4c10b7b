package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"onsite/internal/roster/models"
)

// InMemoryStore is the test double for the roster store.
type InMemoryStore struct {
	mu        sync.RWMutex
	scheduled []models.Scheduled
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Add registers a person with shifts in stored order.
func (s *InMemoryStore) Add(person models.Person, shifts ...models.Shift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, models.Scheduled{Person: person, Shifts: shifts})
}

func (s *InMemoryStore) ListScheduled(_ context.Context, windowStart, windowEnd time.Time) ([]models.Scheduled, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Scheduled
	for _, sc := range s.scheduled {
		for _, shift := range sc.Shifts {
			if shift.Overlaps(windowStart, windowEnd) {
				copied := models.Scheduled{Person: sc.Person, Shifts: append([]models.Shift{}, sc.Shifts...)}
				out = append(out, copied)
				break
			}
		}
	}
	return out, nil
}

func (s *InMemoryStore) GetPeople(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make(map[uuid.UUID]models.Person)
	for _, sc := range s.scheduled {
		if want[sc.Person.ID] {
			out[sc.Person.ID] = sc.Person
		}
	}
	return out, nil
}

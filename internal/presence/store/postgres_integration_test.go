//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onsite/internal/presence/models"
	"onsite/pkg/testutil/containers"
)

func TestPostgresUpsertAndAll(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()
	st := NewPostgres(pg.DB)

	personID := uuid.New()
	first := models.Record{
		PersonID: personID,
		LastSeen: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
		Door:     "front",
	}
	require.NoError(t, st.Upsert(ctx, first))

	// A later scan for the same person replaces the row.
	second := models.Record{
		PersonID: personID,
		LastSeen: time.Date(2026, 3, 3, 12, 30, 0, 0, time.UTC),
		Door:     "back",
	}
	require.NoError(t, st.Upsert(ctx, second))

	other := models.Record{
		PersonID: uuid.New(),
		LastSeen: time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
		Door:     "front",
	}
	require.NoError(t, st.Upsert(ctx, other))

	records, err := st.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byPerson := map[uuid.UUID]models.Record{}
	for _, rec := range records {
		byPerson[rec.PersonID] = rec
	}
	got := byPerson[personID]
	assert.Equal(t, "back", got.Door)
	assert.True(t, got.LastSeen.Equal(second.LastSeen))
}

func TestPostgresAllEmpty(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	st := NewPostgres(pg.DB)

	records, err := st.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"onsite/internal/roster/models"
)

// PostgresStore reads the directory and schedule tables maintained by the
// upstream sync.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed roster store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListScheduled returns active facilitators that have at least one shift
// overlapping the closed window [windowStart, windowEnd], each with their
// full shift list in stored order. People whose directory row is missing
// or inactive never appear: the inner join skips orphaned schedule rows.
func (s *PostgresStore) ListScheduled(ctx context.Context, windowStart, windowEnd time.Time) ([]models.Scheduled, error) {
	const query = `
		SELECT p.id, p.name, p.photo_url, p.focus, sh.starts_at, sh.ends_at
		FROM people p
		JOIN shifts sh ON sh.person_id = p.id
		WHERE p.role = $1
		  AND p.active
		  AND EXISTS (
			SELECT 1 FROM shifts o
			WHERE o.person_id = p.id
			  AND o.starts_at <= $3
			  AND o.ends_at >= $2
		  )
		ORDER BY p.id, sh.position, sh.id
	`
	rows, err := s.db.QueryContext(ctx, query, models.RoleFacilitator, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("list scheduled facilitators: %w", err)
	}
	defer rows.Close()

	var out []models.Scheduled
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			person models.Person
			shift  models.Shift
		)
		if err := rows.Scan(&person.ID, &person.Name, &person.Photo, &person.Focus, &shift.Start, &shift.End); err != nil {
			return nil, fmt.Errorf("scan scheduled row: %w", err)
		}
		i, ok := index[person.ID]
		if !ok {
			i = len(out)
			index[person.ID] = i
			out = append(out, models.Scheduled{Person: person})
		}
		out[i].Shifts = append(out[i].Shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scheduled rows: %w", err)
	}
	return out, nil
}

// GetPeople returns the active facilitators among ids. IDs without a
// matching directory row are simply absent from the result; callers treat
// them as orphaned presence data and skip them.
func (s *PostgresStore) GetPeople(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Person, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Person{}, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	const query = `
		SELECT id, name, photo_url, focus
		FROM people
		WHERE role = $1 AND active AND id = ANY($2::uuid[])
	`
	rows, err := s.db.QueryContext(ctx, query, models.RoleFacilitator, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("get people: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]models.Person, len(ids))
	for rows.Next() {
		var person models.Person
		if err := rows.Scan(&person.ID, &person.Name, &person.Photo, &person.Focus); err != nil {
			return nil, fmt.Errorf("scan person row: %w", err)
		}
		out[person.ID] = person
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people rows: %w", err)
	}
	return out, nil
}

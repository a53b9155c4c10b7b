package store

import (
	"context"
	"database/sql"
	"fmt"

	"onsite/internal/presence/models"
)

// PostgresStore persists presence records in the presence_records table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed presence store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Upsert writes the latest scan for a person. A single INSERT .. ON
// CONFLICT keeps concurrent scans last-write-wins with no
// read-modify-write window.
func (s *PostgresStore) Upsert(ctx context.Context, rec models.Record) error {
	const query = `
		INSERT INTO presence_records (person_id, last_seen, door)
		VALUES ($1, $2, $3)
		ON CONFLICT (person_id) DO UPDATE SET
			last_seen = EXCLUDED.last_seen,
			door = EXCLUDED.door
	`
	if _, err := s.db.ExecContext(ctx, query, rec.PersonID, rec.LastSeen, rec.Door); err != nil {
		return fmt.Errorf("upsert presence record: %w", err)
	}
	return nil
}

// All returns every presence record. The table holds one row per person
// ever scanned, so this stays small.
func (s *PostgresStore) All(ctx context.Context) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT person_id, last_seen, door FROM presence_records`)
	if err != nil {
		return nil, fmt.Errorf("list presence records: %w", err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.PersonID, &rec.LastSeen, &rec.Door); err != nil {
			return nil, fmt.Errorf("scan presence record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presence records: %w", err)
	}
	return out, nil
}

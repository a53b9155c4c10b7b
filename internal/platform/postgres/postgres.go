// Package postgres opens the shared database handle and owns the schema.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Schema is the full DDL for the tables this service reads and writes.
// The people and shifts tables are populated by the upstream directory
// and scheduling sync; presence_records and display_settings are owned
// here. Applied by Migrate and by the integration test containers.
//
// shifts and presence_records deliberately carry no foreign keys: the
// upstream sync may delete a person before its dependent rows, and the
// feed query skips such orphans via its join instead of failing writes.
const Schema = `
CREATE TABLE IF NOT EXISTS people (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	photo_url  TEXT NOT NULL DEFAULT '',
	focus      TEXT NOT NULL DEFAULT '',
	role       TEXT NOT NULL DEFAULT 'facilitator',
	active     BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS shifts (
	id         BIGSERIAL PRIMARY KEY,
	person_id  UUID NOT NULL,
	starts_at  TIMESTAMPTZ NOT NULL,
	ends_at    TIMESTAMPTZ NOT NULL,
	position   INT NOT NULL DEFAULT 0,
	CHECK (starts_at <= ends_at)
);
CREATE INDEX IF NOT EXISTS shifts_person_idx ON shifts (person_id, position);
CREATE INDEX IF NOT EXISTS shifts_window_idx ON shifts (starts_at, ends_at);

CREATE TABLE IF NOT EXISTS presence_records (
	person_id  UUID PRIMARY KEY,
	last_seen  TIMESTAMPTZ NOT NULL,
	door       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS display_settings (
	id                    SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	presence_timeout      INT NOT NULL DEFAULT 14400,
	refresh_interval      INT NOT NULL DEFAULT 30,
	code_word             TEXT NOT NULL DEFAULT '',
	background_image_url  TEXT NOT NULL DEFAULT '',
	custom_css            TEXT NOT NULL DEFAULT ''
);
`

// Migrate applies the schema. Idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

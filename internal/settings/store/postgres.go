// Package store persists display settings. Single-row table; a missing
// row means defaults.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"onsite/internal/settings"
)

// PostgresStore reads and writes the display_settings row.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed settings store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load returns the current settings, falling back to defaults when no
// row has been written yet.
func (s *PostgresStore) Load(ctx context.Context) (settings.Settings, error) {
	const query = `
		SELECT presence_timeout, refresh_interval, code_word, background_image_url, custom_css
		FROM display_settings
		WHERE id = 1
	`
	var out settings.Settings
	err := s.db.QueryRowContext(ctx, query).Scan(
		&out.PresenceTimeout,
		&out.RefreshInterval,
		&out.CodeWord,
		&out.BackgroundImageURL,
		&out.CustomCSS,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Defaults(), nil
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return out.Normalize(), nil
}

// Update overwrites the settings row atomically.
func (s *PostgresStore) Update(ctx context.Context, in settings.Settings) error {
	in = in.Normalize()
	const query = `
		INSERT INTO display_settings (id, presence_timeout, refresh_interval, code_word, background_image_url, custom_css)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			presence_timeout = EXCLUDED.presence_timeout,
			refresh_interval = EXCLUDED.refresh_interval,
			code_word = EXCLUDED.code_word,
			background_image_url = EXCLUDED.background_image_url,
			custom_css = EXCLUDED.custom_css
	`
	if _, err := s.db.ExecContext(ctx, query,
		in.PresenceTimeout, in.RefreshInterval, in.CodeWord, in.BackgroundImageURL, in.CustomCSS,
	); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

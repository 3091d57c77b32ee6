// Package keymeta records the key-version history of a deployment in a small
// SQLite database. The crypto core itself only ever sees the version numbers
// from configuration; this store exists for the operational tooling, which
// needs to answer "when was version N activated and is the rotation runbook
// finished" without access to application logs.
package keymeta

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// KeyVersion is one row of rotation history.
type KeyVersion struct {
	Version     int
	InstalledAt time.Time
	RetiredAt   *time.Time
}

// Store persists key-version history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the key metadata database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key metadata database: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS key_versions (
			version INTEGER PRIMARY KEY,
			installed_at TIMESTAMP NOT NULL,
			retired_at TIMESTAMP
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create key_versions table: %w", err)
	}
	return &Store{db: db}, nil
}

// RecordActivation marks version as the active key version, retiring every
// lower version that is not yet retired. Recording an already-known version
// is a no-op, so the admin tool can call this idempotently after a restart.
func (s *Store) RecordActivation(ctx context.Context, version int) error {
	if version < 1 {
		return fmt.Errorf("key version must be positive, got %d", version)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO key_versions (version, installed_at) VALUES (?, ?)
		ON CONFLICT(version) DO NOTHING
	`, version, now); err != nil {
		return fmt.Errorf("failed to record key version %d: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE key_versions SET retired_at = ?
		WHERE version < ? AND retired_at IS NULL
	`, now, version); err != nil {
		return fmt.Errorf("failed to retire superseded key versions: %w", err)
	}
	return tx.Commit()
}

// CurrentVersion returns the highest recorded version, or 0 when the store is
// empty.
func (s *Store) CurrentVersion(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT version FROM key_versions ORDER BY version DESC LIMIT 1
	`)
	var version int
	err := row.Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("failed to read current key version: %w", err)
	}
	return version, nil
}

// History returns all recorded versions, newest first.
func (s *Store) History(ctx context.Context) ([]KeyVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT version, installed_at, retired_at
		FROM key_versions ORDER BY version DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read key version history: %w", err)
	}
	defer rows.Close()

	var history []KeyVersion
	for rows.Next() {
		var kv KeyVersion
		if err := rows.Scan(&kv.Version, &kv.InstalledAt, &kv.RetiredAt); err != nil {
			return nil, fmt.Errorf("failed to scan key version row: %w", err)
		}
		history = append(history, kv)
	}
	return history, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/careward/phicrypt"
)

// sqliteEnvelopeStore adapts one SQLite table of serialized envelopes to the
// phicrypt.EnvelopeStore interface so the migrate command can walk it. The
// table and column names come from phicrypt.yaml; the data column holds the
// envelope's JSON wire shape (current or legacy).
type sqliteEnvelopeStore struct {
	db         *sql.DB
	table      string
	idColumn   string
	dataColumn string
}

func openEnvelopeStore(cfg MigrationConfig) (*sqliteEnvelopeStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("migration.db_path is not configured")
	}
	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open envelope database: %w", err)
	}
	return &sqliteEnvelopeStore{
		db:         db,
		table:      cfg.Table,
		idColumn:   cfg.IDColumn,
		dataColumn: cfg.DataColumn,
	}, nil
}

func (s *sqliteEnvelopeStore) Scan(ctx context.Context, fn func(id string, env phicrypt.Envelope) error) error {
	query := fmt.Sprintf("SELECT %s, %s FROM %s", s.idColumn, s.dataColumn, s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to scan envelope table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   string
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return fmt.Errorf("failed to scan envelope row: %w", err)
		}
		env, err := phicrypt.ParseEnvelope([]byte(data))
		if err != nil {
			return fmt.Errorf("record %s: %w", id, err)
		}
		if err := fn(id, env); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *sqliteEnvelopeStore) Update(ctx context.Context, id string, env phicrypt.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to serialize envelope for record %s: %w", id, err)
	}
	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?", s.table, s.dataColumn, s.idColumn)
	if _, err := s.db.ExecContext(ctx, query, string(data), id); err != nil {
		return fmt.Errorf("failed to update record %s: %w", id, err)
	}
	return nil
}

func (s *sqliteEnvelopeStore) Close() error {
	return s.db.Close()
}

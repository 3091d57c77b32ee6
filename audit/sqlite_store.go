package audit

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists ledger records in a single SQLite table. The sequence
// column is the rowid, so append order and verification order coincide.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the ledger database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit ledger database: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_records (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			ts TIMESTAMP NOT NULL,
			action TEXT NOT NULL,
			actor TEXT NOT NULL,
			payload TEXT NOT NULL,
			payload_hash TEXT NOT NULL,
			chain_hash TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit_records table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append persists one record.
func (s *SQLiteStore) Append(ctx context.Context, rec Record, serializedPayload string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_records (id, ts, action, actor, payload, payload_hash, chain_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Timestamp, rec.Action, rec.Actor, serializedPayload, rec.PayloadHash, rec.ChainHash)
	if err != nil {
		return 0, fmt.Errorf("failed to insert audit record: %w", err)
	}
	return res.LastInsertId()
}

// HeadHash returns the chain hash of the newest record, "" for an empty
// ledger.
func (s *SQLiteStore) HeadHash(ctx context.Context) (string, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT chain_hash FROM audit_records ORDER BY seq DESC LIMIT 1
	`)
	var head string
	err := row.Scan(&head)
	if err == sql.ErrNoRows {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to read ledger head: %w", err)
	}
	return head, nil
}

// Window returns up to limit records from the start of the ledger, in append
// order. limit <= 0 returns everything.
func (s *SQLiteStore) Window(ctx context.Context, limit int) ([]Record, []string, error) {
	query := `
		SELECT seq, id, ts, action, actor, payload, payload_hash, chain_hash
		FROM audit_records ORDER BY seq ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var (
		records  []Record
		payloads []string
	)
	for rows.Next() {
		var (
			rec        Record
			serialized string
		)
		if err := rows.Scan(&rec.Seq, &rec.ID, &rec.Timestamp, &rec.Action, &rec.Actor, &serialized, &rec.PayloadHash, &rec.ChainHash); err != nil {
			return nil, nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, rec)
		payloads = append(payloads, serialized)
	}
	return records, payloads, rows.Err()
}

// Count returns the total number of records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_records`)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return count, nil
}

// Tamper rewrites the stored payload of the record at seq. Exists for
// integrity-check testing only; production code has no reason to call it.
func (s *SQLiteStore) Tamper(ctx context.Context, seq int64, newPayload string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE audit_records SET payload = ? WHERE seq = ?
	`, newPayload, seq)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

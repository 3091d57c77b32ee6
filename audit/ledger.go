// Package audit implements a tamper-evident, append-only audit ledger on top
// of the hash-chain primitives in the root package. Each appended record
// stores the serialized payload, its content hash, and a chain hash that
// folds in the previous record's chain hash; mutating any historical row
// breaks verification from that row onward.
//
// The ledger does not prevent modification of the underlying store. It makes
// modification detectable, which is the guarantee access-log reviews need.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careward/phicrypt"
)

// Record is one audit ledger entry.
type Record struct {
	Seq         int64             `json:"-"`
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Action      string            `json:"action"`
	Actor       string            `json:"actor"`
	Details     map[string]string `json:"details,omitempty"`
	PayloadHash string            `json:"payloadHash"`
	ChainHash   string            `json:"chainHash"`
}

// payload is the canonical serialized form that gets hashed and chained.
// Hashes cover the payload, not the stored row, so the hash inputs are
// reproducible by the verifier. json.Marshal emits map keys sorted, which
// keeps the serialization stable.
type payload struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Action    string            `json:"action"`
	Actor     string            `json:"actor"`
	Details   map[string]string `json:"details,omitempty"`
}

// Store is the persistence interface the ledger appends to and verifies
// against.
type Store interface {
	// Append persists a record and returns its sequence number.
	Append(ctx context.Context, rec Record, serializedPayload string) (int64, error)
	// HeadHash returns the chain hash of the newest record, or "" when the
	// ledger is empty.
	HeadHash(ctx context.Context) (string, error)
	// Window returns up to limit records from the start of the ledger in
	// append order, with their stored serialized payloads.
	Window(ctx context.Context, limit int) ([]Record, []string, error)
	// Count returns the total number of records.
	Count(ctx context.Context) (int, error)
}

// Ledger appends and verifies chained audit records.
type Ledger struct {
	store Store
}

// NewLedger creates a ledger over the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Append serializes one audit event, chains it onto the current head, and
// persists it. Appends must be serialized by the caller (or the store): two
// concurrent appends against the same head would fork the chain.
func (l *Ledger) Append(ctx context.Context, action, actor string, details map[string]string) (Record, error) {
	rec := Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		Actor:     actor,
		Details:   details,
	}

	serialized, err := json.Marshal(payload{
		ID:        rec.ID,
		Timestamp: rec.Timestamp,
		Action:    rec.Action,
		Actor:     rec.Actor,
		Details:   rec.Details,
	})
	if err != nil {
		return Record{}, fmt.Errorf("failed to serialize audit payload: %w", err)
	}

	head, err := l.store.HeadHash(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read ledger head: %w", err)
	}

	rec.PayloadHash = phicrypt.Hash(string(serialized))
	rec.ChainHash = phicrypt.ChainHash(string(serialized), head)

	seq, err := l.store.Append(ctx, rec, string(serialized))
	if err != nil {
		return Record{}, fmt.Errorf("failed to append audit record: %w", err)
	}
	rec.Seq = seq
	return rec, nil
}

// VerificationReport is the integrity-check result over a bounded window.
type VerificationReport struct {
	Valid          bool `json:"valid"`
	CheckedRecords int  `json:"checkedRecords"`
	TotalRecords   int  `json:"totalRecords"`
	FirstBreak     int  `json:"firstBreak"`
}

// Verify recomputes the chain over the first limit records (all records when
// limit <= 0) and reports the first point of divergence. FirstBreak is the
// 1-indexed sequence position of the first tampered record, 0 when the window
// is intact.
func (l *Ledger) Verify(ctx context.Context, limit int) (VerificationReport, error) {
	records, payloads, err := l.store.Window(ctx, limit)
	if err != nil {
		return VerificationReport{}, fmt.Errorf("failed to load ledger window: %w", err)
	}
	total, err := l.store.Count(ctx)
	if err != nil {
		return VerificationReport{}, fmt.Errorf("failed to count ledger records: %w", err)
	}

	entries := make([]phicrypt.ChainEntry, len(records))
	for i := range records {
		entries[i] = phicrypt.ChainEntry{
			Content:   payloads[i],
			ChainHash: records[i].ChainHash,
		}
	}

	result := phicrypt.VerifyChain(entries, "")
	return VerificationReport{
		Valid:          result.Valid,
		CheckedRecords: result.CheckedRecords,
		TotalRecords:   total,
		FirstBreak:     result.FirstBreak,
	}, nil
}

package phicrypt

import (
	"context"
	"fmt"
	"sync"
)

// EnvelopeStore is the coordinator's view of wherever envelopes live. The
// persistence layer adapts its schema to this; the migration job never sees
// columns or tables.
type EnvelopeStore interface {
	// Scan invokes fn for every stored envelope. Returning an error from fn
	// aborts the scan.
	Scan(ctx context.Context, fn func(id string, env Envelope) error) error
	// Update replaces the stored envelope for id.
	Update(ctx context.Context, id string, env Envelope) error
}

// MigrationReport summarizes one MigrateAll run.
type MigrationReport struct {
	Scanned  int `json:"scanned"`
	Migrated int `json:"migrated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// MigrateAll re-encrypts every stored envelope that is not already under the
// current key version. Records are independent, so the work is spread over a
// bounded pool of workers; two runs racing on the same record both produce a
// valid envelope and last-writer-wins is acceptable.
//
// Individual record failures are counted, not fatal: a mid-rotation store
// legitimately mixes key versions and one undecryptable record must not stall
// the migration of the rest. MigrateAll returns an error only when the scan
// itself fails or the context is canceled.
func (r *KeyRotationCoordinator) MigrateAll(ctx context.Context, store EnvelopeStore, workers int) (MigrationReport, error) {
	if workers < 1 {
		workers = 1
	}

	type job struct {
		id  string
		env Envelope
	}

	jobs := make(chan job)
	var (
		mu     sync.Mutex
		report MigrationReport
	)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				reEncrypted, err := r.ReEncrypt(j.env)
				if err == nil {
					err = store.Update(ctx, j.id, reEncrypted)
				}
				mu.Lock()
				if err != nil {
					report.Failed++
				} else {
					report.Migrated++
				}
				mu.Unlock()
			}
		}()
	}

	currentVersion := r.keys.CurrentVersion()
	scanErr := store.Scan(ctx, func(id string, env Envelope) error {
		mu.Lock()
		report.Scanned++
		mu.Unlock()

		// Already stamped with the current version: nothing to do. Legacy
		// envelopes carry no version and are always migrated.
		if !env.IsLegacy() && env.KeyVersion == currentVersion {
			mu.Lock()
			report.Skipped++
			mu.Unlock()
			return nil
		}

		select {
		case jobs <- job{id: id, env: env}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	close(jobs)
	wg.Wait()

	if scanErr != nil {
		return report, fmt.Errorf("envelope migration aborted: %w", scanErr)
	}
	return report, nil
}

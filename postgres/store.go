package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

var _ harvest.RecordWriter = (*RecordStore)(nil)

// RecordStore appends the records of each harvest as a new run.
type RecordStore struct {
	db     *DB
	source string
	last   *harvest.Run
}

// NewRecordStore creates a RecordStore that labels runs with source.
func NewRecordStore(db *DB, source string) *RecordStore {
	return &RecordStore{db: db, source: source}
}

// WriteRecords inserts a run row and one row per record in a single
// transaction.
func (s *RecordStore) WriteRecords(ctx context.Context, targets []harvest.Target, records []*harvest.Record) error {
	run := &harvest.Run{
		ID:        uuid.New().String(),
		Source:    s.source,
		Targets:   targets,
		Records:   records,
		Size:      len(records),
		CreatedAt: time.Now().UTC(),
	}
	if err := run.Validate(); err != nil {
		return err
	}

	forms := make([]string, len(targets))
	for i, t := range targets {
		forms[i] = t.String()
	}
	targetsJSON, err := json.Marshal(forms)
	if err != nil {
		return fmt.Errorf("failed to encode targets: %w", err)
	}

	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO harvest_runs (id, source, targets, created_at)
		VALUES ($1, $2, $3, $4)
	`, run.ID, run.Source, string(targetsJSON), run.CreatedAt); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO harvest_records (run_id, position, organization, domain, facts)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		facts, err := json.Marshal(rec.Values)
		if err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, rec.Organization, rec.Domain, string(facts)); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.last = run
	return nil
}

// LastRun returns the run created by the most recent WriteRecords call.
func (s *RecordStore) LastRun() *harvest.Run {
	return s.last
}

// CountRecords returns how many records are stored for a run.
func (s *RecordStore) CountRecords(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM harvest_records WHERE run_id = $1`, runID).Scan(&n)
	return n, err
}

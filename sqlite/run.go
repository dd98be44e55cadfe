package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ harvest.RunService   = (*RunService)(nil)
	_ harvest.RecordWriter = (*RecordStore)(nil)
)

// RunService implements harvest.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores run and its records in a single transaction.
func (s *RunService) CreateRun(ctx context.Context, run *harvest.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	targets := make([]string, len(run.Targets))
	for i, t := range run.Targets {
		targets[i] = t.String()
	}
	targetsJSON, err := json.Marshal(targets)
	if err != nil {
		return fmt.Errorf("failed to encode targets: %w", err)
	}

	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()
	run.Size = len(run.Records)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, targets, created_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Source, string(targetsJSON), run.CreatedAt.Format(timeFormat)); err != nil {
		return err
	}

	for i, rec := range run.Records {
		facts, err := json.Marshal(rec.Values)
		if err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (run_id, position, organization, domain, facts)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, i, rec.Organization, rec.Domain, string(facts)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run with its records in input order.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*harvest.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, source, targets, created_at,
			(SELECT COUNT(*) FROM records WHERE run_id = runs.id)
		FROM runs
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT organization, domain, facts
		FROM records
		WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec harvest.Record
		var facts string
		if err := rows.Scan(&rec.Organization, &rec.Domain, &facts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(facts), &rec.Values); err != nil {
			return nil, fmt.Errorf("failed to decode facts: %w", err)
		}
		if rec.Values == nil {
			rec.Values = make(map[string]string)
		}
		run.Records = append(run.Records, &rec)
	}

	return run, rows.Err()
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter harvest.RunFilter) ([]*harvest.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, source, targets, created_at,
		(SELECT COUNT(*) FROM records WHERE run_id = runs.id)
		FROM runs WHERE 1=1`)

	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*harvest.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// DeleteRun removes a run and, by cascade, its records.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return harvest.Errorf(harvest.ENOTFOUND, "run not found")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*harvest.Run, error) {
	var run harvest.Run
	var targetsJSON, createdAt string
	if err := row.Scan(&run.ID, &run.Source, &targetsJSON, &createdAt, &run.Size); err != nil {
		return nil, err
	}

	var targets []string
	if err := json.Unmarshal([]byte(targetsJSON), &targets); err != nil {
		return nil, fmt.Errorf("failed to decode targets: %w", err)
	}
	for _, s := range targets {
		t, err := harvest.ParseTarget(s)
		if err != nil {
			return nil, fmt.Errorf("stored target %q: %w", s, err)
		}
		run.Targets = append(run.Targets, t)
	}

	var err error
	if run.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &run, nil
}

// RecordStore writes the records of a harvest as a new stored run.
type RecordStore struct {
	runs   *RunService
	source string
	last   *harvest.Run
}

// NewRecordStore creates a RecordStore that labels runs with source,
// typically the input file name.
func NewRecordStore(db *DB, source string) *RecordStore {
	return &RecordStore{runs: NewRunService(db), source: source}
}

// WriteRecords stores records as a new run.
func (s *RecordStore) WriteRecords(ctx context.Context, targets []harvest.Target, records []*harvest.Record) error {
	run := &harvest.Run{
		Source:  s.source,
		Targets: targets,
		Records: records,
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		return err
	}
	s.last = run
	return nil
}

// LastRun returns the run created by the most recent WriteRecords call.
func (s *RecordStore) LastRun() *harvest.Run {
	return s.last
}

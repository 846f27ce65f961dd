package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"coderef/internal/coderef"
)

// ScanRun is one doc-comment scan recorded in the catalog
type ScanRun struct {
	ID              string     `json:"id" yaml:"id"`
	Root            string     `json:"root" yaml:"root"`
	StartedAt       time.Time  `json:"startedAt" yaml:"startedAt"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
	Files           int        `json:"files" yaml:"files"`
	ReferencesTotal int        `json:"referencesTotal" yaml:"referencesTotal"`
	InvalidTotal    int        `json:"invalidTotal" yaml:"invalidTotal"`
}

// Finished reports whether FinishRun was called for the run
func (r *ScanRun) Finished() bool {
	return r.FinishedAt != nil
}

// RunStats are the totals stored by FinishRun
type RunStats struct {
	Files      int
	References int
	Invalid    int
}

// ReferenceRecord is a stored occurrence
type ReferenceRecord struct {
	ID         int64
	RunID      string
	Location   coderef.Location
	Original   string
	State      coderef.State
	SymbolType coderef.SymbolType
	Canonical  string
}

// Occurrence rebuilds the parsed reference from the stored original text.
func (r *ReferenceRecord) Occurrence() (coderef.Occurrence, error) {
	ref, err := coderef.Restore(r.State, r.SymbolType, r.Original)
	if err != nil {
		return coderef.Occurrence{}, err
	}
	return coderef.Occurrence{Location: r.Location, Reference: ref}, nil
}

// ReferenceFilter narrows ListReferences. Zero fields match everything.
type ReferenceFilter struct {
	State      coderef.State
	SymbolType coderef.SymbolType
	Path       string
	Limit      int
}

// RunRepository provides operations on the scan_runs table
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Begin inserts a new unfinished run for root and returns its id
func (r *RunRepository) Begin(ctx context.Context, root string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO scan_runs (id, root, started_at) VALUES (?, ?, ?)
	`, id, root, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("failed to begin scan run: %w", err)
	}
	r.db.logger.Debug("Scan run started", "run_id", id, "root", root)
	return id, nil
}

// Finish stores the totals for a run and marks it finished
func (r *RunRepository) Finish(ctx context.Context, runID string, stats RunStats) error {
	result, err := r.db.conn.ExecContext(ctx, `
		UPDATE scan_runs
		SET finished_at = ?, files = ?, references_total = ?, invalid_total = ?
		WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339Nano), stats.Files, stats.References, stats.Invalid, runID)
	if err != nil {
		return fmt.Errorf("failed to finish scan run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scan run not found: %s", runID)
	}
	return nil
}

// Get retrieves a run by id. It returns nil, nil when no such run exists.
func (r *RunRepository) Get(ctx context.Context, runID string) (*ScanRun, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, root, started_at, finished_at, files, references_total, invalid_total
		FROM scan_runs
		WHERE id = ?
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan run: %w", err)
	}
	defer rows.Close()

	return firstRun(r.scanRuns(rows))
}

// Latest returns the most recently started run, or nil, nil for an empty catalog
func (r *RunRepository) Latest(ctx context.Context) (*ScanRun, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, root, started_at, finished_at, files, references_total, invalid_total
		FROM scan_runs
		ORDER BY rowid DESC
		LIMIT 1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest scan run: %w", err)
	}
	defer rows.Close()

	return firstRun(r.scanRuns(rows))
}

// List returns up to limit runs, newest first
func (r *RunRepository) List(ctx context.Context, limit int) ([]*ScanRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, root, started_at, finished_at, files, references_total, invalid_total
		FROM scan_runs
		ORDER BY rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan runs: %w", err)
	}
	defer rows.Close()

	return r.scanRuns(rows)
}

// Delete removes a run and its references
func (r *RunRepository) Delete(ctx context.Context, runID string) error {
	_, err := r.db.conn.ExecContext(ctx, "DELETE FROM scan_runs WHERE id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to delete scan run: %w", err)
	}
	return nil
}

func firstRun(runs []*ScanRun, err error) (*ScanRun, error) {
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return runs[0], nil
}

// scanRuns scans rows into ScanRun structs
func (r *RunRepository) scanRuns(rows *sql.Rows) ([]*ScanRun, error) {
	var runs []*ScanRun

	for rows.Next() {
		var run ScanRun
		var startedAt string
		var finishedAt sql.NullString

		err := rows.Scan(
			&run.ID,
			&run.Root,
			&startedAt,
			&finishedAt,
			&run.Files,
			&run.ReferencesTotal,
			&run.InvalidTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid started_at format: %w", err)
		}
		if finishedAt.Valid {
			t, err := time.Parse(time.RFC3339Nano, finishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("invalid finished_at format: %w", err)
			}
			run.FinishedAt = &t
		}

		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scan runs: %w", err)
	}
	return runs, nil
}

// ReferenceRepository provides operations on the references_seen table
type ReferenceRepository struct {
	db *DB
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// Record inserts occurrences for a run in a single transaction
func (r *ReferenceRepository) Record(ctx context.Context, runID string, occurrences []coderef.Occurrence) error {
	if len(occurrences) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO references_seen (run_id, path, line, col, original, state, symbol_type, canonical)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, occ := range occurrences {
			ref := occ.Reference
			_, err := stmt.ExecContext(ctx,
				runID,
				occ.Path,
				occ.Line,
				occ.Column,
				ref.OriginalString(),
				string(ref.State()),
				string(ref.SymbolType()),
				ref.Canonical(),
			)
			if err != nil {
				return fmt.Errorf("failed to record reference %q: %w", ref.OriginalString(), err)
			}
		}
		return nil
	})
}

// List returns the references of a run matching filter, in source order
func (r *ReferenceRepository) List(ctx context.Context, runID string, filter ReferenceFilter) ([]*ReferenceRecord, error) {
	var where strings.Builder
	args := []interface{}{runID}
	where.WriteString("run_id = ?")
	if filter.State != "" {
		where.WriteString(" AND state = ?")
		args = append(args, string(filter.State))
	}
	if filter.SymbolType != "" {
		where.WriteString(" AND symbol_type = ?")
		args = append(args, string(filter.SymbolType))
	}
	if filter.Path != "" {
		where.WriteString(" AND path = ?")
		args = append(args, filter.Path)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, run_id, path, line, col, original, state, symbol_type, canonical
		FROM references_seen
		WHERE `+where.String()+`
		ORDER BY path, line, col, id
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}
	defer rows.Close()

	return r.scanReferences(rows)
}

// FindCanonical returns every stored occurrence of a canonical reference
// across all runs
func (r *ReferenceRepository) FindCanonical(ctx context.Context, symbolType coderef.SymbolType, canonical string) ([]*ReferenceRecord, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, run_id, path, line, col, original, state, symbol_type, canonical
		FROM references_seen
		WHERE symbol_type = ? AND canonical = ?
		ORDER BY run_id, path, line, col, id
	`, string(symbolType), canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to find references: %w", err)
	}
	defer rows.Close()

	return r.scanReferences(rows)
}

// CountByState returns the number of references per state for a run
func (r *ReferenceRepository) CountByState(ctx context.Context, runID string) (map[coderef.State]int, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT state, COUNT(*) FROM references_seen
		WHERE run_id = ?
		GROUP BY state
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count references: %w", err)
	}
	defer rows.Close()

	counts := make(map[coderef.State]int)
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[coderef.State(state)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counts: %w", err)
	}
	return counts, nil
}

// scanReferences scans rows into ReferenceRecord structs
func (r *ReferenceRepository) scanReferences(rows *sql.Rows) ([]*ReferenceRecord, error) {
	var records []*ReferenceRecord

	for rows.Next() {
		var rec ReferenceRecord
		var state, symbolType string

		err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.Location.Path,
			&rec.Location.Line,
			&rec.Location.Column,
			&rec.Original,
			&state,
			&symbolType,
			&rec.Canonical,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}
		rec.State = coderef.State(state)
		rec.SymbolType = coderef.SymbolType(symbolType)

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating references: %w", err)
	}
	return records, nil
}

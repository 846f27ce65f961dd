package storage

import (
	"context"
	"fmt"
	"log/slog"

	"coderef/internal/coderef"
	"coderef/internal/errors"
)

// LatestRunID selects the most recent run in ResolveRun
const LatestRunID = "latest"

// Catalog records doc-comment scan runs and the references they found
type Catalog struct {
	db         *DB
	Runs       *RunRepository
	References *ReferenceRepository
}

// OpenCatalog opens the catalog database at path
func OpenCatalog(path string, logger *slog.Logger) (*Catalog, error) {
	db, err := Open(path, logger)
	if err != nil {
		return nil, errors.New(errors.CatalogUnavailable, fmt.Sprintf("cannot open catalog %s", path), err)
	}
	return &Catalog{
		db:         db,
		Runs:       NewRunRepository(db),
		References: NewReferenceRepository(db),
	}, nil
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// BeginRun starts a scan run for root
func (c *Catalog) BeginRun(ctx context.Context, root string) (string, error) {
	return c.Runs.Begin(ctx, root)
}

// RecordReferences stores occurrences found during a run
func (c *Catalog) RecordReferences(ctx context.Context, runID string, occurrences []coderef.Occurrence) error {
	return c.References.Record(ctx, runID, occurrences)
}

// FinishRun stores the run totals
func (c *Catalog) FinishRun(ctx context.Context, runID string, stats RunStats) error {
	return c.Runs.Finish(ctx, runID, stats)
}

// LatestRun returns the newest run, or nil when the catalog is empty
func (c *Catalog) LatestRun(ctx context.Context) (*ScanRun, error) {
	return c.Runs.Latest(ctx)
}

// ResolveRun looks up a run by id, or the newest run for LatestRunID. A
// missing run is a CatalogUnavailable error.
func (c *Catalog) ResolveRun(ctx context.Context, id string) (*ScanRun, error) {
	var run *ScanRun
	var err error
	if id == "" || id == LatestRunID {
		run, err = c.Runs.Latest(ctx)
	} else {
		run, err = c.Runs.Get(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if run == nil {
		if id == "" || id == LatestRunID {
			return nil, errors.New(errors.CatalogUnavailable, "catalog has no scan runs", nil)
		}
		return nil, errors.New(errors.CatalogUnavailable, fmt.Sprintf("scan run %s not found", id), nil)
	}
	return run, nil
}

// ListReferences returns the references of a run matching filter
func (c *Catalog) ListReferences(ctx context.Context, runID string, filter ReferenceFilter) ([]*ReferenceRecord, error) {
	return c.References.List(ctx, runID, filter)
}

// Occurrences returns the references of a run as parsed occurrences
func (c *Catalog) Occurrences(ctx context.Context, runID string, filter ReferenceFilter) ([]coderef.Occurrence, error) {
	records, err := c.References.List(ctx, runID, filter)
	if err != nil {
		return nil, err
	}
	occurrences := make([]coderef.Occurrence, 0, len(records))
	for _, rec := range records {
		occ, err := rec.Occurrence()
		if err != nil {
			return nil, fmt.Errorf("reference %d: %w", rec.ID, err)
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences, nil
}

// CountByState returns the number of references per state for a run
func (c *Catalog) CountByState(ctx context.Context, runID string) (map[coderef.State]int, error) {
	return c.References.CountByState(ctx, runID)
}

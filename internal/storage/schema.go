package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema version tracking
const currentSchemaVersion = 1

// initializeSchema creates all tables for a new catalog
func (db *DB) initializeSchema() error {
	return db.WithTx(context.Background(), func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createScanRunsTable(tx); err != nil {
			return err
		}
		if err := createReferencesSeenTable(tx); err != nil {
			return err
		}
		if err := setSchemaVersion(tx, currentSchemaVersion); err != nil {
			return err
		}

		db.logger.Info("Catalog schema initialized", "version", currentSchemaVersion)
		return nil
	})
}

// runMigrations runs any pending schema migrations
func (db *DB) runMigrations() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		db.logger.Debug("Catalog schema is up to date", "version", version)
		return nil
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("catalog schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	db.logger.Info("Running catalog migrations",
		"from_version", version,
		"to_version", currentSchemaVersion,
	)

	// Version 0 is a file left behind by an interrupted first open.
	if version == 0 {
		return db.initializeSchema()
	}
	return nil
}

// getSchemaVersion gets the current schema version, 0 for an empty file
func (db *DB) getSchemaVersion() (int, error) {
	var tableName string
	err := db.conn.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableName)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return version, nil
}

func setSchemaVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	_, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	return err
}

// createScanRunsTable creates the scan_runs table, one row per scan
func createScanRunsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS scan_runs (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			files INTEGER NOT NULL DEFAULT 0,
			references_total INTEGER NOT NULL DEFAULT 0,
			invalid_total INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create scan_runs table: %w", err)
	}
	return nil
}

// createReferencesSeenTable creates the references_seen table
func createReferencesSeenTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS references_seen (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES scan_runs(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			line INTEGER NOT NULL,
			col INTEGER NOT NULL,
			original TEXT NOT NULL,
			state TEXT NOT NULL,
			symbol_type TEXT NOT NULL,
			canonical TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create references_seen table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_references_seen_run ON references_seen(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_references_seen_state ON references_seen(run_id, state)",
		"CREATE INDEX IF NOT EXISTS idx_references_seen_canonical ON references_seen(canonical)",
	}
	for _, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

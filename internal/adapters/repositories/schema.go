package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Dialect selects the SQL flavour used by InitSchema.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSqlite   Dialect = "sqlite"
)

// Initialize the cache and result tables.
func InitSchema(db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	var statements []string
	switch dialect {
	case DialectPostgres:
		statements = []string{
			`
	CREATE TABLE IF NOT EXISTS provider_cache (
        kind TEXT NOT NULL,
        cache_key TEXT NOT NULL,
        payload JSONB NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (kind, cache_key)
    );
	`,
			`
	CREATE TABLE IF NOT EXISTS simulation_results (
        run_id UUID PRIMARY KEY,
        project TEXT NOT NULL,
        generated_at TIMESTAMPTZ NOT NULL,
        cancelled BOOLEAN NOT NULL DEFAULT FALSE,
        result JSONB NOT NULL
    );
	`,
			`
	CREATE INDEX IF NOT EXISTS idx_simulation_results_project_generated
    ON simulation_results(project, generated_at DESC);
	`,
		}
	case DialectSqlite:
		statements = []string{
			`
	CREATE TABLE IF NOT EXISTS provider_cache (
        kind TEXT NOT NULL,
        cache_key TEXT NOT NULL,
        payload BLOB NOT NULL,
        created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (kind, cache_key)
    );
	`,
		}
	default:
		return fmt.Errorf("init schema: unknown dialect %q", dialect)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

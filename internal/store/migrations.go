package store

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version    int
	statements []string
}

// migrations are applied in order; each runs in its own transaction.
var migrations = []migration{
	{version: 1, statements: []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL UNIQUE,
			taken_at  TEXT NOT NULL,
			scope     TEXT NOT NULL,
			dataset   TEXT NOT NULL,
			version   TEXT NOT NULL,
			start     INTEGER NOT NULL,
			stop      INTEGER NOT NULL,
			step      INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sweep_points (
			id                     INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id            INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			threshold              INTEGER NOT NULL,
			friction_events        INTEGER NOT NULL,
			friction_cancellations INTEGER NOT NULL,
			affected               INTEGER NOT NULL,
			owner_share_loss       REAL NOT NULL,
			UNIQUE (snapshot_id, threshold)
		)`,
		`CREATE TABLE IF NOT EXISTS suggestions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			category     TEXT NOT NULL,
			priority     INTEGER NOT NULL,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL,
			impact_score REAL NOT NULL,
			threshold    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_scope ON snapshots(scope, id)`,
		`CREATE INDEX IF NOT EXISTS idx_points_snapshot ON sweep_points(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_snapshot ON suggestions(snapshot_id)`,
	}},
}

// SchemaVersion returns the version recorded in the database, 0 when fresh.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	return version, err
}

// Migrate applies every migration newer than the recorded schema version.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	current, err := db.SchemaVersion()
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := db.apply(m); err != nil {
			return fmt.Errorf("migration v%d: %w", m.version, err)
		}
	}
	return nil
}

func (db *DB) apply(m migration) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) { _ = tx.Rollback() }(tx)

	for i, stmt := range m.statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
		return err
	}
	return tx.Commit()
}

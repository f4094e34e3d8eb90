package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB holds the sweep snapshot database.
type DB struct {
	conn *sql.DB
}

// Open opens the snapshot database at dbPath, creating it and its directory
// when missing, and brings the schema up to date.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	return open(dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", 0)
}

// OpenInMemory opens an empty in-memory database for tests.
func OpenInMemory() (*DB, error) {
	// A second connection would see a different, empty database.
	return open(":memory:?_pragma=foreign_keys(1)", 1)
}

func open(dsn string, maxConns int) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	if maxConns > 0 {
		conn.SetMaxOpenConns(maxConns)
	}

	db := &DB{conn: conn}
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Package database provides database connection and initialization functionality.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the cache database connection.
type DB struct {
	conn *sql.DB
	path string
}

// schema holds the full cache schema. Every table stores serialized blobs
// keyed by symbol (or currency pair) with a unix expiration timestamp, so
// readers can choose between fresh-only and stale-fallback lookups.
const schema = `
CREATE TABLE IF NOT EXISTS quotes (
    symbol     TEXT PRIMARY KEY,
    data       TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS details (
    symbol     TEXT PRIMARY KEY,
    data       TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS price_history (
    symbol     TEXT NOT NULL,
    period     TEXT NOT NULL,
    data       BLOB NOT NULL,
    expires_at INTEGER NOT NULL,
    PRIMARY KEY (symbol, period)
);
CREATE TABLE IF NOT EXISTS fx_rates (
    pair       TEXT PRIMARY KEY,
    data       TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);
`

// New opens (creating if needed) the cache database at path.
func New(path string) (*DB, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path to absolute: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Cache profile: WAL, no fsync, temp tables in RAM. Losing the cache on
	// a crash only costs re-fetches.
	connStr := absPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(OFF)" +
		"&_pragma=auto_vacuum(FULL)" +
		"&_pragma=temp_store(MEMORY)" +
		"&_pragma=cache_size(-64000)"

	conn, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// Single-process CLI tool, keep the pool minimal.
	conn.SetMaxOpenConns(2)
	conn.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply cache schema: %w", err)
	}

	return &DB{conn: conn, path: absPath}, nil
}

// NewInMemory opens a private in-memory database. Used by tests.
func NewInMemory() (*DB, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// A second connection would get its own empty database.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply cache schema: %w", err)
	}
	return &DB{conn: conn, path: ":memory:"}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
// Used by repositories to execute queries
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Package sqlite implements the store interfaces using an embedded SQLite
// database. The database runs in WAL journal mode so a build's last-known
// status survives a process restart; completion is observed asynchronously,
// possibly minutes after the record was created.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// timeLayout is a fixed-width UTC timestamp format. Fixed width keeps
// lexicographic ordering of the created_at column identical to time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store provides the SQLite-backed implementation of store.BuildStore.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the database at path and runs all
// pending migrations. The returned handle is owned by the caller and is
// meant to be opened once at process start and closed at shutdown.
func New(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// DB exposes the underlying handle, mainly for migrations and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

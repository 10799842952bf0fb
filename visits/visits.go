// Package visits keeps the viewer's visitor counter in SQLite.
package visits

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS visits (
    id TEXT PRIMARY KEY,
    visited_at INTEGER NOT NULL
);
`

// dsnPragmas is applied by the driver to every new connection.
const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// Store counts viewer launches.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the counter database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("visits: creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("visits: opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("visits: pinging database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("visits: running migrations: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory store (useful for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("visits: opening in-memory database: %w", err)
	}
	// Each pooled connection would get its own empty :memory: database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: ":memory:"}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("visits: running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record adds one visit and returns the new total.
func (s *Store) Record(ctx context.Context) (int, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO visits (id, visited_at) VALUES (?, ?)`,
		uuid.NewString(), time.Now().UnixMilli(),
	); err != nil {
		return 0, fmt.Errorf("visits: recording visit: %w", err)
	}
	return s.Count(ctx)
}

// Count returns the number of recorded visits.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits`).Scan(&n); err != nil {
		return 0, fmt.Errorf("visits: counting: %w", err)
	}
	return n, nil
}

// Last returns the time of the most recent visit, or the zero time if none.
func (s *Store) Last(ctx context.Context) (time.Time, error) {
	var last sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(visited_at) FROM visits`).Scan(&last); err != nil {
		return time.Time{}, fmt.Errorf("visits: reading last visit: %w", err)
	}
	if !last.Valid {
		return time.Time{}, nil
	}
	return time.UnixMilli(last.Int64), nil
}

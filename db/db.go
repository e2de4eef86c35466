package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const dbDriver = "sqlite3"

// Store is the moderator decision log.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the SQLite database at path and applies
// the schema. ":memory:" is accepted for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open(dbDriver, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// sqlite allows one writer; a single connection also keeps :memory: databases shared
	conn.SetMaxOpenConns(1)

	if err := createTables(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &Store{db: conn}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

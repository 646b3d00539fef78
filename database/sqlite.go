package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDB wraps a single-file SQLite database
type SQLiteDB struct {
	*sql.DB
	Path string
}

// NewSQLiteConnection opens (creating if needed) the SQLite database at path
func NewSQLiteConnection(ctx context.Context, path string) (*SQLiteDB, error) {
	if path == "" || path[0] == '\x00' {
		return nil, fmt.Errorf("invalid database path")
	}

	if err := ensureSQLiteDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; serialising through one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteDB{DB: db, Path: path}, nil
}

// Close closes the underlying database handle
func (db *SQLiteDB) Close() error {
	return db.DB.Close()
}

// ensureSQLiteDir creates the parent directory of a file-backed database
func ensureSQLiteDir(path string) error {
	if isMemoryPath(path) || strings.HasPrefix(path, "file:") {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return nil
}

func isMemoryPath(path string) bool {
	return strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory")
}

// sqliteDSN adds a busy timeout on top of the caller's path
func sqliteDSN(path string) string {
	if strings.Contains(path, "_busy_timeout=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000"
}

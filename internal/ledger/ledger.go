// Package ledger persists preprocessed statements in SQLite. Each upload owns
// its transactions; deleting an upload removes them.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// ErrUploadNotFound is returned for an unknown upload id.
var ErrUploadNotFound = errors.New("upload not found")

// Ledger is the SQLite-backed store of uploads and their transactions.
type Ledger struct {
	db     *sql.DB
	path   string
	logger logging.Logger
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string, logger logging.Logger) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("database path must not be empty")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	l := &Ledger{db: db, path: path, logger: logging.OrDefault(logger)}
	if err := l.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path returns the database file path.
func (l *Ledger) Path() string {
	return l.path
}

package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"fjacquet/statement-csv/internal/logging"
)

// SchemaVersion is the schema version this build migrates to.
const SchemaVersion = 1

type migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS uploaded_files (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					format TEXT NOT NULL,
					uploaded_at DATETIME NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS transactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					upload_id TEXT NOT NULL REFERENCES uploaded_files(id) ON DELETE CASCADE,
					position INTEGER NOT NULL,
					value_date TEXT NOT NULL,
					iso_date TEXT NOT NULL,
					description TEXT NOT NULL,
					type TEXT NOT NULL DEFAULT '',
					amount TEXT NOT NULL,
					currency TEXT NOT NULL,
					fee TEXT NOT NULL DEFAULT '0',
					reference TEXT NOT NULL DEFAULT '',
					category TEXT NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_upload ON transactions(upload_id)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_iso_date ON transactions(iso_date)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies every migration newer than the stored user_version.
func (l *Ledger) Migrate(ctx context.Context) error {
	current, err := l.Version(ctx)
	if err != nil {
		return err
	}
	if current > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, SchemaVersion)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := l.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		l.logger.Debug("Applied ledger migration",
			logging.Field{Key: "version", Value: m.Version},
			logging.Field{Key: "description", Value: m.Description})
	}
	return nil
}

// Version returns the stored schema version.
func (l *Ledger) Version(ctx context.Context) (int, error) {
	var v int
	if err := l.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return v, nil
}

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/validation"
)

// SaveUpload stores transactions under a new upload. Every transaction is
// validated first; any failure rejects the whole upload and nothing is
// written.
func (l *Ledger) SaveUpload(ctx context.Context, name, format string, transactions []models.Transaction) (models.UploadedFile, error) {
	if strings.TrimSpace(name) == "" {
		return models.UploadedFile{}, fmt.Errorf("upload name must not be empty")
	}
	if err := validation.ValidateTransactions(transactions); err != nil {
		return models.UploadedFile{}, err
	}

	upload := models.UploadedFile{
		ID:               uuid.NewString(),
		Name:             name,
		Format:           format,
		UploadedAt:       time.Now().UTC(),
		TransactionCount: len(transactions),
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO uploaded_files (id, name, format, uploaded_at) VALUES (?, ?, ?, ?)`,
		upload.ID, upload.Name, upload.Format, upload.UploadedAt); err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to insert upload: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			upload_id, position, value_date, iso_date, description, type,
			amount, currency, fee, reference, category
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, t := range transactions {
		if _, err := stmt.ExecContext(ctx,
			upload.ID, i, t.ValueDate, dateutils.NormalizeDate(t.ValueDate), t.Description, t.Type,
			t.Amount.String(), t.Currency, t.Fee.String(), t.Reference, t.Category,
		); err != nil {
			return models.UploadedFile{}, fmt.Errorf("failed to insert transaction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to commit upload: %w", err)
	}

	l.logger.Info("Upload saved",
		logging.Field{Key: logging.FieldUploadID, Value: upload.ID},
		logging.Field{Key: logging.FieldFile, Value: name},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return upload, nil
}

const uploadColumns = `
	SELECT u.id, u.name, u.format, u.uploaded_at, COUNT(t.id)
	FROM uploaded_files u
	LEFT JOIN transactions t ON t.upload_id = u.id`

// ListUploads returns every upload, newest first.
func (l *Ledger) ListUploads(ctx context.Context) ([]models.UploadedFile, error) {
	rows, err := l.db.QueryContext(ctx, uploadColumns+`
		GROUP BY u.id
		ORDER BY u.uploaded_at DESC, u.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var uploads []models.UploadedFile
	for rows.Next() {
		var u models.UploadedFile
		if err := rows.Scan(&u.ID, &u.Name, &u.Format, &u.UploadedAt, &u.TransactionCount); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// GetUpload returns one upload by id.
func (l *Ledger) GetUpload(ctx context.Context, id string) (models.UploadedFile, error) {
	var u models.UploadedFile
	err := l.db.QueryRowContext(ctx, uploadColumns+`
		WHERE u.id = ?
		GROUP BY u.id`, id).Scan(&u.ID, &u.Name, &u.Format, &u.UploadedAt, &u.TransactionCount)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UploadedFile{}, fmt.Errorf("%w: %s", ErrUploadNotFound, id)
	}
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to query upload: %w", err)
	}
	return u, nil
}

// DeleteUpload removes an upload and, by cascade, its transactions.
func (l *Ledger) DeleteUpload(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM uploaded_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUploadNotFound, id)
	}

	l.logger.Info("Upload deleted", logging.Field{Key: logging.FieldUploadID, Value: id})
	return nil
}

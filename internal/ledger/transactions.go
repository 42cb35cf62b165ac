package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/models"
)

// Filter selects stored transactions. Zero values do not filter.
type Filter struct {
	UploadIDs  []string
	From       time.Time
	To         time.Time
	Categories []string
}

// Transactions returns the stored transactions matching f, newest first,
// keeping each upload's original order for equal dates.
func (l *Ledger) Transactions(ctx context.Context, f Filter) ([]models.Transaction, error) {
	var (
		where []string
		args  []interface{}
	)
	if len(f.UploadIDs) > 0 {
		where = append(where, "upload_id IN ("+placeholders(len(f.UploadIDs))+")")
		for _, id := range f.UploadIDs {
			args = append(args, id)
		}
	}
	if len(f.Categories) > 0 {
		where = append(where, "category IN ("+placeholders(len(f.Categories))+")")
		for _, c := range f.Categories {
			args = append(args, c)
		}
	}
	if !f.From.IsZero() {
		where = append(where, "iso_date >= ?")
		args = append(args, dateutils.ToISODate(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "iso_date <= ?")
		args = append(args, dateutils.ToISODate(f.To))
	}

	query := `SELECT value_date, description, type, amount, currency, fee, reference, category
		FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY iso_date DESC, upload_id, position"

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Transaction
	for rows.Next() {
		var (
			t           models.Transaction
			amount, fee string
		)
		if err := rows.Scan(&t.ValueDate, &t.Description, &t.Type, &amount, &t.Currency, &fee, &t.Reference, &t.Category); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt amount %q: %w", amount, err)
		}
		if t.Fee, err = decimal.NewFromString(fee); err != nil {
			return nil, fmt.Errorf("corrupt fee %q: %w", fee, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

package ledger

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// ResolveFunc returns the category for a description.
type ResolveFunc func(ctx context.Context, description string) (string, error)

// RecategorizeResult counts the rows a Recategorize call looked at and
// changed, and the new categories it assigned.
type RecategorizeResult struct {
	Examined int
	Updated  int
	Assigned map[string]int
}

// Recategorize runs resolve over stored transactions whose category is one
// of categories (Uncounted when empty) or blank, optionally limited to
// uploads. Each distinct description is resolved once. Vault rows are never
// selected. Changes are written in one transaction; a resolve error leaves
// the ledger untouched.
func (l *Ledger) Recategorize(ctx context.Context, uploads, categories []string, resolve ResolveFunc) (RecategorizeResult, error) {
	if len(categories) == 0 {
		categories = []string{models.CategoryUncounted}
	}

	rows, err := l.staleRows(ctx, uploads, categories)
	if err != nil {
		return RecategorizeResult{}, err
	}
	result := RecategorizeResult{Examined: len(rows), Assigned: make(map[string]int)}

	resolved := make(map[string]string)
	var updates []staleRow
	for _, r := range rows {
		category, ok := resolved[r.description]
		if !ok {
			category, err = resolve(ctx, r.description)
			if err != nil {
				return RecategorizeResult{}, fmt.Errorf("failed to resolve %q: %w", r.description, err)
			}
			resolved[r.description] = category
		}
		if category == "" || category == r.category {
			continue
		}
		r.category = category
		updates = append(updates, r)
	}
	if len(updates) == 0 {
		return result, nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return RecategorizeResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `UPDATE transactions SET category = ? WHERE id = ?`)
	if err != nil {
		return RecategorizeResult{}, fmt.Errorf("failed to prepare update: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, u.category, u.id); err != nil {
			return RecategorizeResult{}, fmt.Errorf("failed to update transaction %d: %w", u.id, err)
		}
		result.Assigned[u.category]++
	}
	if err := tx.Commit(); err != nil {
		return RecategorizeResult{}, fmt.Errorf("failed to commit recategorization: %w", err)
	}
	result.Updated = len(updates)

	l.logger.Info("Recategorized stored transactions",
		logging.Field{Key: "examined", Value: result.Examined},
		logging.Field{Key: "updated", Value: result.Updated})
	return result, nil
}

type staleRow struct {
	id          int64
	description string
	category    string
}

func (l *Ledger) staleRows(ctx context.Context, uploads, categories []string) ([]staleRow, error) {
	var args []interface{}
	where := "(category = '' OR category IN (" + placeholders(len(categories)) + "))"
	for _, c := range categories {
		args = append(args, c)
	}
	where += " AND category <> ?"
	args = append(args, models.CategoryVault)
	if len(uploads) > 0 {
		where += " AND upload_id IN (" + placeholders(len(uploads)) + ")"
		for _, id := range uploads {
			args = append(args, id)
		}
	}

	query := "SELECT id, description, category FROM transactions WHERE " + where + " ORDER BY upload_id, position"
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []staleRow
	for rows.Next() {
		var r staleRow
		if err := rows.Scan(&r.id, &r.description, &r.category); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		r.description = strings.TrimSpace(r.description)
		out = append(out, r)
	}
	return out, rows.Err()
}

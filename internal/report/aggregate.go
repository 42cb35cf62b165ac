// Package report aggregates stored transactions into category and month
// totals and renders them.
package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/statement-csv/internal/currencyutils"
	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/models"
)

// GroupBy selects the aggregation key.
type GroupBy string

const (
	ByCategory GroupBy = "category"
	ByMonth    GroupBy = "month"
)

// UndatedKey is the month bucket for transactions whose date does not parse.
const UndatedKey = "undated"

// ParseGroupBy validates a --by value. Empty means by category.
func ParseGroupBy(s string) (GroupBy, bool) {
	switch GroupBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ByCategory:
		return ByCategory, true
	case ByMonth:
		return ByMonth, true
	}
	return "", false
}

// Options controls Aggregate.
type Options struct {
	By GroupBy
	// IncludeUncounted keeps Uncounted and Vault transactions, which are
	// otherwise left out of the totals.
	IncludeUncounted bool
}

// Row is one bucket. Amounts in different currencies are never added up, so
// a key spanning two currencies yields two rows.
type Row struct {
	Key      string          `json:"key"`
	Currency string          `json:"currency"`
	Count    int             `json:"count"`
	Debits   decimal.Decimal `json:"debits"`
	Credits  decimal.Decimal `json:"credits"`
	Total    decimal.Decimal `json:"total"`
}

// Summary is an aggregation result.
type Summary struct {
	By           GroupBy `json:"by"`
	Transactions int     `json:"transactions"`
	Excluded     int     `json:"excluded"`
	Rows         []Row   `json:"rows"`
}

// Aggregate groups transactions. Category rows are ordered by the size of
// their total, largest first; month rows chronologically with undated last.
func Aggregate(transactions []models.Transaction, opts Options) Summary {
	by := opts.By
	if by == "" {
		by = ByCategory
	}
	sum := Summary{By: by, Rows: []Row{}}

	type bucket struct{ key, currency string }
	rows := make(map[bucket]*Row)
	for _, tx := range transactions {
		if !opts.IncludeUncounted && excluded(tx.Category) {
			sum.Excluded++
			continue
		}
		sum.Transactions++

		b := bucket{key: groupKey(tx, by), currency: strings.ToUpper(strings.TrimSpace(tx.Currency))}
		row, ok := rows[b]
		if !ok {
			row = &Row{Key: b.key, Currency: b.currency}
			rows[b] = row
		}
		row.Count++
		if tx.IsDebit() {
			row.Debits = row.Debits.Add(tx.Amount)
		} else {
			row.Credits = row.Credits.Add(tx.Amount)
		}
	}

	for _, row := range rows {
		row.Total = currencyutils.Sum(row.Debits, row.Credits)
		sum.Rows = append(sum.Rows, *row)
	}
	sort.Slice(sum.Rows, func(i, j int) bool {
		a, b := sum.Rows[i], sum.Rows[j]
		if by == ByMonth {
			if a.Key != b.Key {
				if a.Key == UndatedKey || b.Key == UndatedKey {
					return b.Key == UndatedKey
				}
				return a.Key < b.Key
			}
			return a.Currency < b.Currency
		}
		if c := a.Total.Abs().Cmp(b.Total.Abs()); c != 0 {
			return c > 0
		}
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		return a.Currency < b.Currency
	})
	return sum
}

func excluded(category string) bool {
	c := strings.TrimSpace(category)
	return c == "" || strings.EqualFold(c, models.CategoryUncounted) || strings.EqualFold(c, models.CategoryVault)
}

func groupKey(tx models.Transaction, by GroupBy) string {
	if by == ByMonth {
		t, _, err := dateutils.ParseDate(tx.ValueDate)
		if err != nil {
			return UndatedKey
		}
		return dateutils.MonthKey(t)
	}
	if c := strings.TrimSpace(tx.Category); c != "" {
		return c
	}
	return models.CategoryUncounted
}

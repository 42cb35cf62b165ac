package report

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-csv/internal/ledger"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/report"
)

func seededLedger(t *testing.T) (*ledger.Ledger, string, string) {
	t.Helper()
	ctx := context.Background()
	l, err := ledger.Open(ctx, filepath.Join(t.TempDir(), "ledger.db"), logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	tx := func(date, desc, category, amount string) models.Transaction {
		return models.Transaction{
			ValueDate:   date,
			Description: desc,
			Amount:      decimal.RequireFromString(amount),
			Currency:    "CHF",
			Category:    category,
		}
	}
	jan, err := l.SaveUpload(ctx, "jan.csv", "zkb", []models.Transaction{
		tx("05.01.2025", "Coop", "Groceries", "-40.00"),
		tx("20.01.2025", "Rent Landlord AG", "Uncounted", "-2000.00"),
		tx("25.01.2025", "Payroll", "Salary", "5000.00"),
	})
	require.NoError(t, err)
	feb, err := l.SaveUpload(ctx, "feb.csv", "revolut", []models.Transaction{
		tx("2025-02-03 10:00:00", "Migros", "Groceries", "-60.00"),
		tx("2025-02-04 10:00:00", "To CHF Vault", "Vault", "-100.00"),
	})
	require.NoError(t, err)
	return l, jan.ID, feb.ID
}

func TestRun_ByCategory(t *testing.T) {
	l, _, _ := seededLedger(t)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), l, logging.NewMockLogger(), &out, Options{Format: "csv"}))
	assert.Equal(t, "key,currency,count,debits,credits,total\n"+
		"Salary,CHF,1,0.00,5000.00,5000.00\n"+
		"Groceries,CHF,2,-100.00,0.00,-100.00\n", out.String())
}

func TestRun_FiltersAndMonths(t *testing.T) {
	l, janID, _ := seededLedger(t)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), l, logging.NewMockLogger(), &out, Options{
		By:               "month",
		Format:           "json",
		From:             "2025-01-10",
		To:               "28.02.2025",
		IncludeUncounted: true,
	}))

	var s report.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &s))
	assert.Equal(t, report.ByMonth, s.By)
	assert.Equal(t, 4, s.Transactions)
	require.Len(t, s.Rows, 2)
	assert.Equal(t, "2025-01", s.Rows[0].Key)
	assert.Equal(t, 2, s.Rows[0].Count)
	assert.Equal(t, "2025-02", s.Rows[1].Key)

	out.Reset()
	require.NoError(t, Run(context.Background(), l, nil, &out, Options{Format: "text", Files: []string{janID}}))
	assert.Contains(t, out.String(), "Salary")
	assert.NotContains(t, out.String(), "Rent")
	assert.True(t, strings.HasSuffix(out.String(), "2 transactions, 1 excluded\n"))
}

func TestRun_MonthBounds(t *testing.T) {
	l, _, _ := seededLedger(t)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), l, nil, &out, Options{
		By:               "month",
		Format:           "json",
		From:             "2025-01",
		To:               "2025-01",
		IncludeUncounted: true,
	}))

	var s report.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &s))
	assert.Equal(t, 3, s.Transactions)
	require.Len(t, s.Rows, 1)
	assert.Equal(t, "2025-01", s.Rows[0].Key)

	out.Reset()
	require.NoError(t, Run(context.Background(), l, nil, &out, Options{Format: "csv", From: "2025-02", IncludeUncounted: true}))
	assert.Equal(t, "key,currency,count,debits,credits,total\n"+
		"Vault,CHF,1,-100.00,0.00,-100.00\n"+
		"Groceries,CHF,1,-60.00,0.00,-60.00\n", out.String())
}

func TestRun_InvalidOptions(t *testing.T) {
	l, _, _ := seededLedger(t)
	logger := logging.NewMockLogger()
	var out bytes.Buffer

	assert.Error(t, Run(context.Background(), l, logger, &out, Options{Format: "xml"}))
	assert.Error(t, Run(context.Background(), l, logger, &out, Options{Format: "text", By: "week"}))
	assert.Error(t, Run(context.Background(), l, logger, &out, Options{Format: "text", From: "yesterday"}))
	assert.Error(t, Run(context.Background(), l, logger, &out, Options{Format: "text", From: "2025-02-01", To: "2025-01-01"}))
}

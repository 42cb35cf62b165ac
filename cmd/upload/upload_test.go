package upload

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-csv/internal/config"
	"fjacquet/statement-csv/internal/container"
	"fjacquet/statement-csv/internal/ledger"
	"fjacquet/statement-csv/internal/logging"
)

const revolutInput = `Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance
CARD_PAYMENT,Current,2025-01-02 10:00:00,2025-01-03 09:00:00,Coop Pronto,-12.50,0.00,CHF,COMPLETED,100.00
TRANSFER,Current,2025-01-05 10:00:00,2025-01-05 10:00:00,To CHF Vault,50.00,0.00,CHF,COMPLETED,50.00
`

func newTestContainer(t *testing.T) *container.Container {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Log: config.LogConfig{Level: "info", Format: "text"},
		CSV: config.CSVConfig{Delimiter: ","},
		Categorization: config.CategorizationConfig{
			RulesFile:       filepath.Join(dir, "categories.yaml"),
			MerchantMapFile: filepath.Join(dir, "merchants.yaml"),
		},
		Enrichment: config.EnrichmentConfig{Provider: config.ProviderPlaces},
		Storage:    config.StorageConfig{Database: filepath.Join(dir, "ledger.db")},
	}
	c, err := container.NewContainer(cfg, container.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRun_StoresUpload(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	input := filepath.Join(t.TempDir(), "revolut_jan.csv")
	require.NoError(t, os.WriteFile(input, []byte(revolutInput), 0600))

	upload, result, err := Run(ctx, c, input, "", "")
	require.NoError(t, err)
	assert.Equal(t, "revolut_jan.csv", upload.Name)
	assert.Equal(t, "revolut", upload.Format)
	assert.Equal(t, 2, upload.TransactionCount)
	require.Len(t, result.Transactions, 2)

	l, err := c.GetLedger(ctx)
	require.NoError(t, err)
	stored, err := l.Transactions(ctx, ledger.Filter{UploadIDs: []string{upload.ID}})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "To CHF Vault", stored[0].Description)
	assert.True(t, stored[0].Amount.IsNegative())
	assert.Equal(t, "Vault", stored[0].Category)

	var out bytes.Buffer
	require.NoError(t, List(ctx, l, &out))
	assert.Contains(t, out.String(), upload.ID)
	assert.Contains(t, out.String(), "revolut_jan.csv")
}

func TestRun_NamedAndFailures(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "statement.csv")
	require.NoError(t, os.WriteFile(input, []byte(revolutInput), 0600))

	upload, _, err := Run(ctx, c, input, "Revolut January", "revolut")
	require.NoError(t, err)
	assert.Equal(t, "Revolut January", upload.Name)

	_, _, err = Run(ctx, c, input, "", "zkb")
	assert.Error(t, err)

	l, err := c.GetLedger(ctx)
	require.NoError(t, err)
	uploads, err := l.ListUploads(ctx)
	require.NoError(t, err)
	assert.Len(t, uploads, 1)
}

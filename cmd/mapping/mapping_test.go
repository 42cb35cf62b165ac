package mapping

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-csv/internal/categorizer"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/store"
)

func openStore(t *testing.T, content string) *store.YAMLMerchantStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "merchants.yaml")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	s, err := store.OpenMerchantStore(path, logging.NewMockLogger())
	require.NoError(t, err)
	return s
}

func TestGet(t *testing.T) {
	s := openStore(t, "merchants:\n  coop pronto: Groceries\n")

	var out bytes.Buffer
	require.NoError(t, Get(s, &out, "  COOP   Pronto "))
	assert.Equal(t, "Groceries\n", out.String())

	err := Get(s, &out, "Unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"unknown"`)
}

func TestSet(t *testing.T) {
	s := openStore(t, "")
	cat := categorizer.NewCategorizer(s, nil, logging.NewMockLogger())

	var out bytes.Buffer
	require.NoError(t, Set(cat, &out, "Rent Landlord AG", "Housing"))
	assert.Equal(t, "rent landlord ag -> Housing\n", out.String())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "rent landlord ag: Housing")

	res, err := cat.Resolve(context.Background(), "RENT LANDLORD AG")
	require.NoError(t, err)
	assert.Equal(t, "Housing", res.Category)
	assert.Equal(t, categorizer.SourceMerchantMap, res.Source)

	assert.Error(t, Set(cat, &out, "   ", "Housing"))
	assert.Error(t, Set(cat, &out, "Rent", ""))
}

func TestList(t *testing.T) {
	s := openStore(t, "merchants:\n  zkb fee: Fee\n  coop: Groceries\n")

	var out bytes.Buffer
	require.NoError(t, List(s, &out))
	assert.Equal(t, "coop     Groceries\nzkb fee  Fee\n2 mappings\n", out.String())
}

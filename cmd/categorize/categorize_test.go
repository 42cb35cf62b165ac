package categorize

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

func newCategorizer(t *testing.T) (*categorizer.Categorizer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "merchants.yaml")
	merchants, err := store.OpenMerchantStore(path, logging.NewMockLogger())
	require.NoError(t, err)
	return categorizer.NewCategorizer(merchants, nil, logging.NewMockLogger()), path
}

func TestRun_KeywordIsLearned(t *testing.T) {
	cat, path := newCategorizer(t)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), cat, &out, "Coop Pronto Zurich"))
	assert.Contains(t, out.String(), "Category: Groceries")
	assert.Contains(t, out.String(), "Source:   keyword")
	assert.Contains(t, out.String(), "Saved to merchant map")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "coop pronto zurich: Groceries")

	out.Reset()
	require.NoError(t, Run(context.Background(), cat, &out, "coop  pronto zurich"))
	assert.Contains(t, out.String(), "Source:   merchant_map")
	assert.NotContains(t, out.String(), "Saved")
}

func TestRun_Unknown(t *testing.T) {
	cat, path := newCategorizer(t)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), cat, &out, "Totally Unknown Shop XYZ"))
	assert.Contains(t, out.String(), "Category: Uncounted")
	assert.Contains(t, out.String(), "Source:   fallback")
	assert.NoFileExists(t, path)
}

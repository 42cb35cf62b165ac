package store

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/parsererror"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Coop Zurich  ", "coop zurich"},
		{"COOP   ZURICH", "coop zurich"},
		{"Café\tBAR", "café bar"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.in), tt.in)
	}
}

func TestOpenMerchantStore_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "merchants.yaml")
	s, err := OpenMerchantStore(path, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Zero(t, s.Len())

	// Flush without changes writes nothing
	require.NoError(t, s.Flush())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestMerchantStore_PutFlushReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merchants.yaml")
	s, err := OpenMerchantStore(path, nil)
	require.NoError(t, err)

	require.NoError(t, s.Put("zzz shop", "Shopping"))
	require.NoError(t, s.Put("coop zurich", "Groceries"))
	require.NoError(t, s.Flush())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.True(t, strings.HasPrefix(text, "merchants:"))
	assert.Less(t, strings.Index(text, "coop zurich"), strings.Index(text, "zzz shop"), "keys are sorted")

	reloaded, err := OpenMerchantStore(path, nil)
	require.NoError(t, err)
	v, ok := reloaded.Get("coop zurich")
	assert.True(t, ok)
	assert.Equal(t, "Groceries", v)
	assert.Equal(t, []string{"coop zurich", "zzz shop"}, reloaded.Keys())
}

func TestOpenMerchantStore_BareMapIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merchants.yaml")
	writeFile(t, path, "\"  COOP Zurich \": Groceries\nempty: \"\"\n")

	s, err := OpenMerchantStore(path, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"coop zurich": "Groceries"}, s.All())
}

func TestMerchantStore_PutValidation(t *testing.T) {
	s, err := OpenMerchantStore(filepath.Join(t.TempDir(), "m.yaml"), nil)
	require.NoError(t, err)
	assert.Error(t, s.Put("", "Groceries"))
	assert.Error(t, s.Put("coop", ""))
}

func TestMerchantStore_FlushFailureIsMappingStoreError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "sub")

	s, err := OpenMerchantStore(filepath.Join(blocker, "merchants.yaml"), nil)
	require.NoError(t, err)
	require.NoError(t, s.Put("coop", "Groceries"))
	writeFile(t, blocker, "not a directory")

	err = s.Flush()
	var storeErr *parsererror.MappingStoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "write", storeErr.Op)
}

func TestMerchantStore_ConcurrentPut(t *testing.T) {
	s, err := OpenMerchantStore(filepath.Join(t.TempDir(), "m.yaml"), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Put(NormalizeKey("shop "+string(rune('a'+i%26))), "Shopping")
			s.Get("shop a")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 26, s.Len())
	require.NoError(t, s.Flush())
}

func TestMockMerchantStore(t *testing.T) {
	m := NewMockMerchantStore(map[string]string{"coop": "Groceries"})
	v, ok := m.Get("coop")
	assert.True(t, ok)
	assert.Equal(t, "Groceries", v)
	require.NoError(t, m.Put("sbb", "Transport"))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 1, m.GetCalls)
	assert.Equal(t, 1, m.PutCalls)
	require.NoError(t, m.Flush())
	assert.Equal(t, 1, m.FlushCalls)
}

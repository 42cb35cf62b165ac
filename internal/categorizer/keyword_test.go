package categorizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/store"
)

func TestKeywordStrategy_Categorize(t *testing.T) {
	strategy := NewKeywordStrategy(DefaultRules(), logging.NewMockLogger())

	tests := []struct {
		name        string
		description string
		expected    string
		found       bool
	}{
		{"groceries", "COOP-1234 Zurich", models.CategoryGroceries, true},
		{"transport", "SBB CFF FFS", models.CategoryTransport, true},
		{"dining", "Starbucks Zurich", models.CategoryDining, true},
		{"mobile transfer", "TWINT payment to Anna", models.CategoryMobileTransfer, true},
		{"standing order", "Standing order rent", models.CategoryStandingOrder, true},
		{"vault before transfer", "To pocket CHF Tablet from CHF", models.CategoryVault, true},
		{"refund before groceries", "Migros credit", models.CategoryRefund, true},
		{"umlaut keyword", "Überweisung an Max", models.CategoryBankTransfer, true},
		{"no match", "Totally Unknown Shop XYZ", "", false},
		{"empty", "  ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, found, err := strategy.Categorize(context.Background(), tt.description)
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, category)
		})
	}
}

func TestKeywordStrategy_NormalizesKeywords(t *testing.T) {
	strategy := NewKeywordStrategy([]models.CategoryRule{
		{Name: "Pets", Keywords: []string{"  FRESSNAPF ", ""}},
	}, nil)

	require.Len(t, strategy.Rules(), 1)
	assert.Equal(t, []string{"fressnapf"}, strategy.Rules()[0].Keywords)

	category, found, err := strategy.Categorize(context.Background(), "Fressnapf Winterthur")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Pets", category)
	assert.Equal(t, SourceKeyword, strategy.Name())
}

func TestDirectMappingStrategy(t *testing.T) {
	merchants := store.NewMockMerchantStore(map[string]string{"coffee corner": models.CategoryDining})
	strategy := NewDirectMappingStrategy(merchants)

	category, found, err := strategy.Categorize(context.Background(), " Coffee   CORNER")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.CategoryDining, category)

	_, found, err = strategy.Categorize(context.Background(), "coffee")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, merchants.PutCalls)
	assert.Equal(t, SourceMerchantMap, strategy.Name())
}

func TestDefaultRules(t *testing.T) {
	names := CategoryNames(DefaultRules())
	require.NotEmpty(t, names)
	assert.Equal(t, models.CategoryRefund, names[0])
	assert.Equal(t, models.CategoryVault, names[1])
	assert.NotContains(t, names, models.CategoryUncounted)
}

package categorizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
	"fjacquet/statement-csv/internal/store"
)

type stubEnricher struct {
	labels []string
	err    error
	calls  int
}

func (s *stubEnricher) Name() string { return "stub" }

func (s *stubEnricher) Lookup(ctx context.Context, _ string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.labels, ctx.Err()
}

func newTestCategorizer(mappings map[string]string, opts ...Option) (*Categorizer, *store.MockMerchantStore) {
	merchants := store.NewMockMerchantStore(mappings)
	return NewCategorizer(merchants, nil, logging.NewMockLogger(), opts...), merchants
}

func TestCategorizer_RefundHasPriority(t *testing.T) {
	c, _ := newTestCategorizer(nil)

	for _, desc := range []string{"Refund Migros Zurich", "Credit SBB ticket", "COOP refund"} {
		category, _, err := c.Categorize(context.Background(), desc)
		require.NoError(t, err)
		assert.Equal(t, models.CategoryRefund, category, desc)
	}
}

func TestCategorizer_KeywordWritesThrough(t *testing.T) {
	c, merchants := newTestCategorizer(nil)
	ctx := context.Background()

	first, err := c.Resolve(ctx, "  Migros  Zurich HB ")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryGroceries, first.Category)
	assert.Equal(t, SourceKeyword, first.Source)
	assert.True(t, first.Learned)
	assert.Equal(t, models.CategoryGroceries, merchants.Mappings["migros zurich hb"])

	second, err := c.Resolve(ctx, "MIGROS ZURICH HB")
	require.NoError(t, err)
	assert.Equal(t, first.Category, second.Category)
	assert.Equal(t, SourceMerchantMap, second.Source)
	assert.False(t, second.Learned)
	assert.Equal(t, 1, merchants.PutCalls)
}

func TestCategorizer_MerchantMapBeatsKeywords(t *testing.T) {
	c, merchants := newTestCategorizer(map[string]string{"migros bank": models.CategoryBankTransfer})

	category, updated, err := c.Categorize(context.Background(), "Migros Bank")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryBankTransfer, category)
	assert.False(t, updated)
	assert.Equal(t, 0, merchants.PutCalls)
}

func TestCategorizer_UnknownFallsBackWithoutWriting(t *testing.T) {
	c, merchants := newTestCategorizer(nil)

	res, err := c.Resolve(context.Background(), "Totally Unknown Shop XYZ")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryUncounted, res.Category)
	assert.Equal(t, SourceFallback, res.Source)
	assert.False(t, res.Learned)
	assert.Empty(t, merchants.Mappings)
	assert.Equal(t, 0, merchants.PutCalls)
}

func TestCategorizer_EmptyDescription(t *testing.T) {
	c, merchants := newTestCategorizer(nil)

	category, updated, err := c.Categorize(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryUncounted, category)
	assert.False(t, updated)
	assert.Equal(t, 0, merchants.GetCalls)
}

func TestCategorizer_VaultTransfer(t *testing.T) {
	c, _ := newTestCategorizer(nil)

	category, _, err := c.Categorize(context.Background(), "To CHF Vault")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryVault, category)
}

func TestCategorizer_Enrichment(t *testing.T) {
	t.Run("translated label is learned", func(t *testing.T) {
		enricher := &stubEnricher{labels: []string{"point_of_interest", "restaurant"}}
		c, merchants := newTestCategorizer(nil, WithEnricher(enricher, time.Second))
		require.True(t, c.EnrichmentEnabled())

		res, err := c.Resolve(context.Background(), "Trattoria Roma")
		require.NoError(t, err)
		assert.Equal(t, models.CategoryDining, res.Category)
		assert.Equal(t, SourceEnrichment, res.Source)
		assert.True(t, res.Learned)
		assert.Equal(t, models.CategoryDining, merchants.Mappings["trattoria roma"])
	})

	t.Run("keyword hit skips enrichment", func(t *testing.T) {
		enricher := &stubEnricher{labels: []string{"restaurant"}}
		c, _ := newTestCategorizer(nil, WithEnricher(enricher, 0))

		_, _, err := c.Categorize(context.Background(), "Coop Pronto")
		require.NoError(t, err)
		assert.Equal(t, 0, enricher.calls)
	})

	t.Run("failure is not fatal", func(t *testing.T) {
		enricher := &stubEnricher{err: errors.New("quota exceeded")}
		c, merchants := newTestCategorizer(nil, WithEnricher(enricher, 0))

		res, err := c.Resolve(context.Background(), "Trattoria Roma")
		require.NoError(t, err)
		assert.Equal(t, models.CategoryUncounted, res.Category)
		var enrichErr *parsererror.EnrichmentError
		require.ErrorAs(t, res.EnrichmentErr, &enrichErr)
		assert.Equal(t, "stub", enrichErr.Provider)
		assert.Empty(t, merchants.Mappings)
	})

	t.Run("untranslatable labels fall back", func(t *testing.T) {
		enricher := &stubEnricher{labels: []string{"establishment"}}
		c, merchants := newTestCategorizer(nil, WithEnricher(enricher, 0))

		res, err := c.Resolve(context.Background(), "Trattoria Roma")
		require.NoError(t, err)
		assert.Equal(t, models.CategoryUncounted, res.Category)
		assert.NoError(t, res.EnrichmentErr)
		assert.Empty(t, merchants.Mappings)
	})

	t.Run("disabled by default", func(t *testing.T) {
		c, _ := newTestCategorizer(nil, WithEnricher(nil, 0))
		assert.False(t, c.EnrichmentEnabled())
	})
}

func TestCategorizer_StoreFailureIsFatal(t *testing.T) {
	c, merchants := newTestCategorizer(nil)
	merchants.PutError = errors.New("disk full")

	_, _, err := c.Categorize(context.Background(), "Migros")
	require.Error(t, err)
	var storeErr *parsererror.MappingStoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "put", storeErr.Op)

	merchants.FlushError = &parsererror.MappingStoreError{Path: "m.yaml", Op: "write", Err: errors.New("ro")}
	err = c.Flush()
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "write", storeErr.Op)
}

func TestCategorizer_Assign(t *testing.T) {
	c, merchants := newTestCategorizer(nil)

	require.NoError(t, c.Assign("Totally Unknown Shop XYZ", "Hobbies"))
	assert.Equal(t, "Hobbies", merchants.Mappings["totally unknown shop xyz"])

	res, err := c.Resolve(context.Background(), "totally unknown shop xyz")
	require.NoError(t, err)
	assert.Equal(t, "Hobbies", res.Category)
	assert.Equal(t, SourceMerchantMap, res.Source)

	assert.Error(t, c.Assign("", "Hobbies"))
	assert.Error(t, c.Assign("x", " "))
}

func TestCategorizer_CustomRulesOrder(t *testing.T) {
	rules := []models.CategoryRule{
		{Name: "Coffee", Keywords: []string{"starbucks"}},
		{Name: models.CategoryDining, Keywords: []string{"starbucks", "restaurant"}},
	}
	c := NewCategorizer(store.NewMockMerchantStore(nil), rules, nil)

	category, _, err := c.Categorize(context.Background(), "STARBUCKS Bahnhof")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", category)
	assert.Equal(t, []string{"Coffee", models.CategoryDining}, c.KnownCategories())
}

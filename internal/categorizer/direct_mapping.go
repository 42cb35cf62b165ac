package categorizer

import (
	"context"

	"fjacquet/statement-csv/internal/store"
)

// DirectMappingStrategy looks a description up in the merchant map. It only
// reads; learning is done by the Categorizer.
type DirectMappingStrategy struct {
	store store.MerchantStore
}

// NewDirectMappingStrategy creates a strategy over s.
func NewDirectMappingStrategy(s store.MerchantStore) *DirectMappingStrategy {
	return &DirectMappingStrategy{store: s}
}

// Name returns the name of this strategy for logging and debugging.
func (s *DirectMappingStrategy) Name() string {
	return SourceMerchantMap
}

// Categorize returns the mapped category for the normalized description.
func (s *DirectMappingStrategy) Categorize(_ context.Context, description string) (string, bool, error) {
	key := store.NormalizeKey(description)
	if key == "" {
		return "", false, nil
	}
	category, ok := s.store.Get(key)
	if !ok || category == "" {
		return "", false, nil
	}
	return category, true, nil
}

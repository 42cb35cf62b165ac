// Package categorizer resolves a transaction description to a category:
// learned merchant map first, then ordered keyword rules, then optional
// external enrichment, then the Uncounted fallback.
package categorizer

import "context"

// Resolution sources, in evaluation order.
const (
	SourceMerchantMap = "merchant_map"
	SourceKeyword     = "keyword"
	SourceEnrichment  = "enrichment"
	SourceFallback    = "fallback"
	SourceManual      = "manual"
)

// Strategy is one step of the resolution chain.
type Strategy interface {
	// Categorize returns the category and true on a hit. An error means the
	// step could not run; the chain decides whether that is fatal.
	Categorize(ctx context.Context, description string) (string, bool, error)

	// Name returns the name of this strategy for logging.
	Name() string
}

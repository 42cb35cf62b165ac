package categorizer

import (
	"context"
	"time"

	"fjacquet/statement-csv/internal/enrichment"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/parsererror"
)

// EnrichmentStrategy asks an external provider for labels and translates
// them into a known category.
type EnrichmentStrategy struct {
	enricher enrichment.Enricher
	known    []string
	timeout  time.Duration
	logger   logging.Logger
}

// NewEnrichmentStrategy wraps enricher. known lists the category names a
// provider label may resolve to; timeout bounds each lookup when positive.
func NewEnrichmentStrategy(enricher enrichment.Enricher, known []string, timeout time.Duration, logger logging.Logger) *EnrichmentStrategy {
	return &EnrichmentStrategy{
		enricher: enricher,
		known:    known,
		timeout:  timeout,
		logger:   logging.OrDefault(logger),
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *EnrichmentStrategy) Name() string {
	return SourceEnrichment
}

// Categorize returns the translated category. Provider failures come back as
// *parsererror.EnrichmentError.
func (s *EnrichmentStrategy) Categorize(ctx context.Context, description string) (string, bool, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	labels, err := s.enricher.Lookup(ctx, description)
	if err != nil {
		return "", false, &parsererror.EnrichmentError{
			Provider:    s.enricher.Name(),
			Description: description,
			Err:         err,
		}
	}

	category, ok := enrichment.Translate(labels, s.known)
	if !ok {
		s.logger.Debug("Enrichment labels did not translate to a category",
			logging.Field{Key: logging.FieldProvider, Value: s.enricher.Name()},
			logging.Field{Key: logging.FieldDescription, Value: description},
			logging.Field{Key: logging.FieldCount, Value: len(labels)})
		return "", false, nil
	}
	return category, true, nil
}

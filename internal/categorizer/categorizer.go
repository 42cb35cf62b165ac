package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fjacquet/statement-csv/internal/enrichment"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
	"fjacquet/statement-csv/internal/store"
)

// Resolution describes how a description was categorized.
type Resolution struct {
	Category string
	Source   string
	// Learned is true when the outcome was written to the merchant map.
	Learned bool
	// EnrichmentErr holds a recovered enrichment failure, if any.
	EnrichmentErr error
}

// Categorizer runs the resolution chain and writes keyword and enrichment
// outcomes through to the merchant map. Resolve calls are serialized.
type Categorizer struct {
	mu       sync.Mutex
	store    store.MerchantStore
	direct   *DirectMappingStrategy
	keywords *KeywordStrategy
	enricher *EnrichmentStrategy
	logger   logging.Logger
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithEnricher enables the enrichment step. Without it enrichment never runs.
func WithEnricher(e enrichment.Enricher, timeout time.Duration) Option {
	return func(c *Categorizer) {
		if e == nil {
			return
		}
		c.enricher = NewEnrichmentStrategy(e, c.KnownCategories(), timeout, c.logger)
	}
}

// NewCategorizer creates a Categorizer over merchants and rules. Empty rules
// fall back to DefaultRules.
func NewCategorizer(merchants store.MerchantStore, rules []models.CategoryRule, logger logging.Logger, opts ...Option) *Categorizer {
	logger = logging.OrDefault(logger)
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	c := &Categorizer{
		store:    merchants,
		direct:   NewDirectMappingStrategy(merchants),
		keywords: NewKeywordStrategy(rules, logger),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// KnownCategories returns the category names defined by the rules.
func (c *Categorizer) KnownCategories() []string {
	return CategoryNames(c.keywords.Rules())
}

// EnrichmentEnabled reports whether an enricher is configured.
func (c *Categorizer) EnrichmentEnabled() bool {
	return c.enricher != nil
}

// Categorize resolves description and reports whether the merchant map was
// updated.
func (c *Categorizer) Categorize(ctx context.Context, description string) (string, bool, error) {
	res, err := c.Resolve(ctx, description)
	if err != nil {
		return "", false, err
	}
	return res.Category, res.Learned, nil
}

// Resolve runs the chain: merchant map, keyword rules, enrichment, then
// Uncounted. Only a merchant map write failure is returned as an error.
func (c *Categorizer) Resolve(ctx context.Context, description string) (Resolution, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := store.NormalizeKey(description)
	if key == "" {
		return Resolution{Category: models.CategoryUncounted, Source: SourceFallback}, nil
	}

	if category, ok, _ := c.direct.Categorize(ctx, description); ok {
		return Resolution{Category: category, Source: SourceMerchantMap}, nil
	}

	if category, ok, _ := c.keywords.Categorize(ctx, description); ok {
		if err := c.learn(key, category); err != nil {
			return Resolution{}, err
		}
		return Resolution{Category: category, Source: SourceKeyword, Learned: true}, nil
	}

	var enrichErr error
	if c.enricher != nil {
		category, ok, err := c.enricher.Categorize(ctx, description)
		switch {
		case err != nil:
			enrichErr = err
			c.logger.WithError(err).Warn("Enrichment failed, falling back",
				logging.Field{Key: logging.FieldDescription, Value: description})
		case ok:
			if err := c.learn(key, category); err != nil {
				return Resolution{}, err
			}
			return Resolution{Category: category, Source: SourceEnrichment, Learned: true}, nil
		}
	}

	return Resolution{
		Category:      models.CategoryUncounted,
		Source:        SourceFallback,
		EnrichmentErr: enrichErr,
	}, nil
}

// Assign records a manually chosen category for description.
func (c *Categorizer) Assign(description, category string) error {
	key := store.NormalizeKey(description)
	category = strings.TrimSpace(category)
	if key == "" {
		return fmt.Errorf("description must not be empty")
	}
	if category == "" {
		return fmt.Errorf("category must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.learn(key, category); err != nil {
		return err
	}
	c.logger.Info("Mapping assigned",
		logging.Field{Key: logging.FieldStrategy, Value: SourceManual},
		logging.Field{Key: logging.FieldDescription, Value: key},
		logging.Field{Key: logging.FieldCategory, Value: category})
	return nil
}

// Flush persists pending merchant map changes.
func (c *Categorizer) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Flush(); err != nil {
		return asStoreError("flush", err)
	}
	return nil
}

func (c *Categorizer) learn(key, category string) error {
	if err := c.store.Put(key, category); err != nil {
		return asStoreError("put", err)
	}
	c.logger.Debug("Mapping learned",
		logging.Field{Key: logging.FieldDescription, Value: key},
		logging.Field{Key: logging.FieldCategory, Value: category})
	return nil
}

func asStoreError(op string, err error) error {
	var storeErr *parsererror.MappingStoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &parsererror.MappingStoreError{Op: op, Err: err}
}

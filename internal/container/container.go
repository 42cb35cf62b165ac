// Package container provides dependency injection for the statement-csv
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"fjacquet/statement-csv/internal/categorizer"
	"fjacquet/statement-csv/internal/config"
	"fjacquet/statement-csv/internal/direction"
	"fjacquet/statement-csv/internal/enrichment"
	"fjacquet/statement-csv/internal/factory"
	"fjacquet/statement-csv/internal/ledger"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parser"
	"fjacquet/statement-csv/internal/pipeline"
	"fjacquet/statement-csv/internal/store"
)

const defaultEnrichmentTimeout = 10 * time.Second

// Option adjusts how NewContainer wires dependencies.
type Option func(*options)

type options struct {
	logger   logging.Logger
	enrich   bool
	enricher enrichment.Enricher
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithEnrichment turns enrichment on regardless of enrichment.enabled.
func WithEnrichment(enabled bool) Option {
	return func(o *options) { o.enrich = o.enrich || enabled }
}

// WithEnricher uses e instead of building a provider client. Enrichment is
// turned on.
func WithEnricher(e enrichment.Enricher) Option {
	return func(o *options) {
		o.enricher = e
		o.enrich = e != nil
	}
}

// Container holds all application dependencies. It is immutable after
// creation apart from the ledger, which is opened on first use.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	rules       []models.CategoryRule
	merchants   *store.YAMLMerchantStore
	enricher    enrichment.Enricher
	categorizer *categorizer.Categorizer
	registry    *parser.Registry
	pipeline    *pipeline.Pipeline
	delimiter   rune

	ledgerMu sync.Mutex
	ledger   *ledger.Ledger
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = config.ConfigureLoggingFromConfig(cfg, nil)
	}

	rules, err := store.NewCategoryStore(cfg.Categorization.RulesFile, logger).LoadRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load category rules: %w", err)
	}
	if len(rules) == 0 {
		rules = categorizer.DefaultRules()
	}

	merchants, err := store.OpenMerchantStore(cfg.Categorization.MerchantMapFile, logger)
	if err != nil {
		return nil, err
	}

	enricher := o.enricher
	if enricher == nil && (o.enrich || cfg.Enrichment.Enabled) {
		enricher, err = newEnricher(cfg.Enrichment, categorizer.CategoryNames(rules), merchants, logger)
		if err != nil {
			return nil, err
		}
	}

	timeout := time.Duration(cfg.Enrichment.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultEnrichmentTimeout
	}
	cat := categorizer.NewCategorizer(merchants, rules, logger, categorizer.WithEnricher(enricher, timeout))

	registry, err := factory.NewRegistry(&cfg.Parsers, logger)
	if err != nil {
		return nil, err
	}
	fixer := direction.NewFixer(cfg.Categorization.VaultKeywords)

	delimiter := ','
	if r, size := utf8.DecodeRuneInString(cfg.CSV.Delimiter); size > 0 && r != utf8.RuneError {
		delimiter = r
	}

	logger.Debug("Container initialized",
		logging.Field{Key: "rules", Value: len(rules)},
		logging.Field{Key: "merchants", Value: merchants.Len()},
		logging.Field{Key: "enrichment_enabled", Value: cat.EnrichmentEnabled()})

	return &Container{
		logger:      logger,
		config:      cfg,
		rules:       rules,
		merchants:   merchants,
		enricher:    enricher,
		categorizer: cat,
		registry:    registry,
		pipeline:    pipeline.NewPipeline(registry, fixer, cat, logger),
		delimiter:   delimiter,
	}, nil
}

func newEnricher(cfg config.EnrichmentConfig, categories []string, merchants store.MerchantStore, logger logging.Logger) (enrichment.Enricher, error) {
	if err := cfg.RequireKey(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := enrichment.NewGeminiClient(context.Background(), cfg.APIKey, cfg.Model, categories, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderSemantic:
		client, err := enrichment.NewSemanticClient(context.Background(), cfg.APIKey, cfg.EmbeddingModel,
			cfg.SimilarityThreshold, merchants, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		client, err := enrichment.NewPlacesClient(cfg.PlacesAPIKey, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRules returns the keyword rules in priority order.
func (c *Container) GetRules() []models.CategoryRule {
	return c.rules
}

// GetMerchantStore returns the merchant map.
func (c *Container) GetMerchantStore() *store.YAMLMerchantStore {
	return c.merchants
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetRegistry returns the normalizer registry.
func (c *Container) GetRegistry() *parser.Registry {
	return c.registry
}

// StatementType parses a --type value and checks that a normalizer is
// registered for it. The empty string means detection.
func (c *Container) StatementType(s string) (models.FormatKind, error) {
	kind, err := models.ParseFormatKind(s)
	if err != nil || kind == models.FormatUnknown {
		return kind, err
	}
	formats := c.registry.Formats()
	for _, f := range formats {
		if f == kind {
			return kind, nil
		}
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return models.FormatUnknown, fmt.Errorf("statement type %q is not available (have %s)", s, strings.Join(names, ", "))
}

// GetPipeline returns the preprocessing pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetDelimiter returns the configured output delimiter.
func (c *Container) GetDelimiter() rune {
	return c.delimiter
}

// GetLedger opens the ledger on first use.
func (c *Container) GetLedger(ctx context.Context) (*ledger.Ledger, error) {
	c.ledgerMu.Lock()
	defer c.ledgerMu.Unlock()
	if c.ledger != nil {
		return c.ledger, nil
	}
	l, err := ledger.Open(ctx, c.config.Storage.Database, c.logger)
	if err != nil {
		return nil, err
	}
	c.ledger = l
	return l, nil
}

// Close flushes the merchant map and releases the enricher and the ledger.
// Every resource is released even when an earlier one fails; the first
// error is returned.
func (c *Container) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	keep(c.categorizer.Flush())
	if closer, ok := c.enricher.(io.Closer); ok {
		keep(closer.Close())
	}

	c.ledgerMu.Lock()
	if c.ledger != nil {
		keep(c.ledger.Close())
		c.ledger = nil
	}
	c.ledgerMu.Unlock()

	c.logger.Debug("Container closed")
	return firstErr
}

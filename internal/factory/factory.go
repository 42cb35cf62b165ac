// Package factory builds the statement normalizers from configuration.
package factory

import (
	"fmt"

	"fjacquet/statement-csv/internal/canonicalparser"
	"fjacquet/statement-csv/internal/config"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parser"
	"fjacquet/statement-csv/internal/revolutparser"
	"fjacquet/statement-csv/internal/zkbparser"
)

// SupportedFormats lists every format a registry built here can normalize.
var SupportedFormats = []models.FormatKind{
	models.FormatCanonical,
	models.FormatRevolut,
	models.FormatZKB,
}

// GetNormalizer returns a new normalizer for the given format. A nil
// configuration uses the built-in defaults.
func GetNormalizer(kind models.FormatKind, cfg *config.ParsersConfig, logger logging.Logger) (models.Normalizer, error) {
	if cfg == nil {
		cfg = &config.ParsersConfig{}
	}
	switch kind {
	case models.FormatZKB:
		return zkbparser.NewParser(logger, zkbparser.Options{
			DefaultCurrency: cfg.ZKB.Currency,
		}), nil
	case models.FormatRevolut:
		return revolutparser.NewParser(logger, revolutparser.Options{
			DefaultCurrency: cfg.Revolut.Currency,
			CompletedOnly:   cfg.Revolut.CompletedOnly,
		}), nil
	case models.FormatCanonical:
		return canonicalparser.NewParser(logger, canonicalparser.Options{
			DefaultCurrency: cfg.ZKB.Currency,
		}), nil
	default:
		return nil, fmt.Errorf("unknown statement format: %s", kind)
	}
}

// NewRegistry returns a registry holding a normalizer for every supported format.
func NewRegistry(cfg *config.ParsersConfig, logger logging.Logger) (*parser.Registry, error) {
	registry := parser.NewRegistry()
	for _, kind := range SupportedFormats {
		n, err := GetNormalizer(kind, cfg, logger)
		if err != nil {
			return nil, err
		}
		registry.Register(n)
	}
	return registry, nil
}

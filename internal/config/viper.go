// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/statement-csv/internal/logging"
)

// Enrichment providers accepted by enrichment.provider.
const (
	ProviderPlaces   = "places"
	ProviderGemini   = "gemini"
	ProviderSemantic = "semantic"
)

// LogConfig controls the logrus adapter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CSVConfig controls the canonical CSV output.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// CategorizationConfig locates the rule and merchant map files.
type CategorizationConfig struct {
	RulesFile       string   `mapstructure:"rules_file" yaml:"rules_file"`
	MerchantMapFile string   `mapstructure:"merchant_map_file" yaml:"merchant_map_file"`
	VaultKeywords   []string `mapstructure:"vault_keywords" yaml:"vault_keywords"`
}

// EnrichmentConfig controls the optional external lookup.
type EnrichmentConfig struct {
	Enabled             bool    `mapstructure:"enabled" yaml:"enabled"`
	Provider            string  `mapstructure:"provider" yaml:"provider"`
	Model               string  `mapstructure:"model" yaml:"model"`
	EmbeddingModel      string  `mapstructure:"embedding_model" yaml:"embedding_model"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" yaml:"similarity_threshold"`
	TimeoutSeconds      int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	APIKey              string  `mapstructure:"api_key" yaml:"-"` // Never serialize API keys
	PlacesAPIKey        string  `mapstructure:"places_api_key" yaml:"-"`
}

// StorageConfig locates the SQLite ledger.
type StorageConfig struct {
	Database string `mapstructure:"database" yaml:"database"`
}

// ParsersConfig holds per-format options.
type ParsersConfig struct {
	ZKB struct {
		Currency string `mapstructure:"currency" yaml:"currency"`
	} `mapstructure:"zkb" yaml:"zkb"`
	Revolut struct {
		Currency      string `mapstructure:"currency" yaml:"currency"`
		CompletedOnly bool   `mapstructure:"completed_only" yaml:"completed_only"`
	} `mapstructure:"revolut" yaml:"revolut"`
}

// Config represents the complete application configuration
type Config struct {
	Log            LogConfig            `mapstructure:"log" yaml:"log"`
	CSV            CSVConfig            `mapstructure:"csv" yaml:"csv"`
	Categorization CategorizationConfig `mapstructure:"categorization" yaml:"categorization"`
	Enrichment     EnrichmentConfig     `mapstructure:"enrichment" yaml:"enrichment"`
	Storage        StorageConfig        `mapstructure:"storage" yaml:"storage"`
	Parsers        ParsersConfig        `mapstructure:"parsers" yaml:"parsers"`
}

// InitializeConfigFile loads defaults, the config file and the environment,
// in increasing priority. An empty path searches the standard locations.
func InitializeConfigFile(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.statement-csv")
		v.AddConfigPath(".statement-csv")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("STMT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if path != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			Logger.Warnf("Error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	// 5. API keys keep their conventional, unprefixed names
	if err := v.BindEnv("enrichment.api_key", "STMT_ENRICHMENT_API_KEY", "GEMINI_API_KEY"); err != nil {
		Logger.Warnf("Failed to bind GEMINI_API_KEY environment variable: %v", err)
	}
	if err := v.BindEnv("enrichment.places_api_key", "STMT_ENRICHMENT_PLACES_API_KEY", "GOOGLE_PLACES_API_KEY"); err != nil {
		Logger.Warnf("Failed to bind GOOGLE_PLACES_API_KEY environment variable: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")

	// Categorization defaults
	v.SetDefault("categorization.rules_file", "categories.yaml")
	v.SetDefault("categorization.merchant_map_file", "database/merchants.yaml")
	v.SetDefault("categorization.vault_keywords", []string{})

	// Enrichment defaults
	v.SetDefault("enrichment.enabled", false)
	v.SetDefault("enrichment.provider", ProviderPlaces)
	v.SetDefault("enrichment.model", "gemini-1.5-flash")
	v.SetDefault("enrichment.embedding_model", "text-embedding-004")
	v.SetDefault("enrichment.similarity_threshold", 0.75)
	v.SetDefault("enrichment.timeout_seconds", 10)
	v.SetDefault("enrichment.api_key", "")
	v.SetDefault("enrichment.places_api_key", "")

	// Storage defaults
	v.SetDefault("storage.database", "statement-csv.db")

	// Parser defaults
	v.SetDefault("parsers.zkb.currency", "CHF")
	v.SetDefault("parsers.revolut.currency", "EUR")
	v.SetDefault("parsers.revolut.completed_only", false)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	switch config.Enrichment.Provider {
	case ProviderPlaces, ProviderGemini, ProviderSemantic:
	default:
		return fmt.Errorf("invalid enrichment provider: %s (must be '%s', '%s' or '%s')",
			config.Enrichment.Provider, ProviderPlaces, ProviderGemini, ProviderSemantic)
	}

	if t := config.Enrichment.SimilarityThreshold; t < 0 || t > 1 {
		return fmt.Errorf("enrichment.similarity_threshold must be between 0 and 1, got: %g", t)
	}

	// Validate enrichment only when it can run
	if config.Enrichment.Enabled {
		if err := config.Enrichment.RequireKey(); err != nil {
			return err
		}

		if config.Enrichment.TimeoutSeconds < 1 || config.Enrichment.TimeoutSeconds > 300 {
			return fmt.Errorf("enrichment.timeout_seconds must be between 1 and 300, got: %d", config.Enrichment.TimeoutSeconds)
		}
	}

	return nil
}

// RequireKey reports a missing API key for the selected provider.
func (e EnrichmentConfig) RequireKey() error {
	switch e.Provider {
	case ProviderGemini, ProviderSemantic:
		if e.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when %s enrichment is enabled", e.Provider)
		}
	default:
		if e.PlacesAPIKey == "" {
			return fmt.Errorf("GOOGLE_PLACES_API_KEY required when places enrichment is enabled")
		}
	}
	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the log
// section, writing to out (stderr when nil).
func ConfigureLoggingFromConfig(config *Config, out io.Writer) logging.Logger {
	return logging.NewLogrusAdapterFromLogger(logging.NewLogrus(logging.Options{
		Level:  config.Log.Level,
		Format: config.Log.Format,
		Output: out,
	}))
}

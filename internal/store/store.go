// Package store persists the categorization data: keyword rules and the
// learned merchant map, both as YAML files.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// AppDirName is the directory under ~/.config searched for data files.
const AppDirName = "statement-csv"

// FindConfigFile looks for a configuration file in standard locations: the
// path itself, ./config, ./database and ~/.config/statement-csv.
func FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", AppDirName, filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// CategoryStore loads the ordered keyword rules.
type CategoryStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewCategoryStore creates a store reading rules from rulesFile.
func NewCategoryStore(rulesFile string, logger logging.Logger) *CategoryStore {
	return &CategoryStore{RulesFile: rulesFile, logger: logging.OrDefault(logger)}
}

// LoadRules reads the rules file. The file is either a top-level
// "categories:" list or a bare list; document order is rule priority.
// A missing file yields (nil, nil) so callers fall back to built-in rules.
func (s *CategoryStore) LoadRules() ([]models.CategoryRule, error) {
	filename := s.RulesFile
	if filename == "" {
		filename = "categories.yaml"
	}

	filePath, err := FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("Category rules file not found, using built-in rules",
				logging.Field{Key: logging.FieldFile, Value: filename})
			return nil, nil
		}
		return nil, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err == nil && len(cfg.Categories) > 0 {
		s.logRules(filePath, len(cfg.Categories))
		return cfg.Categories, nil
	}

	var rules []models.CategoryRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", filePath, err)
	}
	s.logRules(filePath, len(rules))
	return rules, nil
}

func (s *CategoryStore) logRules(path string, n int) {
	s.logger.Debug("Loaded category rules",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: n})
}

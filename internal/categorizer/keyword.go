package categorizer

import (
	"context"
	"strings"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// KeywordStrategy matches descriptions against ordered keyword rules. A rule
// matches when any of its keywords is a case-insensitive substring of the
// description; the first matching rule wins.
type KeywordStrategy struct {
	rules  []models.CategoryRule
	logger logging.Logger
}

// NewKeywordStrategy creates a KeywordStrategy. Keywords are lowercased once
// here and blank keywords are dropped.
func NewKeywordStrategy(rules []models.CategoryRule, logger logging.Logger) *KeywordStrategy {
	prepared := make([]models.CategoryRule, 0, len(rules))
	for _, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				kws = append(kws, kw)
			}
		}
		prepared = append(prepared, models.CategoryRule{Name: r.Name, Keywords: kws})
	}
	return &KeywordStrategy{rules: prepared, logger: logging.OrDefault(logger)}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return SourceKeyword
}

// Rules returns the prepared rules in priority order.
func (s *KeywordStrategy) Rules() []models.CategoryRule {
	return s.rules
}

// Categorize returns the first rule whose keyword appears in description.
func (s *KeywordStrategy) Categorize(_ context.Context, description string) (string, bool, error) {
	text := strings.ToLower(description)
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}

	for _, rule := range s.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				s.logger.Debug("Transaction categorized using keyword matching",
					logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
					logging.Field{Key: logging.FieldDescription, Value: description},
					logging.Field{Key: "keyword", Value: kw},
					logging.Field{Key: logging.FieldCategory, Value: rule.Name})
				return rule.Name, true, nil
			}
		}
	}
	return "", false, nil
}

package models

import (
	"sort"

	"fjacquet/statement-csv/internal/logging"
)

// NormalizeStats counts what a Normalizer did to the input.
type NormalizeStats struct {
	RowsRead             int
	ChildRowsExpanded    int
	ParentRowsDropped    int
	ChildCountMismatches int
	RowsSkipped          int
	RowDefaults          int
	RowErrors            []error
}

// RunSummary describes one pipeline run.
type RunSummary struct {
	Source    string
	Format    FormatKind
	Separator rune
	NormalizeStats
	Transactions       int
	DirectionFixes     int
	Preassigned        int
	MappingsLearned    int
	EnrichmentFailures int
	Uncounted          int
	Categories         map[string]int
}

// CategoryCount is one bucket of the category distribution.
type CategoryCount struct {
	Category string
	Count    int
}

// Distribution returns the category counts sorted by descending count, then name.
func (s RunSummary) Distribution() []CategoryCount {
	out := make([]CategoryCount, 0, len(s.Categories))
	for c, n := range s.Categories {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// CategorizedRate returns the share of transactions not left Uncounted, in percent.
func (s RunSummary) CategorizedRate() float64 {
	if s.Transactions == 0 {
		return 0.0
	}
	return float64(s.Transactions-s.Uncounted) / float64(s.Transactions) * 100.0
}

// LogSummary logs the run summary as one structured line plus one debug line
// per category.
func (s RunSummary) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	logger.Info("Preprocessing summary",
		logging.Field{Key: logging.FieldFile, Value: s.Source},
		logging.Field{Key: logging.FieldFormat, Value: s.Format.String()},
		logging.Field{Key: logging.FieldDelimiter, Value: string(s.Separator)},
		logging.Field{Key: "rows_read", Value: s.RowsRead},
		logging.Field{Key: "transactions", Value: s.Transactions},
		logging.Field{Key: "child_rows_expanded", Value: s.ChildRowsExpanded},
		logging.Field{Key: "parent_rows_dropped", Value: s.ParentRowsDropped},
		logging.Field{Key: "child_count_mismatches", Value: s.ChildCountMismatches},
		logging.Field{Key: "rows_skipped", Value: s.RowsSkipped},
		logging.Field{Key: "row_defaults", Value: s.RowDefaults},
		logging.Field{Key: "direction_fixes", Value: s.DirectionFixes},
		logging.Field{Key: "preassigned", Value: s.Preassigned},
		logging.Field{Key: "mappings_learned", Value: s.MappingsLearned},
		logging.Field{Key: "enrichment_failures", Value: s.EnrichmentFailures},
		logging.Field{Key: "uncounted", Value: s.Uncounted},
		logging.Field{Key: "categorized_rate", Value: s.CategorizedRate()},
	)
	for _, c := range s.Distribution() {
		logger.Debug("Category distribution",
			logging.Field{Key: logging.FieldCategory, Value: c.Category},
			logging.Field{Key: logging.FieldCount, Value: c.Count})
	}
}

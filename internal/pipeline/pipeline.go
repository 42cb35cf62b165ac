// Package pipeline turns a raw statement export into categorized canonical
// transactions: detect, normalize, fix direction, categorize, sort.
package pipeline

import (
	"context"
	"errors"
	"sort"
	"time"

	"fjacquet/statement-csv/internal/categorizer"
	"fjacquet/statement-csv/internal/common"
	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/detector"
	"fjacquet/statement-csv/internal/direction"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parser"
	"fjacquet/statement-csv/internal/parsererror"
)

// Categorizer is the part of categorizer.Categorizer the pipeline needs.
type Categorizer interface {
	Resolve(ctx context.Context, description string) (categorizer.Resolution, error)
	Flush() error
}

// Options select how one input is processed.
type Options struct {
	// Format forces a format instead of detecting it.
	Format models.FormatKind
	// Source names the input in errors and logs.
	Source string
}

// Result is the output of a run.
type Result struct {
	Transactions []models.Transaction
	Summary      models.RunSummary
}

// Pipeline runs one input at a time. It holds no per-run state, so the same
// input always yields the same output for the same merchant map.
type Pipeline struct {
	registry    *parser.Registry
	fixer       *direction.Fixer
	categorizer Categorizer
	logger      logging.Logger
}

// NewPipeline wires the pipeline stages.
func NewPipeline(registry *parser.Registry, fixer *direction.Fixer, cat Categorizer, logger logging.Logger) *Pipeline {
	if fixer == nil {
		fixer = direction.NewFixer(nil)
	}
	return &Pipeline{
		registry:    registry,
		fixer:       fixer,
		categorizer: cat,
		logger:      logging.OrDefault(logger),
	}
}

// Run processes input. FormatError and MappingStoreError abort the run and
// no transactions are returned; malformed rows and enrichment failures are
// only counted in the summary.
func (p *Pipeline) Run(ctx context.Context, input []byte, opts Options) (*Result, error) {
	start := time.Now()
	logger := p.logger.WithField(logging.FieldFile, opts.Source)

	decoded, encoding, err := common.DecodeInput(input)
	if err != nil {
		return nil, &parsererror.FormatError{Source: opts.Source, Err: err}
	}

	det, err := detector.Sniff(decoded, opts.Format)
	if err != nil {
		return nil, withSource(err, opts.Source)
	}
	logger.Debug("Detected statement format",
		logging.Field{Key: logging.FieldFormat, Value: det.Format.String()},
		logging.Field{Key: logging.FieldDelimiter, Value: string(det.Separator)},
		logging.Field{Key: "encoding", Value: encoding})

	normalizer, err := p.registry.Get(det.Format)
	if err != nil {
		return nil, &parsererror.FormatError{Source: opts.Source, Format: det.Format.String(), Err: err}
	}

	header, rows, err := common.ReadRows(decoded, det.Separator)
	if err != nil {
		return nil, &parsererror.FormatError{Source: opts.Source, Format: det.Format.String(), Err: err}
	}
	if err := parser.CheckRequiredColumns(normalizer, header); err != nil {
		return nil, withSource(err, opts.Source)
	}

	transactions, stats, err := normalizer.Normalize(rows)
	if err != nil {
		return nil, withSource(err, opts.Source)
	}

	summary := models.RunSummary{
		Source:         opts.Source,
		Format:         det.Format,
		Separator:      det.Separator,
		NormalizeStats: stats,
		Categories:     make(map[string]int),
	}
	summary.DirectionFixes = p.fixer.Fix(transactions)

	if err := p.categorize(ctx, transactions, &summary); err != nil {
		return nil, err
	}

	SortByDate(transactions)

	if err := p.categorizer.Flush(); err != nil {
		return nil, err
	}

	summary.Transactions = len(transactions)
	logger.Debug("Pipeline run finished",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})

	return &Result{Transactions: transactions, Summary: summary}, nil
}

// categorize fills in every transaction's category. A meaningful category
// already present in the source is kept.
func (p *Pipeline) categorize(ctx context.Context, transactions []models.Transaction, summary *models.RunSummary) error {
	for i := range transactions {
		if err := ctx.Err(); err != nil {
			return err
		}

		tx := &transactions[i]
		if tx.IsCategorized() {
			summary.Preassigned++
		} else {
			res, err := p.categorizer.Resolve(ctx, tx.Description)
			if err != nil {
				return err
			}
			tx.Category = res.Category
			if res.Learned {
				summary.MappingsLearned++
			}
			if res.EnrichmentErr != nil {
				summary.EnrichmentFailures++
			}
		}

		summary.Categories[tx.Category]++
		if tx.Category == models.CategoryUncounted {
			summary.Uncounted++
		}
	}
	return nil
}

// SortByDate stably sorts transactions newest first. Dates are parsed with
// the tolerant day-first parser; values that parse under no layout keep
// their relative input order after every parseable one.
func SortByDate(transactions []models.Transaction) {
	type keyed struct {
		tx     models.Transaction
		date   time.Time
		parsed bool
	}

	items := make([]keyed, len(transactions))
	for i, tx := range transactions {
		t, _, err := dateutils.ParseDate(tx.ValueDate)
		items[i] = keyed{tx: tx, date: t, parsed: err == nil}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.parsed != b.parsed {
			return a.parsed
		}
		if !a.parsed {
			return false
		}
		return a.date.After(b.date)
	})

	for i := range items {
		transactions[i] = items[i].tx
	}
}

func withSource(err error, source string) error {
	var formatErr *parsererror.FormatError
	if errors.As(err, &formatErr) && formatErr.Source == "" {
		formatErr.Source = source
	}
	return err
}

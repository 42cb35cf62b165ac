// Package batch preprocesses every statement in a directory. A file that
// fails is logged and skipped; the others are still written.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/statement-csv/internal/common"
	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/fileutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/pipeline"
)

// OutputPrefix marks files written by a run; such files are not inputs.
const OutputPrefix = "preprocessed_"

// Runner is the pipeline entry point.
type Runner interface {
	Run(ctx context.Context, input []byte, opts pipeline.Options) (*pipeline.Result, error)
}

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// CalculateDateRange returns the range covered by the parseable dates.
func CalculateDateRange(transactions []models.Transaction) DateRange {
	var dr DateRange
	for _, tx := range transactions {
		t, _, err := dateutils.ParseDate(tx.ValueDate)
		if err != nil {
			continue
		}
		dr = dr.Merge(DateRange{Start: t, End: t})
	}
	return dr
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Input     string
	Output    string
	Summary   models.RunSummary
	DateRange DateRange
	// Transactions is what was written to Output.
	Transactions []models.Transaction
	Err          error
}

// Report is the outcome of a directory run.
type Report struct {
	Files      []FileResult
	Succeeded  int
	Failed     int
	Duplicates int
	DateRange  DateRange
}

// Processor runs the pipeline over many files.
type Processor struct {
	runner    Runner
	delimiter rune
	logger    logging.Logger
}

// NewProcessor creates a Processor writing CSV with delimiter.
func NewProcessor(runner Runner, delimiter rune, logger logging.Logger) *Processor {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Processor{runner: runner, delimiter: delimiter, logger: logging.OrDefault(logger)}
}

// ListInputs returns the CSV files of dir that are not earlier outputs.
func (p *Processor) ListInputs(dir string) ([]string, error) {
	files, err := fileutils.ListFilesWithExtension(dir, ".csv")
	if err != nil {
		return nil, err
	}
	inputs := files[:0]
	for _, f := range files {
		if strings.HasPrefix(filepath.Base(f), OutputPrefix) {
			continue
		}
		inputs = append(inputs, f)
	}
	return inputs, nil
}

// OutputPath is where the result for input is written inside outputDir.
func OutputPath(input, outputDir string) string {
	return filepath.Join(outputDir, filepath.Base(common.DefaultOutputPath(input)))
}

// ProcessFile preprocesses one file into outputDir.
func (p *Processor) ProcessFile(ctx context.Context, input, outputDir string, format models.FormatKind) FileResult {
	res := FileResult{Input: input, Output: OutputPath(input, outputDir)}

	data, err := fileutils.ReadFile(input)
	if err != nil {
		res.Err = err
		return res
	}

	result, err := p.runner.Run(ctx, data, pipeline.Options{Format: format, Source: input})
	if err != nil {
		res.Err = err
		return res
	}
	res.Summary = result.Summary
	res.Transactions = result.Transactions
	res.DateRange = CalculateDateRange(result.Transactions)

	if err := common.WriteTransactionsToCSV(result.Transactions, res.Output, p.delimiter, p.logger); err != nil {
		res.Err = err
	}
	return res
}

// ProcessDirectory preprocesses every input of inputDir. progress, when not
// nil, is called after each file. Only listing or output directory errors
// and cancellation are returned; per-file failures are in the report.
func (p *Processor) ProcessDirectory(ctx context.Context, inputDir, outputDir string, format models.FormatKind, progress func(FileResult)) (Report, error) {
	var report Report

	inputs, err := p.ListInputs(inputDir)
	if err != nil {
		return report, err
	}
	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return report, err
	}
	if len(inputs) == 0 {
		p.logger.Warn("No CSV files found in input directory",
			logging.Field{Key: logging.FieldFile, Value: inputDir})
		return report, nil
	}

	p.logger.Info("Found files for processing",
		logging.Field{Key: logging.FieldCount, Value: len(inputs)})

	seen := make(map[string]string)
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := p.ProcessFile(ctx, input, outputDir, format)
		if res.Err != nil {
			report.Failed++
			p.logger.WithError(res.Err).Error("Failed to preprocess file",
				logging.Field{Key: logging.FieldInputFile, Value: input})
		} else {
			report.Succeeded++
			report.DateRange = report.DateRange.Merge(res.DateRange)
			report.Duplicates += p.detectDuplicates(input, res.Transactions, seen)
		}
		report.Files = append(report.Files, res)
		if progress != nil {
			progress(res)
		}
	}

	p.logger.Info("Batch processing completed",
		logging.Field{Key: "succeeded", Value: report.Succeeded},
		logging.Field{Key: "failed", Value: report.Failed},
		logging.Field{Key: "duplicates", Value: report.Duplicates})
	return report, nil
}

// detectDuplicates logs transactions already seen in an earlier file of the
// batch, matched on date, description and amount. Duplicates are kept.
func (p *Processor) detectDuplicates(file string, transactions []models.Transaction, seen map[string]string) int {
	count := 0
	for _, tx := range transactions {
		key := strings.ToLower(strings.TrimSpace(tx.ValueDate) + "|" + strings.TrimSpace(tx.Description) + "|" + tx.Amount.String())
		if first, ok := seen[key]; ok && first != file {
			count++
			p.logger.Warn("Potential duplicate transaction",
				logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)},
				logging.Field{Key: "first_seen", Value: filepath.Base(first)},
				logging.Field{Key: logging.FieldDescription, Value: tx.Description})
			continue
		}
		if _, ok := seen[key]; !ok {
			seen[key] = file
		}
	}
	return count
}

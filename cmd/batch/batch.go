// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/batch"
	"fjacquet/statement-csv/internal/container"
	"fjacquet/statement-csv/internal/validation"
)

var (
	statementType string
	noProgress    bool
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process files from a directory",
	Long: `Preprocess every CSV statement of an input directory into an output directory.

Each input.csv is written as <output>/preprocessed_input.csv. Files that cannot be
processed are reported and skipped; the remaining files are still written.

Example:
  statement-csv batch -i statements/ -o out/`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVar(&statementType, "type", "", "Statement type for every file: zkb, revolut or canonical (default: detect)")
	Cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Do not draw a progress bar")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}

	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("input and output directories must be specified")
	}

	var progress io.Writer
	if !noProgress {
		progress = cmd.ErrOrStderr()
	}
	report, err := Run(cmd.Context(), c, inputDir, outputDir, statementType, progress)
	if err != nil {
		return err
	}

	PrintReport(cmd.OutOrStdout(), report)
	if report.Succeeded == 0 && report.Failed > 0 {
		return fmt.Errorf("no file could be processed")
	}
	return nil
}

// Run processes inputDir into outputDir. A progress bar is drawn on progress
// when it is not nil.
func Run(ctx context.Context, c *container.Container, inputDir, outputDir, statementType string, progress io.Writer) (batch.Report, error) {
	if err := validation.IsValidPath(inputDir); err != nil {
		return batch.Report{}, err
	}
	format, err := c.StatementType(statementType)
	if err != nil {
		return batch.Report{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	processor := batch.NewProcessor(c.GetPipeline(), c.GetDelimiter(), c.GetLogger())

	var onFile func(batch.FileResult)
	if progress != nil {
		inputs, err := processor.ListInputs(inputDir)
		if err != nil {
			return batch.Report{}, err
		}
		bar := newProgressBar(len(inputs), progress)
		onFile = func(r batch.FileResult) {
			bar.Describe(filepath.Base(r.Input))
			_ = bar.Add(1)
		}
		defer func() { _ = bar.Finish() }()
	}

	return processor.ProcessDirectory(ctx, inputDir, outputDir, format, onFile)
}

func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]Preprocessing statements...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

// PrintReport writes one line per file and a total.
func PrintReport(w io.Writer, report batch.Report) {
	for _, f := range report.Files {
		if f.Err != nil {
			fmt.Fprintf(w, "FAILED  %s: %v\n", filepath.Base(f.Input), f.Err)
			continue
		}
		fmt.Fprintf(w, "OK      %s -> %s (%d transactions)\n",
			filepath.Base(f.Input), filepath.Base(f.Output), f.Summary.Transactions)
	}
	fmt.Fprintf(w, "%d processed, %d failed, %d potential duplicates", report.Succeeded, report.Failed, report.Duplicates)
	if dr := report.DateRange.String(); dr != "" {
		fmt.Fprintf(w, ", covering %s", dr)
	}
	fmt.Fprintln(w)
}

// Package preprocess handles the single-file preprocessing command
package preprocess

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/common"
	"fjacquet/statement-csv/internal/container"
	"fjacquet/statement-csv/internal/fileutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/pipeline"
	"fjacquet/statement-csv/internal/validation"
)

// StatementType is the --type flag value shared with the upload command.
var StatementType string

// Cmd represents the preprocess command
var Cmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Normalize and categorize one statement file",
	Long: `Normalize a ZKB, Revolut or canonical CSV export into the canonical layout and
categorize every transaction.

The format is detected from the header unless --type is given. Without -o the
result is written next to the input as preprocessed_<name>.csv.

Example:
  statement-csv preprocess -i zkb_2025_01.csv
  statement-csv preprocess -i revolut.csv -o out/revolut.csv --type revolut --enrich`,
	RunE: preprocessFunc,
}

func init() {
	Cmd.Flags().StringVar(&StatementType, "type", "", "Statement type: zkb, revolut or canonical (default: detect)")
}

func preprocessFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("input file must be specified with -i")
	}

	result, output, err := Run(cmd.Context(), c, root.SharedFlags.Input, root.SharedFlags.Output, StatementType)
	if err != nil {
		return err
	}
	PrintSummary(cmd.OutOrStdout(), result.Summary, output)
	return nil
}

// Run preprocesses input and writes the canonical CSV to output, or to the
// default path when output is empty. It returns the result and the path
// written.
func Run(ctx context.Context, c *container.Container, input, output, statementType string) (*pipeline.Result, string, error) {
	if err := validation.IsValidPath(input); err != nil {
		return nil, "", err
	}
	format, err := c.StatementType(statementType)
	if err != nil {
		return nil, "", err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := fileutils.ReadFile(input)
	if err != nil {
		return nil, "", err
	}

	result, err := c.GetPipeline().Run(ctx, data, pipeline.Options{Format: format, Source: input})
	if err != nil {
		return nil, "", err
	}

	if output == "" {
		output = common.DefaultOutputPath(input)
	}
	if err := common.WriteTransactionsToCSV(result.Transactions, output, c.GetDelimiter(), c.GetLogger()); err != nil {
		return nil, "", err
	}

	result.Summary.LogSummary(c.GetLogger().WithField(logging.FieldOutputFile, output))
	return result, output, nil
}

// PrintSummary writes a short human-readable report of a run.
func PrintSummary(w io.Writer, s models.RunSummary, output string) {
	fmt.Fprintf(w, "%s: %d transactions (%s) -> %s\n", s.Source, s.Transactions, s.Format, output)
	fmt.Fprintf(w, "  categorized %.1f%%, %d learned, %d direction fixes, %d rows defaulted\n",
		s.CategorizedRate(), s.MappingsLearned, s.DirectionFixes, s.RowDefaults)
	for _, cc := range s.Distribution() {
		fmt.Fprintf(w, "  %-20s %d\n", cc.Category, cc.Count)
	}
}

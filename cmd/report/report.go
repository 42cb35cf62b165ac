// Package report prints category and month totals of stored uploads
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/ledger"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/report"
	"fjacquet/statement-csv/internal/validation"
)

// Options are the report command flags.
type Options struct {
	Files            []string
	From             string
	To               string
	By               string
	Format           string
	IncludeUncounted bool
}

var opts Options

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize stored transactions by category or month",
	Long: `Summarize the transactions stored in the ledger by category or by month.

Uncounted and Vault transactions are left out unless --include-uncounted is set.
Dates accept the same formats as statements, e.g. 2025-01-31 or 31.01.2025,
or a bare month such as 2025-01.

Example:
  statement-csv report --from 2025-01-01 --to 2025-03-31 --by month --format csv`,
	Args: cobra.NoArgs,
	RunE: reportFunc,
}

func init() {
	Cmd.Flags().StringSliceVar(&opts.Files, "file", nil, "Upload id to include (repeatable, default: all)")
	Cmd.Flags().StringVar(&opts.From, "from", "", "First value date to include")
	Cmd.Flags().StringVar(&opts.To, "to", "", "Last value date to include")
	Cmd.Flags().StringVar(&opts.By, "by", string(report.ByCategory), "Group by category or month")
	Cmd.Flags().StringVar(&opts.Format, "format", validation.FormatText, "Output format: text, csv or json")
	Cmd.Flags().BoolVar(&opts.IncludeUncounted, "include-uncounted", false, "Include Uncounted and Vault transactions")
}

func reportFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	l, err := c.GetLedger(cmd.Context())
	if err != nil {
		return err
	}
	return Run(cmd.Context(), l, c.GetLogger(), cmd.OutOrStdout(), opts)
}

// Run loads the matching transactions from l and writes the summary to w.
func Run(ctx context.Context, l *ledger.Ledger, logger logging.Logger, w io.Writer, o Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validation.IsValidOutputFormat(o.Format); err != nil {
		return err
	}
	by, ok := report.ParseGroupBy(o.By)
	if !ok {
		return fmt.Errorf("invalid --by value %q (want category or month)", o.By)
	}

	filter := ledger.Filter{UploadIDs: o.Files}
	var err error
	if filter.From, err = parseBound(o.From, false); err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	if filter.To, err = parseBound(o.To, true); err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return fmt.Errorf("--to must not be before --from")
	}

	transactions, err := l.Transactions(ctx, filter)
	if err != nil {
		return err
	}

	summary := report.Aggregate(transactions, report.Options{By: by, IncludeUncounted: o.IncludeUncounted})
	out, err := report.NewGenerator(logger).Generate(summary, o.Format)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// parseBound reads a --from/--to date. A bare month (2025-01) covers the
// whole month: its first day as a lower bound, its last day as an upper one.
func parseBound(s string, upper bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if m, err := dateutils.ParseMonth(s); err == nil {
		if upper {
			return dateutils.EndOfMonth(m), nil
		}
		return dateutils.StartOfMonth(m), nil
	}
	t, _, err := dateutils.ParseDate(s)
	return t, err
}

// Package recategorize re-runs categorization over stored transactions
package recategorize

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/categorizer"
	"fjacquet/statement-csv/internal/ledger"
)

// Options are the recategorize command flags.
type Options struct {
	Files      []string
	Categories []string
}

var opts Options

// Cmd represents the recategorize command
var Cmd = &cobra.Command{
	Use:   "recategorize",
	Short: "Re-run categorization over stored Uncounted transactions",
	Long: `Resolve the category of stored transactions again, after the merchant map or the
keyword rules changed. Only Uncounted transactions are considered unless --category
names others. Vault transactions are never touched.

Categories found by the rules or the lookup are remembered in the merchant map.

Example:
  statement-csv mapping set "Kiosk Lindenhof" Groceries
  statement-csv recategorize`,
	Args: cobra.NoArgs,
	RunE: recategorizeFunc,
}

func init() {
	Cmd.Flags().StringSliceVar(&opts.Files, "file", nil, "Upload id to recategorize (repeatable, default: all)")
	Cmd.Flags().StringSliceVar(&opts.Categories, "category", nil, "Stored category to re-resolve (repeatable, default: Uncounted)")
}

func recategorizeFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	l, err := c.GetLedger(cmd.Context())
	if err != nil {
		return err
	}
	return Run(cmd.Context(), l, c.GetCategorizer(), cmd.OutOrStdout(), opts)
}

// Run resolves the selected stored transactions with cat, updates the
// ledger and flushes the merchant map.
func Run(ctx context.Context, l *ledger.Ledger, cat *categorizer.Categorizer, w io.Writer, o Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := l.Recategorize(ctx, o.Files, o.Categories, func(ctx context.Context, description string) (string, error) {
		category, _, err := cat.Categorize(ctx, description)
		return category, err
	})
	if err != nil {
		return err
	}
	if err := cat.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Examined: %d\n", result.Examined)
	fmt.Fprintf(w, "Updated:  %d\n", result.Updated)
	names := make([]string, 0, len(result.Assigned))
	for name := range result.Assigned {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, result.Assigned[name])
	}
	return nil
}

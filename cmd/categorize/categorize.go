// Package categorize handles single-description categorization
package categorize

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/categorizer"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize <description>",
	Short: "Categorize one transaction description",
	Long: `Resolve the category of a transaction description the same way preprocessing does:
merchant map first, then keyword rules, then the external lookup when --enrich is set.

A category found by the rules or the lookup is remembered in the merchant map.

Example:
  statement-csv categorize "Coop Pronto Zurich"`,
	Args: cobra.MinimumNArgs(1),
	RunE: categorizeFunc,
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	return Run(cmd.Context(), c.GetCategorizer(), cmd.OutOrStdout(), strings.Join(args, " "))
}

// Run resolves description and prints the category and how it was found.
func Run(ctx context.Context, cat *categorizer.Categorizer, w io.Writer, description string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := cat.Resolve(ctx, description)
	if err != nil {
		return err
	}
	if err := cat.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Category: %s\n", res.Category)
	fmt.Fprintf(w, "Source:   %s\n", res.Source)
	if res.Learned {
		fmt.Fprintln(w, "Saved to merchant map")
	}
	if res.EnrichmentErr != nil {
		fmt.Fprintf(w, "Lookup failed: %v\n", res.EnrichmentErr)
	}
	return nil
}

// Package mapping manages the learned merchant map from the command line
package mapping

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/categorizer"
	"fjacquet/statement-csv/internal/store"
)

// Cmd represents the mapping command
var Cmd = &cobra.Command{
	Use:   "mapping",
	Short: "Inspect and edit the merchant map",
	Long: `Inspect and edit the merchant map that remembers the category of every
description seen before. Descriptions are matched after case folding and
whitespace collapsing.`,
}

var getCmd = &cobra.Command{
	Use:   "get <description>",
	Short: "Show the mapped category of a description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		return Get(c.GetMerchantStore(), cmd.OutOrStdout(), args[0])
	},
}

var setCmd = &cobra.Command{
	Use:   "set <description> <category>",
	Short: "Map a description to a category",
	Long: `Map a description to a category. The mapping wins over keyword rules
and the external lookup on every later run.

Example:
  statement-csv mapping set "Rent Landlord AG" Housing`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		return Set(c.GetCategorizer(), cmd.OutOrStdout(), args[0], args[1])
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every mapping",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		return List(c.GetMerchantStore(), cmd.OutOrStdout())
	},
}

func init() {
	Cmd.AddCommand(getCmd, setCmd, listCmd)
}

// Get prints the category mapped to description.
func Get(merchants store.MerchantStore, w io.Writer, description string) error {
	key := store.NormalizeKey(description)
	category, ok := merchants.Get(key)
	if !ok {
		return fmt.Errorf("no mapping for %q", key)
	}
	_, err := fmt.Fprintln(w, category)
	return err
}

// Set records a manual mapping and persists it.
func Set(cat *categorizer.Categorizer, w io.Writer, description, category string) error {
	if err := cat.Assign(description, category); err != nil {
		return err
	}
	if err := cat.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s -> %s\n", store.NormalizeKey(description), category)
	return err
}

// List prints the merchant map sorted by description.
func List(merchants *store.YAMLMerchantStore, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	all := merchants.All()
	for _, key := range merchants.Keys() {
		fmt.Fprintf(tw, "%s\t%s\n", key, all[key])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d mappings\n", len(all))
	return err
}

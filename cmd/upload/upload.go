// Package upload persists preprocessed statements in the ledger and manages
// the stored uploads
package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/common"
	"fjacquet/statement-csv/internal/container"
	"fjacquet/statement-csv/internal/fileutils"
	"fjacquet/statement-csv/internal/ledger"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/pipeline"
	"fjacquet/statement-csv/internal/validation"
)

var (
	statementType string
	uploadName    string
)

// Cmd represents the upload command
var Cmd = &cobra.Command{
	Use:   "upload",
	Short: "Preprocess a statement and store it in the ledger",
	Long: `Preprocess a statement exactly like the preprocess command and store the
categorized transactions in the ledger database under a new upload id.

The upload is all or nothing: when any transaction fails validation nothing is
stored. With -o the canonical CSV is written as well.

Example:
  statement-csv upload -i zkb_2025_01.csv --name "ZKB January"`,
	RunE: uploadFunc,
}

// UploadsCmd represents the uploads command
var UploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "List or delete stored uploads",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored uploads, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		return List(cmd.Context(), l, cmd.OutOrStdout())
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete uploads and their transactions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range args {
			if err := l.DeleteUpload(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&statementType, "type", "", "Statement type: zkb, revolut or canonical (default: detect)")
	Cmd.Flags().StringVar(&uploadName, "name", "", "Upload name (default: input file name)")
	UploadsCmd.AddCommand(listCmd, deleteCmd)
}

func openLedger(ctx context.Context) (*ledger.Ledger, error) {
	c := root.GetContainer()
	if c == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return c.GetLedger(ctx)
}

func uploadFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("input file must be specified with -i")
	}

	upload, result, err := Run(cmd.Context(), c, root.SharedFlags.Input, uploadName, statementType)
	if err != nil {
		return err
	}
	if root.SharedFlags.Output != "" {
		if err := common.WriteTransactionsToCSV(result.Transactions, root.SharedFlags.Output, c.GetDelimiter(), c.GetLogger()); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored %d transactions from %s as upload %s\n",
		upload.TransactionCount, upload.Name, upload.ID)
	return nil
}

// Run preprocesses input and stores the result as one upload named name, or
// after the input file when name is empty.
func Run(ctx context.Context, c *container.Container, input, name, statementType string) (models.UploadedFile, *pipeline.Result, error) {
	if err := validation.IsValidPath(input); err != nil {
		return models.UploadedFile{}, nil, err
	}
	format, err := c.StatementType(statementType)
	if err != nil {
		return models.UploadedFile{}, nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if name == "" {
		name = filepath.Base(input)
	}

	data, err := fileutils.ReadFile(input)
	if err != nil {
		return models.UploadedFile{}, nil, err
	}
	result, err := c.GetPipeline().Run(ctx, data, pipeline.Options{Format: format, Source: input})
	if err != nil {
		return models.UploadedFile{}, nil, err
	}

	l, err := c.GetLedger(ctx)
	if err != nil {
		return models.UploadedFile{}, nil, err
	}
	upload, err := l.SaveUpload(ctx, name, result.Summary.Format.String(), result.Transactions)
	if err != nil {
		return models.UploadedFile{}, nil, err
	}
	return upload, result, nil
}

// List prints the stored uploads.
func List(ctx context.Context, l *ledger.Ledger, w io.Writer) error {
	uploads, err := l.ListUploads(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFORMAT\tUPLOADED\tTRANSACTIONS")
	for _, u := range uploads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			u.ID, u.Name, u.Format, u.UploadedAt.Local().Format("2006-01-02 15:04"), u.TransactionCount)
	}
	return tw.Flush()
}

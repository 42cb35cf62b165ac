package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/statement-csv/cmd/batch"
	"fjacquet/statement-csv/cmd/categorize"
	"fjacquet/statement-csv/cmd/mapping"
	"fjacquet/statement-csv/cmd/preprocess"
	"fjacquet/statement-csv/cmd/recategorize"
	"fjacquet/statement-csv/cmd/report"
	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/cmd/upload"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(preprocess.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(mapping.Cmd)
	root.Cmd.AddCommand(upload.Cmd)
	root.Cmd.AddCommand(upload.UploadsCmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(recategorize.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.Cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

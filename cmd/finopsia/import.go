package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/finopsia/finopsia/internal/currency"
	"github.com/finopsia/finopsia/internal/ingest"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV file",
		Long: `Validate and load a transaction CSV into the ledger.

Amounts in the file are display-precision; they are converted to the
account currency's smallest unit on the way in. Rows that fail value
validation are rejected individually and logged.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	importer := ingest.NewImporter(store, currency.NewConverter())
	result, err := importer.ImportFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	slog.Info("Import finished",
		"imported", result.Imported,
		"rejected", result.Rejected)

	return nil
}

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finopsia/finopsia/internal/engine"
	"github.com/finopsia/finopsia/internal/model"
)

func retrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retrain",
		Short: "Explicitly retrain a model",
		Long: `Train a fresh model and overwrite the stored artifact, regardless
of the kind's auto-train policy. This is the only way to create or
refresh the categorizer.`,
	}

	cmd.AddCommand(retrainCategorizerCmd())
	cmd.AddCommand(retrainForecasterCmd())

	return cmd
}

func retrainCategorizerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorizer",
		Short: "Retrain the global categorizer from labeled data",
		RunE:  runRetrainCategorizer,
	}

	cmd.Flags().String("csv", "", "CSV of labeled rows with description and category columns (required)")
	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

func retrainForecasterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecaster",
		Short: "Retrain the balance forecaster for one account",
		RunE:  runRetrainForecaster,
	}

	cmd.Flags().String("account", "", "account id (required)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runRetrainCategorizer(cmd *cobra.Command, _ []string) error {
	csvPath, _ := cmd.Flags().GetString("csv")

	rows, err := loadLabeledRows(csvPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	registry, err := initRegistry(store)
	if err != nil {
		return err
	}

	if _, err := registry.Retrain(ctx, model.KindCategorizer, "", engine.TrainingInputs{Rows: rows}); err != nil {
		return fmt.Errorf("categorizer retraining failed: %w", err)
	}

	slog.Info("Categorizer retrained", "rows", len(rows))

	return nil
}

func runRetrainForecaster(cmd *cobra.Command, _ []string) error {
	accountID, _ := cmd.Flags().GetString("account")

	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	registry, err := initRegistry(store)
	if err != nil {
		return err
	}

	if _, err := registry.Retrain(ctx, model.KindForecaster, accountID, engine.TrainingInputs{}); err != nil {
		return fmt.Errorf("forecaster retraining failed: %w", err)
	}

	slog.Info("Forecaster retrained", "account_id", accountID)

	return nil
}

// loadLabeledRows reads a labeled training CSV. The file must carry
// description and category columns; other columns are ignored.
func loadLabeledRows(path string) ([]model.LabeledRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	descIdx, catIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "description":
			descIdx = i
		case "category":
			catIdx = i
		}
	}
	if descIdx < 0 || catIdx < 0 {
		return nil, fmt.Errorf("training CSV must contain description and category columns")
	}

	var rows []model.LabeledRow
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read training row: %w", readErr)
		}
		if descIdx >= len(record) || catIdx >= len(record) {
			continue
		}
		rows = append(rows, model.LabeledRow{
			Description: record[descIdx],
			Category:    record[catIdx],
		})
	}

	return rows, nil
}

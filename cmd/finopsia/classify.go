package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/finopsia/finopsia/internal/common"
	"github.com/finopsia/finopsia/internal/schedule"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Categorize uncategorized transactions",
		Long: `Run one categorization sweep over every transaction that has no
category yet, using keyword rules plus the trained categorizer model.

The categorizer is never trained implicitly: if no model exists, train
one first with 'finopsia retrain categorizer'.`,
		RunE: runClassify,
	}
}

func runClassify(cmd *cobra.Command, _ []string) error {
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

	classified, err := schedule.ClassifyOnce(ctx, store, registry)
	if err != nil {
		// The missing-model refusal already carries remediation text;
		// surface it as-is.
		if errors.Is(err, common.ErrModelNotFound) {
			return err
		}
		return fmt.Errorf("classification failed: %w", err)
	}

	slog.Info("Classification finished", "classified", classified)

	return nil
}

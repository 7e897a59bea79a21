package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finopsia/finopsia/internal/schedule"
)

func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the automation scheduler",
		Long: `Run the cron scheduler in the foreground: a nightly categorization
sweep and a weekly forecaster refresh per account. Stops on interrupt.`,
		RunE: runSchedule,
	}
}

func runSchedule(cmd *cobra.Command, _ []string) error {
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

	config := schedule.DefaultConfig()
	if spec := viper.GetString("schedule.classify"); spec != "" {
		config.ClassifySpec = spec
	}
	if spec := viper.GetString("schedule.retrain"); spec != "" {
		config.RetrainSpec = spec
	}

	return schedule.New(store, registry, config).Start(ctx)
}

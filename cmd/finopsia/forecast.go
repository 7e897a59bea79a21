package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finopsia/finopsia/internal/engine"
	"github.com/finopsia/finopsia/internal/forecaster"
	"github.com/finopsia/finopsia/internal/model"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast future balances for an account",
		Long: `Forecast daily balances for an account. If no forecaster model
exists yet, one is trained automatically from the account's ledger
history; an account with too little history fails with an
insufficient-history error until more data accrues.`,
		RunE: runForecast,
	}

	cmd.Flags().String("account", "", "account id to forecast (required)")
	cmd.Flags().Int("days", 7, "forecast horizon in days")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runForecast(cmd *cobra.Command, _ []string) error {
	accountID, _ := cmd.Flags().GetString("account")
	days, _ := cmd.Flags().GetInt("days")

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

	resolved, err := registry.Get(ctx, model.KindForecaster, accountID)
	if err != nil {
		return err
	}
	fcArtifact, ok := resolved.(*engine.ForecasterArtifact)
	if !ok {
		return fmt.Errorf("unexpected artifact type %T", resolved)
	}

	points, err := forecaster.NewAdapter().Predict(fcArtifact.Model, days)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tESTIMATE\tLOWER\tUPPER")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\n",
			p.Date.Format("2006-01-02"), p.Estimate, p.Lower, p.Upper)
	}

	return w.Flush()
}

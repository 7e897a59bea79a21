// Package schedule runs the recurring automation jobs: categorizing
// new transactions and refreshing per-account forecasters. Retry
// lives here, not in the core: a failed job simply waits for its next
// tick.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finopsia/finopsia/internal/categorizer"
	"github.com/finopsia/finopsia/internal/common"
	"github.com/finopsia/finopsia/internal/engine"
	"github.com/finopsia/finopsia/internal/model"
	"github.com/finopsia/finopsia/internal/service"
)

// ClassifyOnce categorizes every uncategorized transaction using the
// resolved categorizer model. If no model exists the sweep fails with
// common.ErrModelNotFound; it never trains one.
func ClassifyOnce(ctx context.Context, storage service.Storage, registry *engine.Registry) (int, error) {
	transactions, err := storage.FetchUncategorized(ctx)
	if err != nil {
		return 0, err
	}
	if len(transactions) == 0 {
		slog.Info("No transactions to classify")
		return 0, nil
	}

	artifact, err := registry.Get(ctx, model.KindCategorizer, "")
	if err != nil {
		return 0, err
	}
	catArtifact, ok := artifact.(*engine.CategorizerArtifact)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected artifact type %T", common.ErrInvalidRequest, artifact)
	}

	rows := make([]model.PredictRow, len(transactions))
	for i := range transactions {
		rows[i] = model.PredictRow{
			Description: transactions[i].Description,
			Direction:   transactions[i].Direction,
		}
	}

	adapter := categorizer.NewAdapter()
	categories, err := adapter.Predict(ctx, rows, catArtifact.Model)
	if err != nil {
		return 0, err
	}

	classified := 0
	for i := range transactions {
		if err := storage.UpdateTransactionCategory(ctx, transactions[i].ID, categories[i]); err != nil {
			common.LogError(err, "Failed to store category", common.Fields{
				"transaction_id": transactions[i].ID,
			})
			continue
		}
		classified++
	}

	slog.Info("Classification sweep completed",
		"transactions", len(transactions),
		"classified", classified)

	return classified, nil
}

// RetrainForecasters explicitly retrains the forecaster for every
// account. Accounts without enough history are skipped and reported;
// the sweep continues.
func RetrainForecasters(ctx context.Context, storage service.Storage, registry *engine.Registry) error {
	accounts, err := storage.ListAccounts(ctx)
	if err != nil {
		return err
	}

	for i := range accounts {
		accountID := accounts[i].AccountID
		_, err := registry.Retrain(ctx, model.KindForecaster, accountID, engine.TrainingInputs{})
		if errors.Is(err, common.ErrInsufficientHistory) {
			slog.Warn("Skipping forecaster retrain, not enough history",
				"account_id", accountID)
			continue
		}
		if err != nil {
			common.LogError(err, "Forecaster retrain failed", common.Fields{
				"account_id": accountID,
			})
			continue
		}
		slog.Info("Forecaster retrained", "account_id", accountID)
	}

	return nil
}

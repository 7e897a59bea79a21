// Package forecaster predicts future account balances. It contains the
// daily balance series builder, which turns an account's ledger into a
// trainable time series, and the adapter that trains and queries the
// forecast model on that series.
package forecaster

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/finopsia/finopsia/internal/common"
	"github.com/finopsia/finopsia/internal/currency"
	"github.com/finopsia/finopsia/internal/model"
	"github.com/finopsia/finopsia/internal/service"
)

// Config holds the series builder thresholds.
type Config struct {
	// MinHistoryDays is the number of distinct transaction days
	// required before a series is trainable.
	MinHistoryDays int
	// DefaultLookbackYears is the window the builder starts with.
	DefaultLookbackYears int
	// MaxLookbackYears caps the widening loop.
	MaxLookbackYears int
}

// DefaultConfig returns the default builder thresholds.
func DefaultConfig() Config {
	return Config{
		MinHistoryDays:       90,
		DefaultLookbackYears: 2,
		MaxLookbackYears:     5,
	}
}

// Builder assembles an account's daily balance series from its ledger.
type Builder struct {
	ledger    service.Ledger
	converter *currency.Converter
	config    Config
}

// NewBuilder creates a series builder with default thresholds.
func NewBuilder(ledger service.Ledger, converter *currency.Converter) *Builder {
	return NewBuilderWithConfig(ledger, converter, DefaultConfig())
}

// NewBuilderWithConfig creates a series builder with custom thresholds.
func NewBuilderWithConfig(ledger service.Ledger, converter *currency.Converter, config Config) *Builder {
	return &Builder{
		ledger:    ledger,
		converter: converter,
		config:    config,
	}
}

const dayLayout = "2006-01-02"

// BuildDailyBalanceSeries produces the daily cumulative balance series
// for one account, in display units.
//
// The lookback window starts at DefaultLookbackYears and widens one
// year at a time until the series has MinHistoryDays distinct
// transaction days or the window reaches MaxLookbackYears. Every
// iteration re-fetches and re-groups the whole window, so widening is
// idempotent: re-running on the same ledger yields the same series.
// Days without any transaction are absent from the series, not
// zero-filled.
func (b *Builder) BuildDailyBalanceSeries(ctx context.Context, accountID string) ([]model.BalancePoint, error) {
	slog.Info("Building daily balance series", "account_id", accountID)

	account, err := b.ledger.FetchAccountMetadata(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var deltas map[string]int64
	for years := b.config.DefaultLookbackYears; years <= b.config.MaxLookbackYears; years++ {
		transactions, fetchErr := b.ledger.FetchTransactions(ctx, accountID, years)
		if fetchErr != nil {
			return nil, fetchErr
		}

		if len(transactions) == 0 {
			slog.Warn("No transactions in lookback window",
				"account_id", accountID,
				"years", years)
			continue
		}

		deltas = groupDailyDeltas(transactions)
		if len(deltas) >= b.config.MinHistoryDays {
			slog.Info("Lookback window satisfied history threshold",
				"account_id", accountID,
				"years", years,
				"days", len(deltas))
			break
		}
	}

	if len(deltas) < b.config.MinHistoryDays {
		return nil, fmt.Errorf(
			"%w: account %s has %d distinct transaction days in %d years, need %d",
			common.ErrInsufficientHistory,
			accountID, len(deltas), b.config.MaxLookbackYears, b.config.MinHistoryDays)
	}

	series, err := b.accumulate(deltas, account)
	if err != nil {
		return nil, err
	}

	slog.Info("Built balance series",
		"account_id", accountID,
		"days", len(series))

	return series, nil
}

// groupDailyDeltas nets each calendar day's signed amounts into one
// delta per day with activity. A day whose inflows and outflows cancel
// still produces an entry; it counts toward the history threshold.
func groupDailyDeltas(transactions []model.Transaction) map[string]int64 {
	deltas := make(map[string]int64)
	for i := range transactions {
		day := transactions[i].Date.UTC().Format(dayLayout)
		deltas[day] += transactions[i].SignedAmount()
	}
	return deltas
}

// accumulate runs the cumulative sum over the daily deltas in date
// order, anchors it on the starting balance, and converts every point
// to display units.
func (b *Builder) accumulate(deltas map[string]int64, account *model.Account) ([]model.BalancePoint, error) {
	days := make([]string, 0, len(deltas))
	for day := range deltas {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]model.BalancePoint, 0, len(days))
	running := account.StartingBalance
	for _, day := range days {
		running += deltas[day]

		balance, err := b.converter.FromSmallestUnit(running, account.Currency)
		if err != nil {
			return nil, err
		}

		date, err := time.ParseInLocation(dayLayout, day, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse series date %q: %w", day, err)
		}

		series = append(series, model.BalancePoint{Date: date, Balance: balance})
	}

	return series, nil
}

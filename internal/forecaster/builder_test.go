package forecaster

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finopsia/finopsia/internal/common"
	"github.com/finopsia/finopsia/internal/currency"
	"github.com/finopsia/finopsia/internal/model"
)

// fakeLedger serves a fixed transaction set, filtering by the lookback
// window the way the repository does, and records every window it was
// asked for.
type fakeLedger struct {
	account      *model.Account
	accountErr   error
	transactions []model.Transaction
	queriedYears []int
}

func (f *fakeLedger) FetchTransactions(_ context.Context, _ string, yearsBack int) ([]model.Transaction, error) {
	f.queriedYears = append(f.queriedYears, yearsBack)

	cutoff := time.Now().UTC().AddDate(-yearsBack, 0, 0)
	var within []model.Transaction
	for _, txn := range f.transactions {
		if !txn.Date.Before(cutoff) {
			within = append(within, txn)
		}
	}
	return within, nil
}

func (f *fakeLedger) FetchAccountMetadata(_ context.Context, accountID string) (*model.Account, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	if f.account == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrAccountNotFound, accountID)
	}
	return f.account, nil
}

// txnDays generates one inflow per day for n consecutive days, the
// first of them at start.
func txnDays(accountID string, start time.Time, n int, amount int64) []model.Transaction {
	transactions := make([]model.Transaction, n)
	for i := range transactions {
		transactions[i] = model.Transaction{
			ID:        fmt.Sprintf("%s-%d", accountID, i),
			AccountID: accountID,
			Date:      start.AddDate(0, 0, i),
			Amount:    amount,
			Direction: model.DirectionInflow,
		}
	}
	return transactions
}

func day(yearsAgo int, daysForward int) time.Time {
	base := time.Now().UTC().AddDate(-yearsAgo, 0, 0)
	return base.AddDate(0, 0, daysForward)
}

func TestBuilder_SameDayTransactionsNet(t *testing.T) {
	// Starting balance 50,000,000 smallest units; day one has an
	// inflow of 10,000 and an outflow of 4,000.
	start := day(1, 0)
	transactions := []model.Transaction{
		{ID: "in", AccountID: "a1", Date: start, Amount: 10000, Direction: model.DirectionInflow},
		{ID: "out", AccountID: "a1", Date: start, Amount: 4000, Direction: model.DirectionOutflow},
	}
	transactions = append(transactions, txnDays("a1", start.AddDate(0, 0, 1), 89, 100)...)

	ledger := &fakeLedger{
		account:      &model.Account{AccountID: "a1", StartingBalance: 50_000_000, Currency: "USD"},
		transactions: transactions,
	}

	builder := NewBuilder(ledger, currency.NewConverter())
	series, err := builder.BuildDailyBalanceSeries(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, series, 90)

	// 50,000,000 + 6,000 smallest units in display precision.
	want := decimal.New(50_006_000, -2)
	assert.True(t, want.Equal(series[0].Balance),
		"first point = %s, want %s", series[0].Balance, want)

	// Dates strictly increasing.
	for i := 1; i < len(series); i++ {
		assert.True(t, series[i].Date.After(series[i-1].Date))
	}
}

func TestBuilder_ZeroNetDayStillCounts(t *testing.T) {
	start := day(1, 0)
	transactions := []model.Transaction{
		{ID: "in", AccountID: "a1", Date: start, Amount: 5000, Direction: model.DirectionInflow},
		{ID: "out", AccountID: "a1", Date: start, Amount: 5000, Direction: model.DirectionOutflow},
	}
	transactions = append(transactions, txnDays("a1", start.AddDate(0, 0, 1), 89, 100)...)

	ledger := &fakeLedger{
		account:      &model.Account{AccountID: "a1", StartingBalance: 1000, Currency: "USD"},
		transactions: transactions,
	}

	builder := NewBuilder(ledger, currency.NewConverter())
	series, err := builder.BuildDailyBalanceSeries(context.Background(), "a1")
	require.NoError(t, err)

	// The offsetting day nets to zero delta but still appears.
	require.Len(t, series, 90)
	assert.True(t, decimal.New(1000, -2).Equal(series[0].Balance))
}

func TestBuilder_WidensUntilThresholdMet(t *testing.T) {
	// 95 transaction days sitting beyond the 4-year mark: only the
	// 5-year window sees them.
	ledger := &fakeLedger{
		account:      &model.Account{AccountID: "a1", StartingBalance: 0, Currency: "USD"},
		transactions: txnDays("a1", day(5, 30), 95, 100),
	}

	builder := NewBuilder(ledger, currency.NewConverter())
	series, err := builder.BuildDailyBalanceSeries(context.Background(), "a1")
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3, 4, 5}, ledger.queriedYears)
	assert.Len(t, series, 95)
}

func TestBuilder_InsufficientHistory(t *testing.T) {
	// Ten days of history can never satisfy the threshold.
	ledger := &fakeLedger{
		account:      &model.Account{AccountID: "a1", StartingBalance: 0, Currency: "USD"},
		transactions: txnDays("a1", day(1, 0), 10, 100),
	}

	builder := NewBuilder(ledger, currency.NewConverter())
	_, err := builder.BuildDailyBalanceSeries(context.Background(), "a1")

	assert.True(t, errors.Is(err, common.ErrInsufficientHistory))
	assert.Equal(t, []int{2, 3, 4, 5}, ledger.queriedYears)
}

func TestBuilder_AccountNotFound(t *testing.T) {
	ledger := &fakeLedger{}

	builder := NewBuilder(ledger, currency.NewConverter())
	_, err := builder.BuildDailyBalanceSeries(context.Background(), "missing")

	assert.True(t, errors.Is(err, common.ErrAccountNotFound))
	assert.Empty(t, ledger.queriedYears)
}

func TestBuilder_EmptyDefaultWindowWidensOnce(t *testing.T) {
	// Starting balance 100 display units (2 decimals), nothing in the
	// default window, 95 distinct days once widened to 3 years.
	ledger := &fakeLedger{
		account:      &model.Account{AccountID: "a1", StartingBalance: 10_000, Currency: "USD"},
		transactions: txnDays("a1", day(3, 10), 95, 100),
	}

	builder := NewBuilder(ledger, currency.NewConverter())
	series, err := builder.BuildDailyBalanceSeries(context.Background(), "a1")
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3}, ledger.queriedYears)
	assert.GreaterOrEqual(t, len(series), 90)
}

func TestBuilder_RunningBalanceAccumulates(t *testing.T) {
	start := day(1, 0)
	ledger := &fakeLedger{
		account:      &model.Account{AccountID: "a1", StartingBalance: 0, Currency: "USD"},
		transactions: txnDays("a1", start, 90, 250),
	}

	builder := NewBuilder(ledger, currency.NewConverter())
	series, err := builder.BuildDailyBalanceSeries(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, series, 90)

	// Each day adds 250 smallest units = 2.50 display units.
	last := series[len(series)-1].Balance
	assert.True(t, decimal.New(90*250, -2).Equal(last),
		"final balance = %s", last)
}

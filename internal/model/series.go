package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalancePoint is one day of an account's cumulative balance series,
// in display units of the account's currency. Only days with at least
// one transaction appear in a series; there is no gap-filling.
type BalancePoint struct {
	Date    time.Time
	Balance decimal.Decimal
}

// ForecastPoint is a single forecast day: a point estimate with its
// uncertainty interval, in display units.
type ForecastPoint struct {
	Date     time.Time
	Estimate float64
	Lower    float64
	Upper    float64
}

// LabeledRow is one labeled training example for the categorizer.
type LabeledRow struct {
	Description string
	Category    string
}

// PredictRow is one transaction to categorize. Direction participates
// in the rule pass for empty descriptions.
type PredictRow struct {
	Description string
	Direction   Direction
}

package forecaster

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/finopsia/finopsia/internal/common"
	"github.com/finopsia/finopsia/internal/model"
)

// zQuantile95 is the normal quantile used for the forecast interval.
const zQuantile95 = 1.96

// Adapter wraps the forecast model behind the train/predict contract.
type Adapter struct {
	minHistoryDays int
}

// NewAdapter creates a forecaster adapter enforcing the default
// minimum-history invariant.
func NewAdapter() *Adapter {
	return &Adapter{minHistoryDays: DefaultConfig().MinHistoryDays}
}

// NewAdapterWithMinHistory creates an adapter with a custom minimum.
// The builder enforces the same bound upstream; the adapter re-checks
// rather than trusting its caller.
func NewAdapterWithMinHistory(minHistoryDays int) *Adapter {
	return &Adapter{minHistoryDays: minHistoryDays}
}

// Train fits a forecast model on a daily balance series.
func (a *Adapter) Train(ctx context.Context, series []model.BalancePoint) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(series) < a.minHistoryDays {
		return nil, fmt.Errorf("%w: series has %d days, need %d",
			common.ErrInsufficientHistory, len(series), a.minHistoryDays)
	}

	slog.Info("Training balance forecaster", "days", len(series))

	first := series[0].Date
	last := series[len(series)-1].Date

	// Least-squares trend over day offsets.
	n := float64(len(series))
	var sumX, sumY, sumXY, sumXX float64
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, point := range series {
		x := point.Date.Sub(first).Hours() / 24
		y := point.Balance.InexactFloat64()
		xs[i], ys[i] = x, y
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	slope := 0.0
	if denom := n*sumXX - sumX*sumX; denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
	}
	intercept := (sumY - slope*sumX) / n

	// Weekly seasonality: mean trend residual per weekday.
	var weekdaySums [7]float64
	var weekdayCounts [7]int
	for i, point := range series {
		residual := ys[i] - (intercept + slope*xs[i])
		wd := int(point.Date.Weekday())
		weekdaySums[wd] += residual
		weekdayCounts[wd]++
	}

	m := &Model{
		FirstDate:    first,
		LastDate:     last,
		Intercept:    intercept,
		Slope:        slope,
		TrainingDays: len(series),
	}
	for wd := range weekdaySums {
		if weekdayCounts[wd] > 0 {
			m.Weekday[wd] = weekdaySums[wd] / float64(weekdayCounts[wd])
		}
	}

	// Residual spread after removing trend and seasonality.
	var sumSq float64
	for i, point := range series {
		residual := ys[i] - m.estimate(point.Date)
		sumSq += residual * residual
	}
	m.Sigma = math.Sqrt(sumSq / n)

	slog.Info("Balance forecaster training completed",
		"slope_per_day", m.Slope,
		"sigma", m.Sigma)

	return m, nil
}

// Predict forecasts horizonDays future balances. The returned points
// are strictly contiguous calendar days starting the day after the
// training series' last date.
func (a *Adapter) Predict(m *Model, horizonDays int) ([]model.ForecastPoint, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil forecaster model", common.ErrInvalidRequest)
	}
	if horizonDays <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d",
			common.ErrInvalidRequest, horizonDays)
	}

	points := make([]model.ForecastPoint, horizonDays)
	margin := zQuantile95 * m.Sigma
	for i := range points {
		date := m.LastDate.AddDate(0, 0, i+1)
		estimate := m.estimate(date)
		points[i] = model.ForecastPoint{
			Date:     date,
			Estimate: estimate,
			Lower:    estimate - margin,
			Upper:    estimate + margin,
		}
	}

	return points, nil
}

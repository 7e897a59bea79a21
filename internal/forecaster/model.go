package forecaster

import (
	"encoding/json"
	"fmt"
	"time"
)

// Model is a trained forecaster artifact: a linear trend fitted over
// day offsets plus a weekly seasonal component, with a residual spread
// for the uncertainty interval. Opaque outside this package.
type Model struct {
	// FirstDate anchors the day-offset axis the trend was fitted on.
	FirstDate time.Time `json:"first_date"`
	// LastDate is the final day of the training series; forecasts
	// start the day after.
	LastDate time.Time `json:"last_date"`
	// Intercept and Slope describe the linear trend in display units.
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	// Weekday holds the mean trend residual per weekday (Sunday = 0).
	Weekday [7]float64 `json:"weekday"`
	// Sigma is the standard deviation of the deseasonalized residuals.
	Sigma float64 `json:"sigma"`
	// TrainingDays is the number of points the model was fitted on.
	TrainingDays int `json:"training_days"`
}

// estimate evaluates the fitted curve at a date.
func (m *Model) estimate(date time.Time) float64 {
	offset := date.Sub(m.FirstDate).Hours() / 24
	return m.Intercept + m.Slope*offset + m.Weekday[int(date.Weekday())]
}

// Marshal serializes the model for the artifact store.
func (m *Model) Marshal() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal forecaster model: %w", err)
	}
	return data, nil
}

// UnmarshalModel deserializes a forecaster model from the artifact
// store.
func UnmarshalModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal forecaster model: %w", err)
	}
	return &m, nil
}

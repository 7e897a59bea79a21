package engine

import (
	"context"
	"fmt"

	"github.com/finopsia/finopsia/internal/categorizer"
	"github.com/finopsia/finopsia/internal/common"
	"github.com/finopsia/finopsia/internal/forecaster"
	"github.com/finopsia/finopsia/internal/model"
)

// CategorizerArtifact wraps a trained categorizer model as a registry
// artifact.
type CategorizerArtifact struct {
	Model *categorizer.Model
}

// ModelKind identifies the artifact's kind.
func (a *CategorizerArtifact) ModelKind() model.Kind {
	return model.KindCategorizer
}

// ForecasterArtifact wraps a trained forecaster model as a registry
// artifact.
type ForecasterArtifact struct {
	Model *forecaster.Model
}

// ModelKind identifies the artifact's kind.
func (a *ForecasterArtifact) ModelKind() model.Kind {
	return model.KindForecaster
}

// CategorizerTrainer adapts the categorizer inference adapter to the
// registry's Trainer contract.
type CategorizerTrainer struct {
	adapter *categorizer.Adapter
}

// NewCategorizerTrainer creates a categorizer trainer.
func NewCategorizerTrainer(adapter *categorizer.Adapter) *CategorizerTrainer {
	return &CategorizerTrainer{adapter: adapter}
}

// Train fits a categorizer model on the supplied labeled rows.
func (t *CategorizerTrainer) Train(ctx context.Context, inputs TrainingInputs) (Artifact, error) {
	m, err := t.adapter.Train(ctx, inputs.Rows)
	if err != nil {
		return nil, err
	}
	return &CategorizerArtifact{Model: m}, nil
}

// Encode serializes a categorizer artifact.
func (t *CategorizerTrainer) Encode(artifact Artifact) ([]byte, error) {
	a, ok := artifact.(*CategorizerArtifact)
	if !ok {
		return nil, fmt.Errorf("%w: expected categorizer artifact, got %T",
			common.ErrInvalidRequest, artifact)
	}
	return a.Model.Marshal()
}

// Decode restores a categorizer artifact.
func (t *CategorizerTrainer) Decode(data []byte) (Artifact, error) {
	m, err := categorizer.UnmarshalModel(data)
	if err != nil {
		return nil, err
	}
	return &CategorizerArtifact{Model: m}, nil
}

// ForecasterTrainer adapts the forecaster inference adapter to the
// registry's Trainer contract. Training invokes the balance series
// builder; this is the only path that does.
type ForecasterTrainer struct {
	builder *forecaster.Builder
	adapter *forecaster.Adapter
}

// NewForecasterTrainer creates a forecaster trainer.
func NewForecasterTrainer(builder *forecaster.Builder, adapter *forecaster.Adapter) *ForecasterTrainer {
	return &ForecasterTrainer{builder: builder, adapter: adapter}
}

// Train builds the account's daily balance series and fits a forecast
// model on it. Builder failures, including insufficient history,
// propagate unchanged.
func (t *ForecasterTrainer) Train(ctx context.Context, inputs TrainingInputs) (Artifact, error) {
	series, err := t.builder.BuildDailyBalanceSeries(ctx, inputs.AccountID)
	if err != nil {
		return nil, err
	}

	m, err := t.adapter.Train(ctx, series)
	if err != nil {
		return nil, err
	}

	return &ForecasterArtifact{Model: m}, nil
}

// Encode serializes a forecaster artifact.
func (t *ForecasterTrainer) Encode(artifact Artifact) ([]byte, error) {
	a, ok := artifact.(*ForecasterArtifact)
	if !ok {
		return nil, fmt.Errorf("%w: expected forecaster artifact, got %T",
			common.ErrInvalidRequest, artifact)
	}
	return a.Model.Marshal()
}

// Decode restores a forecaster artifact.
func (t *ForecasterTrainer) Decode(data []byte) (Artifact, error) {
	m, err := forecaster.UnmarshalModel(data)
	if err != nil {
		return nil, err
	}
	return &ForecasterArtifact{Model: m}, nil
}

// DefaultTrainers wires the standard trainer set for the registry.
func DefaultTrainers(builder *forecaster.Builder) map[model.Kind]Trainer {
	return map[model.Kind]Trainer{
		model.KindCategorizer: NewCategorizerTrainer(categorizer.NewAdapter()),
		model.KindForecaster:  NewForecasterTrainer(builder, forecaster.NewAdapter()),
	}
}

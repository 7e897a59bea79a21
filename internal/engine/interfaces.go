package engine

import (
	"context"

	"github.com/finopsia/finopsia/internal/model"
)

// Artifact is a trained model owned by the registry: one durable
// record per storage key plus at most one memory cache slot. Artifacts
// are replaced wholesale on retrain, never updated in place.
type Artifact interface {
	ModelKind() model.Kind
}

// TrainingInputs carries everything a trainer may need. Which fields
// are required is dictated by the kind's policy record.
type TrainingInputs struct {
	// AccountID scopes per-account training (forecaster).
	AccountID string
	// Rows is the labeled data for supervised training (categorizer).
	Rows []model.LabeledRow
}

// Trainer is the per-kind training strategy behind the registry. Each
// kind contributes one implementation wrapping its inference adapter.
type Trainer interface {
	// Train produces a fresh artifact from the given inputs.
	Train(ctx context.Context, inputs TrainingInputs) (Artifact, error)
	// Encode serializes an artifact for the durable store.
	Encode(artifact Artifact) ([]byte, error)
	// Decode restores an artifact loaded from the durable store.
	Decode(data []byte) (Artifact, error)
}

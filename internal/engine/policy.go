package engine

import (
	"fmt"

	"github.com/finopsia/finopsia/internal/model"
)

// Input names a training prerequisite a policy can demand.
type Input string

// Training inputs a policy may require.
const (
	InputAccountID   Input = "account_id"
	InputLabeledRows Input = "labeled_rows"
)

// Policy fixes a model kind's lifecycle behavior. The table is built
// at construction and never mutated at runtime.
type Policy struct {
	Scope model.Scope
	// Requires lists the training inputs that must be supplied before
	// this kind can be trained.
	Requires []Input
	// AllowAutoTrain gates implicit training on a read miss. Explicit
	// retraining is never gated.
	AllowAutoTrain bool
}

// defaultPolicies returns the policy table.
//
// The categorizer is supervised: auto-training it on unlabeled
// inference data would silently degrade it, so its absence is an
// operational error demanding an explicit, auditable retrain. The
// forecaster is self-supervised from ledger history the system already
// trusts, so its absence is only a cold-start cost.
func defaultPolicies() map[model.Kind]Policy {
	return map[model.Kind]Policy{
		model.KindCategorizer: {
			AllowAutoTrain: false,
			Requires:       []Input{InputLabeledRows},
			Scope:          model.ScopeGlobal,
		},
		model.KindForecaster: {
			AllowAutoTrain: true,
			Requires:       []Input{InputAccountID},
			Scope:          model.ScopePerAccount,
		},
	}
}

// storageKey derives the deterministic durable-store key for a
// (kind, scope) pair. Global kinds key on the kind alone; per-account
// kinds append the scope id, so distinct scopes never collide.
func storageKey(kind model.Kind, scopeID string) string {
	if scopeID == "" {
		return kind.String()
	}
	return fmt.Sprintf("%s_%s", kind, scopeID)
}

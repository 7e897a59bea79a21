package model

import (
	"fmt"
)

// Kind identifies a trainable model capability.
type Kind string

// Supported model kinds.
const (
	KindCategorizer Kind = "categorizer"
	KindForecaster  Kind = "forecaster"
)

// Scope describes how a model kind's artifacts are keyed.
type Scope string

// Model scopes.
const (
	// ScopeGlobal means one artifact serves the whole system.
	ScopeGlobal Scope = "global"
	// ScopePerAccount means one artifact exists per account.
	ScopePerAccount Scope = "per_account"
)

// Validate checks if the kind is one of the supported values.
func (k Kind) Validate() error {
	switch k {
	case KindCategorizer, KindForecaster:
		return nil
	default:
		return fmt.Errorf("invalid model kind: %q", k)
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

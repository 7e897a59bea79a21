// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Configuration errors.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrUnknownModelKind    = errors.New("unknown model kind")

	// Request validation errors.
	ErrInvalidRequest = errors.New("invalid request")

	// Not-found errors.
	ErrAccountNotFound = errors.New("account not found")
	ErrModelNotFound   = errors.New("model not found")
	ErrNotFound        = errors.New("not found")

	// Training errors.
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrInvalidTrainingData = errors.New("invalid training data")
)

// UserError represents an error that should be shown to the user,
// carrying remediation text alongside the underlying cause.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

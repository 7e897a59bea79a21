package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Direction indicates whether a transaction moves money into or out of
// an account.
type Direction string

// Transaction directions.
const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// Validate checks if the direction is one of the valid values.
func (d Direction) Validate() error {
	switch d {
	case DirectionInflow, DirectionOutflow:
		return nil
	default:
		return fmt.Errorf("invalid transaction direction: %q", d)
	}
}

// Transaction represents a single ledger entry for an account.
//
// Amount is always the unsigned magnitude in the smallest currency
// unit; Direction carries the sign. The signed value is synthesized
// where needed and never persisted.
type Transaction struct {
	Date        time.Time
	ID          string
	AccountID   string
	Description string
	Category    string
	Direction   Direction
	Amount      int64
}

// SignedAmount returns the amount with its direction applied: positive
// for inflows, negative for outflows.
func (t *Transaction) SignedAmount() int64 {
	if t.Direction == DirectionOutflow {
		return -t.Amount
	}
	return t.Amount
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%d:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Direction,
		t.Description,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDirection_Validate(t *testing.T) {
	assert.NoError(t, DirectionInflow.Validate())
	assert.NoError(t, DirectionOutflow.Validate())
	assert.Error(t, Direction("sideways").Validate())
	assert.Error(t, Direction("").Validate())
}

func TestTransaction_SignedAmount(t *testing.T) {
	inflow := Transaction{Amount: 1500, Direction: DirectionInflow}
	outflow := Transaction{Amount: 1500, Direction: DirectionOutflow}

	assert.Equal(t, int64(1500), inflow.SignedAmount())
	assert.Equal(t, int64(-1500), outflow.SignedAmount())
}

func TestTransaction_GenerateHash(t *testing.T) {
	base := Transaction{
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		AccountID:   "a1",
		Description: "rent payment",
		Direction:   DirectionOutflow,
		Amount:      50_000,
	}

	assert.Equal(t, base.GenerateHash(), base.GenerateHash())

	// Intraday timestamps collapse to the same hash.
	laterSameDay := base
	laterSameDay.Date = base.Date.Add(14 * time.Hour)
	assert.Equal(t, base.GenerateHash(), laterSameDay.GenerateHash())

	// The transaction id is deliberately excluded so re-imports with
	// fresh ids still deduplicate.
	differentID := base
	differentID.ID = "other"
	assert.Equal(t, base.GenerateHash(), differentID.GenerateHash())

	flipped := base
	flipped.Direction = DirectionInflow
	assert.NotEqual(t, base.GenerateHash(), flipped.GenerateHash())

	otherAccount := base
	otherAccount.AccountID = "a2"
	assert.NotEqual(t, base.GenerateHash(), otherAccount.GenerateHash())
}

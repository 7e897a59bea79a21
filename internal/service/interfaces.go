// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/finopsia/finopsia/internal/model"
)

// Ledger is the read-side contract the balance series builder depends
// on. Transactions come back ordered by date with unsigned amounts and
// a direction tag.
type Ledger interface {
	// FetchTransactions returns all transactions for an account within
	// the last yearsBack years, ordered by date ascending.
	FetchTransactions(ctx context.Context, accountID string, yearsBack int) ([]model.Transaction, error)
	// FetchAccountMetadata returns starting balance and currency for an
	// account, or common.ErrAccountNotFound.
	FetchAccountMetadata(ctx context.Context, accountID string) (*model.Account, error)
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	Ledger

	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	FetchUncategorized(ctx context.Context) ([]model.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, transactionID, category string) error

	// Account operations
	UpsertAccount(ctx context.Context, account *model.Account) error
	ListAccounts(ctx context.Context) ([]model.Account, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ArtifactStore is a keyed blob store for serialized model artifacts.
// Save must publish atomically: a concurrent Load never observes a
// partially written artifact.
type ArtifactStore interface {
	Has(key string) bool
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finopsia/finopsia/internal/common"
	"github.com/finopsia/finopsia/internal/model"
)

// UpsertAccount inserts or replaces account metadata.
func (s *SQLiteStorage) UpsertAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (account_id, starting_balance, currency, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			starting_balance = excluded.starting_balance,
			currency = excluded.currency,
			last_updated = excluded.last_updated
	`, account.AccountID, account.StartingBalance, account.Currency, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert account %s: %w", account.AccountID, err)
	}

	return nil
}

// FetchAccountMetadata returns starting balance and currency for an
// account, or common.ErrAccountNotFound if no such account exists.
func (s *SQLiteStorage) FetchAccountMetadata(ctx context.Context, accountID string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}

	var account model.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT account_id, starting_balance, currency, last_updated
		FROM accounts
		WHERE account_id = ?
	`, accountID).Scan(
		&account.AccountID,
		&account.StartingBalance,
		&account.Currency,
		&account.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", common.ErrAccountNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account metadata: %w", err)
	}

	return &account, nil
}

// ListAccounts returns all accounts ordered by id.
func (s *SQLiteStorage) ListAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, starting_balance, currency, last_updated
		FROM accounts
		ORDER BY account_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var account model.Account
		if err := rows.Scan(
			&account.AccountID,
			&account.StartingBalance,
			&account.Currency,
			&account.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finopsia/finopsia/internal/model"
)

// SaveTransactions saves multiple transactions to the database.
// Duplicate rows (same content hash) are skipped, so re-importing the
// same file is safe.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, hash, account_id, txn_date, amount, direction, description, category
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range transactions {
		txn := &transactions[i]
		if _, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.GenerateHash(),
			txn.AccountID,
			txn.Date.UTC(),
			txn.Amount,
			string(txn.Direction),
			txn.Description,
			nullableString(txn.Category),
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// FetchTransactions returns all transactions for an account within the
// last yearsBack years, ordered by date ascending.
func (s *SQLiteStorage) FetchTransactions(ctx context.Context, accountID string, yearsBack int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}
	if yearsBack <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidYearsBack, yearsBack)
	}

	cutoff := time.Now().UTC().AddDate(-yearsBack, 0, 0)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, txn_date, amount, direction, description, COALESCE(category, '')
		FROM transactions
		WHERE account_id = ? AND txn_date >= ?
		ORDER BY txn_date ASC
	`, accountID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// FetchUncategorized returns transactions that have not yet been
// assigned a category, ordered by date ascending.
func (s *SQLiteStorage) FetchUncategorized(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, txn_date, amount, direction, description, COALESCE(category, '')
		FROM transactions
		WHERE category IS NULL OR category = ''
		ORDER BY txn_date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query uncategorized transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// UpdateTransactionCategory sets the category on a single transaction.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, transactionID, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET category = ? WHERE id = ?`,
		category, transactionID)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", transactionID, sql.ErrNoRows)
	}

	return nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var direction string
		if err := rows.Scan(
			&txn.ID,
			&txn.AccountID,
			&txn.Date,
			&txn.Amount,
			&direction,
			&txn.Description,
			&txn.Category,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Direction = model.Direction(direction)
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

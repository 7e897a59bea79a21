// Package ingest loads transaction CSV files into the ledger. It
// validates the header, coerces row values, and rejects bad rows
// individually rather than failing the whole file.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finopsia/finopsia/internal/common"
	"github.com/finopsia/finopsia/internal/currency"
	"github.com/finopsia/finopsia/internal/model"
	"github.com/finopsia/finopsia/internal/service"
)

// requiredColumns is the expected CSV schema. Order in the file does
// not matter; the header is mapped by name.
var requiredColumns = []string{
	"transaction_id",
	"account_id",
	"description",
	"category",
	"amount",
	"direction",
	"transaction_date",
}

// dateLayouts are the accepted transaction_date formats.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ErrEmptyFile indicates a CSV with a header but no data rows.
var ErrEmptyFile = errors.New("transaction file is empty")

// Result summarizes one import run.
type Result struct {
	Imported int
	Rejected int
}

// Importer reads transaction CSVs into storage. Amounts in the file
// are display-precision; the importer converts them to smallest units
// through the currency converter, using each account's currency.
type Importer struct {
	storage   service.Storage
	converter *currency.Converter
}

// NewImporter creates a CSV importer.
func NewImporter(storage service.Storage, converter *currency.Converter) *Importer {
	return &Importer{storage: storage, converter: converter}
}

// ImportFile reads, validates and stores every row of a CSV file.
// Schema problems fail the whole import; individual bad rows are
// logged and counted as rejected.
func (i *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction file: %w", err)
	}
	defer func() { _ = file.Close() }()

	slog.Info("Importing transactions", "path", path)

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	// Account currencies are looked up once per account.
	currencies := make(map[string]string)

	var transactions []model.Transaction
	result := &Result{}
	line := 1
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		line++
		if readErr != nil {
			slog.Warn("Rejected malformed CSV row", "line", line, "error", readErr)
			result.Rejected++
			continue
		}

		txn, rowErr := i.parseRow(ctx, record, columns, currencies)
		if rowErr != nil {
			slog.Warn("Rejected transaction row", "line", line, "error", rowErr)
			result.Rejected++
			continue
		}

		transactions = append(transactions, *txn)
	}

	if len(transactions) == 0 && result.Rejected == 0 {
		return nil, ErrEmptyFile
	}

	if len(transactions) > 0 {
		if err := i.storage.SaveTransactions(ctx, transactions); err != nil {
			return nil, err
		}
		result.Imported = len(transactions)
	}

	common.LogInfo("Import completed", common.Fields{
		"path":     path,
		"imported": result.Imported,
		"rejected": result.Rejected,
	})

	return result, nil
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = idx
	}

	var missing []string
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}

func (i *Importer) parseRow(ctx context.Context, record []string, columns map[string]int, currencies map[string]string) (*model.Transaction, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	accountID := field("account_id")
	if accountID == "" {
		return nil, errors.New("missing account_id")
	}

	code, ok := currencies[accountID]
	if !ok {
		account, err := i.storage.FetchAccountMetadata(ctx, accountID)
		if err != nil {
			return nil, err
		}
		code = account.Currency
		currencies[accountID] = code
	}

	date, err := parseDate(field("transaction_date"))
	if err != nil {
		return nil, err
	}

	displayAmount, err := decimal.NewFromString(field("amount"))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", field("amount"), err)
	}
	if displayAmount.IsNegative() {
		return nil, fmt.Errorf("amount must be unsigned, got %s; use direction for sign", displayAmount)
	}

	amount, err := i.converter.ToSmallestUnit(displayAmount, code)
	if err != nil {
		return nil, err
	}

	direction := model.Direction(strings.ToLower(field("direction")))
	if err := direction.Validate(); err != nil {
		return nil, err
	}

	id := field("transaction_id")
	if id == "" {
		id = uuid.NewString()
	}

	return &model.Transaction{
		ID:          id,
		AccountID:   accountID,
		Date:        date,
		Amount:      amount,
		Direction:   direction,
		Description: field("description"),
		Category:    field("category"),
	}, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("missing transaction_date")
	}
	for _, layout := range dateLayouts {
		if date, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid transaction_date %q", value)
}

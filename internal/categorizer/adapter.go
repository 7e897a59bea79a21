package categorizer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finopsia/finopsia/internal/common"
	"github.com/finopsia/finopsia/internal/model"
)

// Adapter wraps the categorizer model behind the train/predict
// contract. Training and prediction failures are not transient and
// propagate immediately; there is no retry here.
type Adapter struct{}

// NewAdapter creates a categorizer adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Train fits a categorizer model on labeled rows. Every row must carry
// both a description and a category; a row missing either fails the
// whole run with common.ErrInvalidTrainingData.
func (a *Adapter) Train(ctx context.Context, rows []model.LabeledRow) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no labeled rows", common.ErrInvalidTrainingData)
	}

	slog.Info("Training transaction categorizer", "rows", len(rows))

	m := &Model{
		TokenCounts: make(map[string]map[string]int),
		DocCounts:   make(map[string]int),
		TotalTokens: make(map[string]int),
	}

	vocab := make(map[string]struct{})
	for i, row := range rows {
		if normalizeText(row.Description) == "" || normalizeText(row.Category) == "" {
			return nil, fmt.Errorf("%w: row %d must contain description and category",
				common.ErrInvalidTrainingData, i)
		}

		class := normalizeText(row.Category)
		m.DocCounts[class]++
		m.TotalDocs++

		if m.TokenCounts[class] == nil {
			m.TokenCounts[class] = make(map[string]int)
		}
		for _, token := range tokenize(row.Description) {
			m.TokenCounts[class][token]++
			m.TotalTokens[class]++
			vocab[token] = struct{}{}
		}
	}
	m.VocabSize = len(vocab)

	slog.Info("Categorizer training completed",
		"classes", len(m.DocCounts),
		"vocabulary", m.VocabSize)

	return m, nil
}

// Predict returns one category per input row, in input order. Keyword
// rules are consulted first; the trained model categorizes the rest.
func (a *Adapter) Predict(ctx context.Context, rows []model.PredictRow, m *Model) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: nil categorizer model", common.ErrInvalidRequest)
	}

	categories := make([]string, len(rows))
	for i, row := range rows {
		if category, ok := ruleCategory(row.Description, row.Direction); ok {
			categories[i] = category
			continue
		}
		categories[i] = m.classify(row.Description)
	}

	return categories, nil
}

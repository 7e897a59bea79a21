package categorizer

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Model is a trained categorizer artifact: a multinomial naive Bayes
// classifier over whitespace tokens of the transaction description.
//
// The artifact is opaque to callers; only this package reads or writes
// its parameters.
type Model struct {
	// TokenCounts[class][token] is the number of occurrences of token
	// in training descriptions labeled class.
	TokenCounts map[string]map[string]int `json:"token_counts"`
	// DocCounts[class] is the number of training rows labeled class.
	DocCounts map[string]int `json:"doc_counts"`
	// TotalTokens[class] is the token count across all rows of class.
	TotalTokens map[string]int `json:"total_tokens"`
	// VocabSize is the number of distinct tokens seen in training.
	VocabSize int `json:"vocab_size"`
	// TotalDocs is the total number of training rows.
	TotalDocs int `json:"total_docs"`
}

func tokenize(text string) []string {
	return strings.Fields(normalizeText(text))
}

// classify returns the most probable class for a description.
// Ties resolve to the lexicographically smallest class so prediction
// is deterministic.
func (m *Model) classify(description string) string {
	tokens := tokenize(description)

	classes := make([]string, 0, len(m.DocCounts))
	for class := range m.DocCounts {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	best := ""
	bestScore := math.Inf(-1)
	for _, class := range classes {
		// Log prior with Laplace-smoothed token likelihoods.
		score := math.Log(float64(m.DocCounts[class]) / float64(m.TotalDocs))
		denom := float64(m.TotalTokens[class] + m.VocabSize)
		for _, token := range tokens {
			count := m.TokenCounts[class][token]
			score += math.Log(float64(count+1) / denom)
		}
		if score > bestScore {
			best = class
			bestScore = score
		}
	}

	return best
}

// Marshal serializes the model for the artifact store.
func (m *Model) Marshal() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal categorizer model: %w", err)
	}
	return data, nil
}

// UnmarshalModel deserializes a categorizer model from the artifact
// store.
func UnmarshalModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categorizer model: %w", err)
	}
	return &m, nil
}

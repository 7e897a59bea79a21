// Package categorizer assigns spending categories to transactions: a
// deterministic keyword-rule pass first, with a trained text model as
// the fallback for descriptions no rule covers.
package categorizer

import (
	"strings"

	"github.com/finopsia/finopsia/internal/model"
)

// keywordRule maps a category to the description keywords that imply it.
// Rules are evaluated in order so overlapping keywords resolve
// deterministically.
type keywordRule struct {
	category string
	keywords []string
}

var keywordRules = []keywordRule{
	{category: "salary", keywords: []string{"salary", "wages", "payroll"}},
	{category: "rent", keywords: []string{"rent", "lease"}},
	{category: "transport", keywords: []string{"fuel", "diesel", "petrol", "uber", "bolt"}},
	{category: "utilities", keywords: []string{"electricity", "power", "water", "internet"}},
}

// emptyDescriptions are placeholder values treated the same as a
// missing description.
var emptyDescriptions = map[string]struct{}{
	"":     {},
	"nil":  {},
	"nill": {},
	"n/a":  {},
	"none": {},
	"-":    {},
}

// Default categories for transactions with no usable description.
const (
	defaultInflowCategory  = "revenue"
	defaultOutflowCategory = "miscellaneous"
)

func normalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ruleCategory applies the keyword rules to one transaction.
// The second return value reports whether a rule matched.
func ruleCategory(description string, direction model.Direction) (string, bool) {
	desc := normalizeText(description)

	if _, empty := emptyDescriptions[desc]; empty {
		if direction == model.DirectionInflow {
			return defaultInflowCategory, true
		}
		return defaultOutflowCategory, true
	}

	for _, rule := range keywordRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(desc, keyword) {
				return rule.category, true
			}
		}
	}

	return "", false
}

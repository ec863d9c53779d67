package engine

import (
	"strings"

	"github.com/agext/levenshtein"

	"github.com/claimsight/compare-cli/internal/model"
)

// SimilarityRatio returns a normalized closeness measure in [0,1] between
// two cells. Both-empty is defined as 1 and one-empty as 0 so that blank
// agreement counts as a match at any threshold. The underlying metric is
// Levenshtein-derived, symmetric, and reflexive.
func SimilarityRatio(test, gold model.Cell) float64 {
	a := strings.TrimSpace(test.Value)
	b := strings.TrimSpace(gold.Value)
	if test.Empty() || a == "" {
		a = ""
	}
	if gold.Empty() || b == "" {
		b = ""
	}

	switch {
	case a == "" && b == "":
		return 1
	case a == "" || b == "":
		return 0
	}
	return levenshtein.Similarity(a, b, nil)
}

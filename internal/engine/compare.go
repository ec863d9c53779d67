package engine

import (
	"strings"

	"github.com/claimsight/compare-cli/internal/align"
	"github.com/claimsight/compare-cli/internal/model"
)

// compareField evaluates one base field for one aligned row pair. A scalar
// field yields one outcome; an array field yields one outcome per index in
// its index set, each tagged with that index. An absent column on either
// side is an empty cell, never an error.
func compareField(pair align.RowPair, field model.BaseField, threshold float64) []model.CellOutcome {
	if field.Kind == model.FieldKindScalar {
		return []model.CellOutcome{compareCell(pair, field, -1, threshold)}
	}

	outcomes := make([]model.CellOutcome, 0, len(field.Indices)+1)
	// Mixed usage keeps the bare column in play alongside the indices.
	if field.HasBareColumn {
		outcomes = append(outcomes, compareCell(pair, field, -1, threshold))
	}
	for _, idx := range field.Indices {
		outcomes = append(outcomes, compareCell(pair, field, idx, threshold))
	}
	return outcomes
}

func compareCell(pair align.RowPair, field model.BaseField, index int, threshold float64) model.CellOutcome {
	column := field.Column(index)
	test := pair.Test.Cell(column)
	gold := pair.Gold.Cell(column)

	var valid bool
	switch field.Mode {
	case model.MatchModeSimilarity:
		valid = SimilarityRatio(test, gold) >= threshold
	default:
		valid = exactMatch(test, gold)
	}

	return model.CellOutcome{
		Identifier:  pair.Identifier,
		Descriptive: pair.Descriptive,
		Field:       field.Name,
		Index:       index,
		Test:        test,
		Gold:        gold,
		Valid:       valid,
	}
}

// exactMatch compares trimmed string forms, case-sensitive. Both sides
// empty or absent agree; one empty against one non-empty does not.
func exactMatch(test, gold model.Cell) bool {
	a := strings.TrimSpace(test.Value)
	b := strings.TrimSpace(gold.Value)
	if test.Empty() {
		a = ""
	}
	if gold.Empty() {
		b = ""
	}
	return a == b
}

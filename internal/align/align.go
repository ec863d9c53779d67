// Package align joins TEST and GOLD datasets on their identifier column.
package align

import (
	"github.com/claimsight/compare-cli/internal/model"
)

// RowPair is one TEST row and one GOLD row sharing an identifier value.
type RowPair struct {
	Identifier  string
	Descriptive string // TEST-side descriptive value, GOLD's as fallback
	Test        model.Row
	Gold        model.Row
}

// Result holds the aligned pairs plus everything that failed to align.
// Pairs preserve TEST row order for determinism.
type Result struct {
	Pairs      []RowPair
	Anomalies  []model.AlignmentAnomaly
	Duplicates []model.DuplicateIdentifier
}

// Align builds identifier lookups for both datasets and pairs rows present
// on both sides. Identifiers duplicated within one dataset are excluded
// from alignment entirely and reported; identifiers present on one side
// only become alignment anomalies.
func Align(test, gold *model.Dataset, idColumn, descColumn string) *Result {
	res := &Result{}

	testRows, testDup := index(test, idColumn)
	goldRows, goldDup := index(gold, idColumn)

	res.Duplicates = append(res.Duplicates, duplicateList(test, idColumn, testDup, model.SideTest)...)
	res.Duplicates = append(res.Duplicates, duplicateList(gold, idColumn, goldDup, model.SideGold)...)

	// TEST order drives pair and test-anomaly ordering.
	for _, row := range test.Rows {
		id := row[idColumn]
		if _, dup := testDup[id]; dup {
			continue
		}
		goldRow, ok := goldRows[id]
		if !ok {
			res.Anomalies = append(res.Anomalies, model.AlignmentAnomaly{
				Identifier:  id,
				Descriptive: row[descColumn],
				Side:        model.SideTest,
			})
			continue
		}

		desc := row[descColumn]
		if desc == "" {
			desc = goldRow[descColumn]
		}
		res.Pairs = append(res.Pairs, RowPair{
			Identifier:  id,
			Descriptive: desc,
			Test:        row,
			Gold:        goldRow,
		})
	}

	for _, row := range gold.Rows {
		id := row[idColumn]
		if _, dup := goldDup[id]; dup {
			continue
		}
		if _, ok := testRows[id]; ok {
			continue
		}
		res.Anomalies = append(res.Anomalies, model.AlignmentAnomaly{
			Identifier:  id,
			Descriptive: row[descColumn],
			Side:        model.SideGold,
		})
	}

	return res
}

// duplicateList emits one record per duplicated identifier in the order the
// identifier first appears in the dataset, keeping reports deterministic.
func duplicateList(ds *model.Dataset, idColumn string, dups map[string]int, side model.AnomalySide) []model.DuplicateIdentifier {
	emitted := make(map[string]bool, len(dups))
	var out []model.DuplicateIdentifier
	for _, row := range ds.Rows {
		id := row[idColumn]
		n, dup := dups[id]
		if !dup || emitted[id] {
			continue
		}
		emitted[id] = true
		out = append(out, model.DuplicateIdentifier{Identifier: id, Side: side, Count: n})
	}
	return out
}

// index maps identifier values to rows and reports duplicate counts.
// Duplicated identifiers are left out of the returned lookup.
func index(ds *model.Dataset, idColumn string) (map[string]model.Row, map[string]int) {
	counts := make(map[string]int, len(ds.Rows))
	for _, row := range ds.Rows {
		counts[row[idColumn]]++
	}

	dups := make(map[string]int)
	rows := make(map[string]model.Row, len(ds.Rows))
	for _, row := range ds.Rows {
		id := row[idColumn]
		if counts[id] > 1 {
			dups[id] = counts[id]
			continue
		}
		rows[id] = row
	}
	return rows, dups
}

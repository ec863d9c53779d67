// Package report renders a comparison report to XLSX, CSV, or JSON.
package report

import (
	"strconv"

	"github.com/claimsight/compare-cli/internal/model"
)

// Placeholders shown for one-sided values in rendered output. The engine
// keeps raw cells; only renderers substitute these.
const (
	MissingFromGold = "value exists in TEST but not in GOLD"
	MissingFromTest = "value exists in GOLD but not in TEST"
)

// DetailRow is the flattened presentation form of one cell outcome.
type DetailRow struct {
	Identifier  string `csv:"identifier" json:"identifier"`
	Descriptive string `csv:"descriptive" json:"descriptive"`
	Field       string `csv:"field" json:"field"`
	Index       string `csv:"index,omitempty" json:"index,omitempty"`
	TestValue   string `csv:"test_value" json:"test_value"`
	GoldValue   string `csv:"gold_value" json:"gold_value"`
	Validity    string `csv:"validity" json:"validity"`
}

// AccuracyRow is the presentation form of one accuracy record.
type AccuracyRow struct {
	Field    string `csv:"field" json:"field"`
	Valid    int    `csv:"valid_count" json:"valid_count"`
	Total    int    `csv:"total_count" json:"total_count"`
	Accuracy string `csv:"accuracy_percent" json:"accuracy_percent"`
}

// DetailRows flattens the report's cell outcomes, applying the one-sided
// placeholders where a column existed on only one dataset.
func DetailRows(r *model.Report) []DetailRow {
	rows := make([]DetailRow, 0, len(r.Details))
	for _, o := range r.Details {
		row := DetailRow{
			Identifier:  o.Identifier,
			Descriptive: o.Descriptive,
			Field:       o.Field,
			TestValue:   o.Test.Value,
			GoldValue:   o.Gold.Value,
			Validity:    "invalid",
		}
		if o.Index >= 0 {
			row.Index = strconv.Itoa(o.Index)
		}
		if o.Valid {
			row.Validity = "valid"
		}
		if !o.Valid {
			if !o.Gold.Present && o.Test.Present {
				row.GoldValue = MissingFromGold
			}
			if !o.Test.Present && o.Gold.Present {
				row.TestValue = MissingFromTest
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// AccuracyRows flattens the report's accuracy records. An undefined
// percentage renders as "n/a".
func AccuracyRows(r *model.Report) []AccuracyRow {
	rows := make([]AccuracyRow, 0, len(r.Accuracy))
	for _, a := range r.Accuracy {
		rows = append(rows, AccuracyRow{
			Field:    a.Field,
			Valid:    a.Valid,
			Total:    a.Total,
			Accuracy: formatPercent(a),
		})
	}
	return rows
}

func formatPercent(a model.AccuracyRecord) string {
	if !a.Defined {
		return "n/a"
	}
	return strconv.FormatFloat(a.Percent, 'f', 2, 64)
}

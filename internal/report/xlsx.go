package report

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/claimsight/compare-cli/internal/model"
)

// WriteXLSX writes the report as a workbook with a "Comparison Results"
// detail sheet and an "Accuracy Metrics" sheet that ends with the overall
// summary row.
func WriteXLSX(r *model.Report, path string) error {
	f := xlsx.NewFile()

	details, err := f.AddSheet("Comparison Results")
	if err != nil {
		return eris.Wrap(err, "report: add details sheet")
	}
	writeHeader(details, "identifier", "descriptive", "field", "index", "test_value", "gold_value", "validity")
	for _, row := range DetailRows(r) {
		addRow(details, row.Identifier, row.Descriptive, row.Field, row.Index, row.TestValue, row.GoldValue, row.Validity)
	}

	accuracy, err := f.AddSheet("Accuracy Metrics")
	if err != nil {
		return eris.Wrap(err, "report: add accuracy sheet")
	}
	writeHeader(accuracy, "field", "valid_count", "total_count", "accuracy_percent")
	for _, row := range AccuracyRows(r) {
		addRow(accuracy, row.Field, strconv.Itoa(row.Valid), strconv.Itoa(row.Total), row.Accuracy)
	}
	addRow(accuracy) // spacer
	addRow(accuracy, "overall",
		strconv.Itoa(r.Overall.Valid),
		strconv.Itoa(r.Overall.Total),
		formatPercent(r.Overall),
	)

	if len(r.Anomalies) > 0 {
		anomalies, err := f.AddSheet("Alignment Anomalies")
		if err != nil {
			return eris.Wrap(err, "report: add anomalies sheet")
		}
		writeHeader(anomalies, "identifier", "descriptive", "missing_from")
		for _, a := range r.Anomalies {
			missing := "gold"
			if a.Side == model.SideGold {
				missing = "test"
			}
			addRow(anomalies, a.Identifier, a.Descriptive, missing)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "report: save xlsx")
	}
	return nil
}

func writeHeader(sheet *xlsx.Sheet, cols ...string) {
	addRow(sheet, cols...)
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}

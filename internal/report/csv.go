package report

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/claimsight/compare-cli/internal/model"
)

// WriteDetailCSV writes the row-level detail table.
func WriteDetailCSV(r *model.Report, w io.Writer) error {
	return writeCSV(w, DetailRows(r), "detail")
}

// WriteAccuracyCSV writes the field-level accuracy table with the overall
// summary as its final row.
func WriteAccuracyCSV(r *model.Report, w io.Writer) error {
	rows := AccuracyRows(r)
	rows = append(rows, AccuracyRow{
		Field:    "overall",
		Valid:    r.Overall.Valid,
		Total:    r.Overall.Total,
		Accuracy: formatPercent(r.Overall),
	})
	return writeCSV(w, rows, "accuracy")
}

func writeCSV[T any](w io.Writer, rows []T, what string) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return eris.Wrapf(err, "report: encode %s row", what)
		}
	}
	cw.Flush()
	return eris.Wrapf(cw.Error(), "report: flush %s csv", what)
}

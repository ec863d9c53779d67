package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/claimsight/compare-cli/internal/model"
)

// Options configures dataset ingestion.
type Options struct {
	Name      string // dataset label carried into logs and reports
	Lowercase bool   // lowercase all cell values during normalization
	SheetName string // xlsx only; empty means first sheet
}

// Load reads a tabular dataset from a CSV or XLSX file, chosen by
// extension, and normalizes it (see Normalize).
func Load(path string, opts Options) (*model.Dataset, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(path, opts.SheetName)
	default:
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}

	ds, err := FromRecords(opts.Name, records)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: %s", path)
	}
	Normalize(ds, opts.Lowercase)
	return ds, nil
}

// FromRecords builds a Dataset from raw rows, the first of which is the
// header. Short rows are padded conceptually: missing trailing cells are
// simply absent from the row map.
func FromRecords(name string, records [][]string) (*model.Dataset, error) {
	if len(records) == 0 {
		return nil, eris.New("dataset: no header row")
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.TrimSpace(col)
	}

	rows := make([]model.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(model.Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}

	return &model.Dataset{Name: name, Columns: header, Rows: rows}, nil
}

// Normalize trims whitespace from every cell and optionally lowercases
// values, mirroring the cleanup the comparison assumes has happened before
// the engine runs. Column names are already trimmed by FromRecords.
func Normalize(ds *model.Dataset, lowercase bool) {
	for _, row := range ds.Rows {
		for col, v := range row {
			v = strings.TrimSpace(v)
			if lowercase {
				v = strings.ToLower(v)
			}
			row[col] = v
		}
	}
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv")
	}
	return records, nil
}

func readXLSX(path, sheetName string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open xlsx")
	}

	var sheet *xlsx.Sheet
	if sheetName != "" {
		s, ok := f.Sheet[sheetName]
		if !ok {
			return nil, eris.Errorf("dataset: sheet %q not found", sheetName)
		}
		sheet = s
	} else {
		if len(f.Sheets) == 0 {
			return nil, eris.New("dataset: xlsx has no sheets")
		}
		sheet = f.Sheets[0]
	}

	records := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		records = append(records, cells)
	}
	return records, nil
}

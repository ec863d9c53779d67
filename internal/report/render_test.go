package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/claimsight/compare-cli/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		Fields: []model.BaseField{
			{Name: "status", Kind: model.FieldKindScalar, Mode: model.MatchModeExact},
			{Name: "address", Kind: model.FieldKindArray, Mode: model.MatchModeExact, Indices: []int{0, 1}},
		},
		Details: []model.CellOutcome{
			{
				Identifier: "1", Descriptive: "alpha", Field: "status", Index: -1,
				Test: model.Cell{Value: "open", Present: true},
				Gold: model.Cell{Value: "open", Present: true},
				Valid: true,
			},
			{
				Identifier: "1", Descriptive: "alpha", Field: "address", Index: 0,
				Test: model.Cell{Value: "123 main st", Present: true},
				Gold: model.Cell{Value: "5 elm ave", Present: true},
				Valid: false,
			},
			{
				Identifier: "1", Descriptive: "alpha", Field: "address", Index: 1,
				Test: model.Cell{Value: "apt 4", Present: true},
				Gold: model.Cell{},
				Valid: false,
			},
		},
		Accuracy: []model.AccuracyRecord{
			{Field: "status", Valid: 1, Total: 1, Percent: 100, Defined: true},
			{Field: "address", Valid: 0, Total: 2, Percent: 0, Defined: true},
		},
		Overall:  model.AccuracyRecord{Field: "overall", Valid: 1, Total: 3, Percent: 33.33, Defined: true},
		RowPairs: 1,
		Anomalies: []model.AlignmentAnomaly{
			{Identifier: "9", Descriptive: "ghost", Side: model.SideTest},
		},
	}
}

func TestDetailRows(t *testing.T) {
	rows := DetailRows(sampleReport())
	require.Len(t, rows, 3)

	assert.Equal(t, DetailRow{
		Identifier: "1", Descriptive: "alpha", Field: "status",
		TestValue: "open", GoldValue: "open", Validity: "valid",
	}, rows[0])

	assert.Equal(t, "0", rows[1].Index)
	assert.Equal(t, "invalid", rows[1].Validity)
	assert.Equal(t, "5 elm ave", rows[1].GoldValue, "present values never replaced")

	assert.Equal(t, MissingFromGold, rows[2].GoldValue, "absent gold cell gets the placeholder")
	assert.Equal(t, "apt 4", rows[2].TestValue)
}

func TestAccuracyRowsUndefinedPercent(t *testing.T) {
	r := &model.Report{
		Accuracy: []model.AccuracyRecord{{Field: "empty", Valid: 0, Total: 0}},
	}
	rows := AccuracyRows(r)
	require.Len(t, rows, 1)
	assert.Equal(t, "n/a", rows[0].Accuracy)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(sampleReport(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	results, ok := f.Sheet["Comparison Results"]
	require.True(t, ok)
	assert.Len(t, results.Rows, 4, "header plus three detail rows")
	assert.Equal(t, "identifier", results.Rows[0].Cells[0].String())
	assert.Equal(t, "valid", results.Rows[1].Cells[6].String())

	metrics, ok := f.Sheet["Accuracy Metrics"]
	require.True(t, ok)
	last := metrics.Rows[len(metrics.Rows)-1]
	assert.Equal(t, "overall", last.Cells[0].String())
	assert.Equal(t, "33.33", last.Cells[3].String())

	anomalies, ok := f.Sheet["Alignment Anomalies"]
	require.True(t, ok)
	assert.Equal(t, "gold", anomalies.Rows[1].Cells[2].String())
}

func TestWriteXLSXNoAnomalySheetWhenClean(t *testing.T) {
	r := sampleReport()
	r.Anomalies = nil

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(r, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	_, ok := f.Sheet["Alignment Anomalies"]
	assert.False(t, ok)
}

func TestWriteDetailCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetailCSV(sampleReport(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "identifier,descriptive,field,index,test_value,gold_value,validity", lines[0])
	assert.Contains(t, lines[1], "valid")
}

func TestWriteAccuracyCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAccuracyCSV(sampleReport(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4, "header, two fields, overall")
	assert.Equal(t, "field,valid_count,total_count,accuracy_percent", lines[0])
	assert.Equal(t, "overall,1,3,33.33", lines[3])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(sampleReport(), &buf))

	out := buf.String()
	assert.Contains(t, out, `"row_pairs": 1`)
	assert.Contains(t, out, `"alignment_anomalies"`)
	assert.Contains(t, out, `"overall"`)
}

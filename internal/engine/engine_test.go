package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/compare-cli/internal/classify"
	"github.com/claimsight/compare-cli/internal/model"
)

func defaultParams() Params {
	return Params{
		IDColumn:          "job_id",
		DescriptiveColumn: "job_name",
		Threshold:         0.8,
	}
}

func makeDataset(name string, columns []string, rows ...model.Row) *model.Dataset {
	return &model.Dataset{Name: name, Columns: columns, Rows: rows}
}

func accuracyFor(rep *model.Report, field string) model.AccuracyRecord {
	for _, a := range rep.Accuracy {
		if a.Field == field {
			return a
		}
	}
	return model.AccuracyRecord{}
}

func TestRunExactScalar(t *testing.T) {
	cols := []string{"job_id", "job_name", "status"}
	test := makeDataset("test", cols,
		model.Row{"job_id": "1", "job_name": "a", "status": "open"},
		model.Row{"job_id": "2", "job_name": "b", "status": "closed"},
	)
	gold := makeDataset("gold", cols,
		model.Row{"job_id": "1", "job_name": "a", "status": "open"},
		model.Row{"job_id": "2", "job_name": "b", "status": "open"},
	)

	rep, err := Run(test, gold, defaultParams())
	require.NoError(t, err)

	acc := accuracyFor(rep, "status")
	assert.Equal(t, 1, acc.Valid)
	assert.Equal(t, 2, acc.Total)
	assert.Equal(t, 50.0, acc.Percent)
	assert.True(t, acc.Defined)
}

func TestRunExactIsCaseSensitive(t *testing.T) {
	cols := []string{"job_id", "job_name", "status"}
	test := makeDataset("test", cols, model.Row{"job_id": "1", "job_name": "a", "status": "Open"})
	gold := makeDataset("gold", cols, model.Row{"job_id": "1", "job_name": "a", "status": "open"})

	rep, err := Run(test, gold, defaultParams())
	require.NoError(t, err)

	require.Len(t, rep.Details, 1)
	assert.False(t, rep.Details[0].Valid)
}

func TestRunSimilarityScalar(t *testing.T) {
	cols := []string{"job_id", "job_name", "contact_address"}
	test := makeDataset("test", cols,
		model.Row{"job_id": "1", "job_name": "a", "contact_address": "123 main st"},
		model.Row{"job_id": "2", "job_name": "b", "contact_address": "totally different"},
	)
	gold := makeDataset("gold", cols,
		model.Row{"job_id": "1", "job_name": "a", "contact_address": "123 main st."},
		model.Row{"job_id": "2", "job_name": "b", "contact_address": "5 elm ave"},
	)

	p := defaultParams()
	p.SimilarityFields = []string{"contact_address"}

	rep, err := Run(test, gold, p)
	require.NoError(t, err)

	acc := accuracyFor(rep, "contact_address")
	assert.Equal(t, 1, acc.Valid, "minor punctuation passes, unrelated strings fail")
	assert.Equal(t, 2, acc.Total)
}

func TestRunArrayPooling(t *testing.T) {
	cols := []string{"job_id", "job_name", "address[0]", "address[1]"}
	test := makeDataset("test", cols,
		model.Row{"job_id": "1", "job_name": "a", "address[0]": "123 main st", "address[1]": "apt 4"},
	)
	gold := makeDataset("gold", cols,
		model.Row{"job_id": "1", "job_name": "a", "address[0]": "123 main st", "address[1]": "apt 5"},
	)

	rep, err := Run(test, gold, defaultParams())
	require.NoError(t, err)

	// One base-field record pooling both indices.
	require.Len(t, rep.Accuracy, 1)
	acc := rep.Accuracy[0]
	assert.Equal(t, "address", acc.Field)
	assert.Equal(t, 1, acc.Valid)
	assert.Equal(t, 2, acc.Total)
	assert.Equal(t, 50.0, acc.Percent)

	// Two detail records, tagged per index.
	require.Len(t, rep.Details, 2)
	assert.Equal(t, 0, rep.Details[0].Index)
	assert.True(t, rep.Details[0].Valid)
	assert.Equal(t, 1, rep.Details[1].Index)
	assert.False(t, rep.Details[1].Valid)
}

func TestRunArrayPoolingTotals(t *testing.T) {
	// N indices across M aligned rows gives N*M outcomes for the base field.
	cols := []string{"job_id", "job_name", "x[0]", "x[1]", "x[2]"}
	rows := func(prefix string) []model.Row {
		return []model.Row{
			{"job_id": "1", "job_name": "a", "x[0]": prefix + "0", "x[1]": prefix + "1", "x[2]": prefix + "2"},
			{"job_id": "2", "job_name": "b", "x[0]": prefix + "0", "x[1]": prefix + "1", "x[2]": prefix + "2"},
		}
	}
	test := makeDataset("test", cols, rows("v")...)
	gold := makeDataset("gold", cols, rows("v")...)

	rep, err := Run(test, gold, defaultParams())
	require.NoError(t, err)

	acc := accuracyFor(rep, "x")
	assert.Equal(t, 6, acc.Total)
	assert.Equal(t, 6, acc.Valid)
	assert.Equal(t, 100.0, acc.Percent)
}

func TestRunOneSidedIndexComparesAgainstAbsent(t *testing.T) {
	testCols := []string{"job_id", "job_name", "tag[0]", "tag[1]"}
	goldCols := []string{"job_id", "job_name", "tag[0]"}
	test := makeDataset("test", testCols,
		model.Row{"job_id": "1", "job_name": "a", "tag[0]": "x", "tag[1]": "y"},
	)
	gold := makeDataset("gold", goldCols,
		model.Row{"job_id": "1", "job_name": "a", "tag[0]": "x"},
	)

	rep, err := Run(test, gold, defaultParams())
	require.NoError(t, err)

	acc := accuracyFor(rep, "tag")
	assert.Equal(t, 2, acc.Total, "index union includes the one-sided index")
	assert.Equal(t, 1, acc.Valid, "present value vs absent counterpart mismatches")
}

func TestRunBothEmptyIsValid(t *testing.T) {
	cols := []string{"job_id", "job_name", "note"}
	test := makeDataset("test", cols, model.Row{"job_id": "1", "job_name": "a", "note": ""})
	gold := makeDataset("gold", cols, model.Row{"job_id": "1", "job_name": "a", "note": ""})

	for _, fuzzy := range []bool{false, true} {
		p := defaultParams()
		if fuzzy {
			p.SimilarityFields = []string{"note"}
		}
		rep, err := Run(test, gold, p)
		require.NoError(t, err)
		require.Len(t, rep.Details, 1)
		assert.True(t, rep.Details[0].Valid, "fuzzy=%v", fuzzy)
	}
}

func TestRunAbsentColumnTreatedAsEmpty(t *testing.T) {
	testCols := []string{"job_id", "job_name", "status", "extra"}
	goldCols := []string{"job_id", "job_name", "status"}
	test := makeDataset("test", testCols,
		model.Row{"job_id": "1", "job_name": "a", "status": "open", "extra": "boo"},
	)
	gold := makeDataset("gold", goldCols,
		model.Row{"job_id": "1", "job_name": "a", "status": "open"},
	)

	rep, err := Run(test, gold, defaultParams())
	require.NoError(t, err)

	extra := accuracyFor(rep, "extra")
	assert.Equal(t, 0, extra.Valid, "value vs missing column is a mismatch, not an error")
	assert.Equal(t, 1, extra.Total)
}

func TestRunZeroOverlap(t *testing.T) {
	cols := []string{"job_id", "job_name", "status"}
	test := makeDataset("test", cols,
		model.Row{"job_id": "1", "job_name": "a", "status": "x"},
		model.Row{"job_id": "2", "job_name": "b", "status": "y"},
	)
	gold := makeDataset("gold", cols,
		model.Row{"job_id": "3", "job_name": "c", "status": "x"},
	)

	rep, err := Run(test, gold, defaultParams())
	require.ErrorIs(t, err, ErrNoAlignedRows)
	require.NotNil(t, rep, "report still carries the anomalies")

	assert.Equal(t, 0, rep.RowPairs)
	assert.Len(t, rep.Anomalies, 3)
	assert.Empty(t, rep.Details)
	assert.False(t, rep.Overall.Defined, "no division by zero")
	assert.Zero(t, rep.Overall.Percent)
}

func TestRunSelectedFields(t *testing.T) {
	cols := []string{"job_id", "job_name", "status", "amount"}
	test := makeDataset("test", cols, model.Row{"job_id": "1", "job_name": "a", "status": "x", "amount": "5"})
	gold := makeDataset("gold", cols, model.Row{"job_id": "1", "job_name": "a", "status": "x", "amount": "5"})

	p := defaultParams()
	p.SelectedFields = []string{"amount"}

	rep, err := Run(test, gold, p)
	require.NoError(t, err)

	require.Len(t, rep.Accuracy, 1)
	assert.Equal(t, "amount", rep.Accuracy[0].Field)
}

func TestRunNoFieldsSelected(t *testing.T) {
	cols := []string{"job_id", "job_name", "status"}
	test := makeDataset("test", cols, model.Row{"job_id": "1", "job_name": "a", "status": "x"})
	gold := makeDataset("gold", cols, model.Row{"job_id": "1", "job_name": "a", "status": "x"})

	p := defaultParams()
	p.SelectedFields = []string{"nonexistent"}

	rep, err := Run(test, gold, p)
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, ErrNoFieldsSelected)
}

func TestRunMissingIdentifierIsFatal(t *testing.T) {
	test := makeDataset("test", []string{"job_name", "status"})
	gold := makeDataset("gold", []string{"job_id", "job_name", "status"})

	rep, err := Run(test, gold, defaultParams())
	assert.Nil(t, rep, "no partial report on schema errors")
	assert.ErrorIs(t, err, classify.ErrMissingIdentifier)
}

func TestRunIdempotent(t *testing.T) {
	cols := []string{"job_id", "job_name", "status", "address[0]", "address[1]"}
	test := makeDataset("test", cols,
		model.Row{"job_id": "2", "job_name": "b", "status": "open", "address[0]": "x", "address[1]": "y"},
		model.Row{"job_id": "1", "job_name": "a", "status": "closed", "address[0]": "x"},
	)
	gold := makeDataset("gold", cols,
		model.Row{"job_id": "1", "job_name": "a", "status": "closed", "address[0]": "z"},
		model.Row{"job_id": "2", "job_name": "b", "status": "open", "address[0]": "x", "address[1]": "y"},
	)

	first, err := Run(test, gold, defaultParams())
	require.NoError(t, err)
	second, err := Run(test, gold, defaultParams())
	require.NoError(t, err)

	assert.Equal(t, first.Accuracy, second.Accuracy)
	assert.Equal(t, first.Details, second.Details)
	assert.Equal(t, first.Overall, second.Overall)
}

func TestRunAccuracyBounds(t *testing.T) {
	cols := []string{"job_id", "job_name", "a", "b", "c[0]", "c[1]"}
	test := makeDataset("test", cols,
		model.Row{"job_id": "1", "job_name": "j", "a": "1", "b": "", "c[0]": "q"},
		model.Row{"job_id": "2", "job_name": "j", "a": "2", "b": "x", "c[1]": "r"},
	)
	gold := makeDataset("gold", cols,
		model.Row{"job_id": "1", "job_name": "j", "a": "1", "b": "y", "c[0]": "q", "c[1]": "s"},
		model.Row{"job_id": "2", "job_name": "j", "a": "9", "b": "x"},
	)

	rep, err := Run(test, gold, defaultParams())
	require.NoError(t, err)

	for _, acc := range rep.Accuracy {
		assert.GreaterOrEqual(t, acc.Valid, 0)
		assert.LessOrEqual(t, acc.Valid, acc.Total)
		assert.GreaterOrEqual(t, acc.Percent, 0.0)
		assert.LessOrEqual(t, acc.Percent, 100.0)
	}
	assert.Equal(t, rep.Overall.Total, len(rep.Details))
}

func TestRunDescriptiveGaps(t *testing.T) {
	cols := []string{"job_id", "job_name", "status"}
	test := makeDataset("test", cols, model.Row{"job_id": "1", "job_name": "jan", "status": "x"})
	gold := makeDataset("gold", cols,
		model.Row{"job_id": "1", "job_name": "jan", "status": "x"},
		model.Row{"job_id": "2", "job_name": "feb", "status": "x"},
	)

	rep, err := Run(test, gold, defaultParams())
	require.NoError(t, err)

	assert.Equal(t, []string{"feb"}, rep.DescriptiveGaps)
}

func TestRunAccuracyOrderFollowsClassifier(t *testing.T) {
	cols := []string{"job_id", "job_name", "zeta", "alpha", "mid"}
	rowVals := model.Row{"job_id": "1", "job_name": "a", "zeta": "1", "alpha": "2", "mid": "3"}
	test := makeDataset("test", cols, rowVals)
	gold := makeDataset("gold", cols, rowVals)

	rep, err := Run(test, gold, defaultParams())
	require.NoError(t, err)

	names := make([]string, len(rep.Accuracy))
	for i, a := range rep.Accuracy {
		names[i] = a.Field
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

// Package engine compares a TEST dataset against a GOLD reference dataset
// field-by-field and produces a structured comparison report. Each run is a
// pure function of its inputs: no state is shared between invocations and
// the engine is safe to call from concurrent callers owning their own data.
package engine

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/claimsight/compare-cli/internal/align"
	"github.com/claimsight/compare-cli/internal/classify"
	"github.com/claimsight/compare-cli/internal/model"
)

// Named run conditions, distinguishable via eris.Is.
var (
	// ErrNoFieldsSelected means the field selection excluded every
	// classified base field. Fatal: nothing to compare.
	ErrNoFieldsSelected = eris.New("engine: no fields selected for comparison")

	// ErrNoAlignedRows means zero identifiers overlapped between the
	// datasets. The report returned alongside it still carries the
	// alignment anomalies for inspection.
	ErrNoAlignedRows = eris.New("engine: no rows aligned between datasets")
)

// Params configures one comparison run. Zero-value selected fields means
// every classified base field is compared.
type Params struct {
	IDColumn          string
	DescriptiveColumn string
	Threshold         float64
	SimilarityFields  []string
	SelectedFields    []string
}

// Run classifies the schemas, aligns the rows, compares every selected
// field for every aligned pair, and aggregates accuracy per base field.
//
// Fatal conditions (classify.ErrMissingIdentifier,
// classify.ErrMissingDescriptive, ErrNoFieldsSelected) return a nil report.
// ErrNoAlignedRows is degraded: the report is returned with it.
func Run(test, gold *model.Dataset, p Params) (*model.Report, error) {
	cls, err := classify.Classify(test, gold, classify.Params{
		IDColumn:          p.IDColumn,
		DescriptiveColumn: p.DescriptiveColumn,
		SimilarityFields:  p.SimilarityFields,
	})
	if err != nil {
		return nil, err
	}

	fields, err := selectFields(cls.Fields, p.SelectedFields)
	if err != nil {
		return nil, err
	}

	aligned := align.Align(test, gold, p.IDColumn, p.DescriptiveColumn)

	report := &model.Report{
		Fields:                 fields,
		RowPairs:               len(aligned.Pairs),
		Anomalies:              aligned.Anomalies,
		Duplicates:             aligned.Duplicates,
		ClassificationWarnings: cls.Anomalies,
		DescriptiveGaps:        descriptiveGaps(test, gold, p.DescriptiveColumn),
	}

	for _, pair := range aligned.Pairs {
		for _, field := range fields {
			report.Details = append(report.Details, compareField(pair, field, p.Threshold)...)
		}
	}

	report.Accuracy, report.Overall = aggregate(fields, report.Details)

	zap.L().Debug("engine: run complete",
		zap.Int("row_pairs", report.RowPairs),
		zap.Int("fields", len(fields)),
		zap.Int("outcomes", len(report.Details)),
		zap.Int("anomalies", len(report.Anomalies)),
	)

	if len(aligned.Pairs) == 0 {
		return report, eris.Wrapf(ErrNoAlignedRows,
			"%d test row(s), %d gold row(s)", len(test.Rows), len(gold.Rows))
	}
	return report, nil
}

// selectFields filters classifier output down to the requested base fields,
// preserving classifier order. Nil or a single "all" entry selects every
// field. Names that match nothing are ignored; an empty result is fatal.
func selectFields(fields []model.BaseField, selected []string) ([]model.BaseField, error) {
	if len(selected) == 0 || (len(selected) == 1 && selected[0] == "all") {
		if len(fields) == 0 {
			return nil, eris.Wrap(ErrNoFieldsSelected, "schemas contain no comparable columns")
		}
		return fields, nil
	}

	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}

	out := make([]model.BaseField, 0, len(selected))
	for _, f := range fields {
		if want[f.Name] {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, eris.Wrapf(ErrNoFieldsSelected, "requested %v", selected)
	}
	return out, nil
}

// descriptiveGaps lists descriptive values present in GOLD but not TEST,
// surfaced as a warning so a truncated TEST export is visible up front.
func descriptiveGaps(test, gold *model.Dataset, descColumn string) []string {
	seen := make(map[string]bool)
	for _, v := range test.DistinctValues(descColumn) {
		seen[v] = true
	}

	var gaps []string
	for _, v := range gold.DistinctValues(descColumn) {
		if !seen[v] {
			gaps = append(gaps, v)
		}
	}
	return gaps
}

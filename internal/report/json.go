package report

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/claimsight/compare-cli/internal/model"
)

// WriteJSON writes the full structured report, flattened detail rows
// included, for downstream tooling.
func WriteJSON(r *model.Report, w io.Writer) error {
	out := struct {
		Details  []DetailRow          `json:"details"`
		Accuracy []AccuracyRow        `json:"accuracy"`
		Overall  model.AccuracyRecord `json:"overall"`
		RowPairs int                  `json:"row_pairs"`
		Warnings reportWarnings       `json:"warnings,omitempty"`
	}{
		Details:  DetailRows(r),
		Accuracy: AccuracyRows(r),
		Overall:  r.Overall,
		RowPairs: r.RowPairs,
		Warnings: reportWarnings{
			Anomalies:       r.Anomalies,
			Duplicates:      r.Duplicates,
			Classification:  r.ClassificationWarnings,
			DescriptiveGaps: r.DescriptiveGaps,
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(out), "report: encode json")
}

type reportWarnings struct {
	Anomalies       []model.AlignmentAnomaly      `json:"alignment_anomalies,omitempty"`
	Duplicates      []model.DuplicateIdentifier   `json:"duplicate_identifiers,omitempty"`
	Classification  []model.ClassificationAnomaly `json:"classification,omitempty"`
	DescriptiveGaps []string                      `json:"descriptive_gaps,omitempty"`
}

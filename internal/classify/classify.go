// Package classify derives logical base fields from the physical column
// schemas of a TEST/GOLD dataset pair.
package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/claimsight/compare-cli/internal/model"
)

// Schema errors are fatal: no report is produced when they occur.
var (
	ErrMissingIdentifier  = eris.New("classify: identifier column missing from schema")
	ErrMissingDescriptive = eris.New("classify: descriptive column missing from schema")
)

var arraySuffix = regexp.MustCompile(`^(.+)\[(\d+)\]$`)

// Params configures a classification pass.
type Params struct {
	IDColumn          string
	DescriptiveColumn string
	SimilarityFields  []string
}

// Result is the outcome of classifying the two schemas.
type Result struct {
	Fields    []model.BaseField             `json:"fields" yaml:"fields"`
	Anomalies []model.ClassificationAnomaly `json:"anomalies,omitempty" yaml:"anomalies,omitempty"`
}

// ByName returns the descriptor for a base field, or nil.
func (r *Result) ByName(name string) *model.BaseField {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i]
		}
	}
	return nil
}

// Classify walks the ordered union of both schemas and produces base-field
// descriptors. Pure function of the schemas and params.
//
// Rules:
//   - a trailing "[N]" suffix marks the base name as an array field and
//     contributes index N to its index set;
//   - a trailing "()" is stripped and the column is treated as the scalar
//     spelling of the base name;
//   - a base name seen both with and without a suffix stays an array field
//     and is flagged as a classification anomaly;
//   - the identifier and descriptive columns are never comparison fields.
func Classify(test, gold *model.Dataset, p Params) (*Result, error) {
	if !test.HasColumn(p.IDColumn) {
		return nil, eris.Wrapf(ErrMissingIdentifier, "dataset %q, column %q", test.Name, p.IDColumn)
	}
	if !gold.HasColumn(p.IDColumn) {
		return nil, eris.Wrapf(ErrMissingIdentifier, "dataset %q, column %q", gold.Name, p.IDColumn)
	}
	if !test.HasColumn(p.DescriptiveColumn) {
		return nil, eris.Wrapf(ErrMissingDescriptive, "dataset %q, column %q", test.Name, p.DescriptiveColumn)
	}
	if !gold.HasColumn(p.DescriptiveColumn) {
		return nil, eris.Wrapf(ErrMissingDescriptive, "dataset %q, column %q", gold.Name, p.DescriptiveColumn)
	}

	fuzzy := make(map[string]bool, len(p.SimilarityFields))
	for _, f := range p.SimilarityFields {
		fuzzy[f] = true
	}

	byName := make(map[string]*model.BaseField)
	bare := make(map[string]bool)
	var order []string

	register := func(column string) {
		if column == "" || column == p.IDColumn || column == p.DescriptiveColumn {
			return
		}

		base := column
		index := -1
		if m := arraySuffix.FindStringSubmatch(column); m != nil {
			base = m[1]
			// Guaranteed numeric by the pattern.
			index, _ = strconv.Atoi(m[2])
		}
		base = strings.TrimSuffix(base, "()")

		f, ok := byName[base]
		if !ok {
			mode := model.MatchModeExact
			if fuzzy[base] {
				mode = model.MatchModeSimilarity
			}
			f = &model.BaseField{
				Name: base,
				Kind: model.FieldKindScalar,
				Mode: mode,
			}
			byName[base] = f
			order = append(order, base)
		}

		if index >= 0 {
			f.Kind = model.FieldKindArray
			f.AddIndex(index)
		} else {
			bare[base] = true
		}
	}

	for _, col := range test.Columns {
		register(col)
	}
	for _, col := range gold.Columns {
		register(col)
	}

	res := &Result{Fields: make([]model.BaseField, 0, len(order))}
	for _, name := range order {
		f := *byName[name]
		// Only meaningful for mixed scalar/array usage.
		f.HasBareColumn = f.Kind == model.FieldKindArray && bare[name]
		res.Fields = append(res.Fields, f)
	}

	for i := range res.Fields {
		f := &res.Fields[i]
		if f.HasBareColumn {
			res.Anomalies = append(res.Anomalies, model.ClassificationAnomaly{
				Field: f.Name,
				Detail: fmt.Sprintf(
					"column %q appears both bare and with %d indexed form(s); using array interpretation",
					f.Name, len(f.Indices)),
			})
		}
	}

	return res, nil
}

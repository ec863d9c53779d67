package engine

import (
	"math"

	"github.com/claimsight/compare-cli/internal/model"
)

// aggregate pools cell outcomes by base field name, ignoring array indices,
// and emits one accuracy record per field in classifier order plus the
// overall summary. Fields with no outcomes report an undefined percentage.
func aggregate(fields []model.BaseField, outcomes []model.CellOutcome) ([]model.AccuracyRecord, model.AccuracyRecord) {
	type tally struct{ valid, total int }
	counts := make(map[string]*tally, len(fields))
	for _, f := range fields {
		counts[f.Name] = &tally{}
	}

	for _, o := range outcomes {
		t, ok := counts[o.Field]
		if !ok {
			continue
		}
		t.total++
		if o.Valid {
			t.valid++
		}
	}

	records := make([]model.AccuracyRecord, 0, len(fields))
	overall := model.AccuracyRecord{Field: "overall"}
	for _, f := range fields {
		t := counts[f.Name]
		records = append(records, accuracyRecord(f.Name, t.valid, t.total))
		overall.Valid += t.valid
		overall.Total += t.total
	}

	overall = accuracyRecord(overall.Field, overall.Valid, overall.Total)
	return records, overall
}

func accuracyRecord(name string, valid, total int) model.AccuracyRecord {
	rec := model.AccuracyRecord{Field: name, Valid: valid, Total: total}
	if total > 0 {
		rec.Defined = true
		rec.Percent = math.Round(float64(valid)/float64(total)*100*100) / 100
	}
	return rec
}

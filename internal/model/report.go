package model

import "time"

// AnomalySide tags which dataset an alignment anomaly was found in.
type AnomalySide string

const (
	SideTest AnomalySide = "test"
	SideGold AnomalySide = "gold"
)

// AlignmentAnomaly records an identifier present in only one dataset.
// Such rows contribute no cell outcomes.
type AlignmentAnomaly struct {
	Identifier  string      `json:"identifier"`
	Descriptive string      `json:"descriptive"`
	Side        AnomalySide `json:"side"`
}

// DuplicateIdentifier records an identifier that appeared more than once
// within a single dataset. All of its rows are excluded from alignment.
type DuplicateIdentifier struct {
	Identifier string      `json:"identifier"`
	Side       AnomalySide `json:"side"`
	Count      int         `json:"count"`
}

// ClassificationAnomaly records a base name used both with and without a
// bracket suffix. The run continues under the array interpretation.
type ClassificationAnomaly struct {
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

// CellOutcome is the result of comparing one cell (or one array index)
// between an aligned row pair. Index is -1 for scalar comparisons.
type CellOutcome struct {
	Identifier  string `json:"identifier"`
	Descriptive string `json:"descriptive"`
	Field       string `json:"field"`
	Index       int    `json:"index"`
	Test        Cell   `json:"test"`
	Gold        Cell   `json:"gold"`
	Valid       bool   `json:"valid"`
}

// AccuracyRecord aggregates valid/total counts for one base field across
// all aligned rows. Array indices pool into the base field; Percent is
// meaningless when Total is zero and Defined is false in that case.
type AccuracyRecord struct {
	Field   string  `json:"field"`
	Valid   int     `json:"valid"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Defined bool    `json:"defined"`
}

// Report is the full structured output of one comparison run. It is pure
// data; rendering and persistence live elsewhere.
type Report struct {
	Fields                 []BaseField             `json:"fields"`
	Details                []CellOutcome           `json:"details"`
	Accuracy               []AccuracyRecord        `json:"accuracy"`
	Overall                AccuracyRecord          `json:"overall"`
	RowPairs               int                     `json:"row_pairs"`
	Anomalies              []AlignmentAnomaly      `json:"anomalies,omitempty"`
	Duplicates             []DuplicateIdentifier   `json:"duplicates,omitempty"`
	ClassificationWarnings []ClassificationAnomaly `json:"classification_warnings,omitempty"`
	DescriptiveGaps        []string                `json:"descriptive_gaps,omitempty"`
}

// RunSummary is the persisted record of one comparison run.
type RunSummary struct {
	ID        string           `json:"id"`
	TestPath  string           `json:"test_path"`
	GoldPath  string           `json:"gold_path"`
	Threshold float64          `json:"threshold"`
	RowPairs  int              `json:"row_pairs"`
	Anomalies int              `json:"anomalies"`
	Overall   AccuracyRecord   `json:"overall"`
	Accuracy  []AccuracyRecord `json:"accuracy"`
	CreatedAt time.Time        `json:"created_at"`
}

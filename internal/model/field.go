package model

import (
	"sort"
	"strconv"
)

// FieldKind distinguishes plain columns from bracket-indexed array columns.
type FieldKind string

const (
	FieldKindScalar FieldKind = "scalar"
	FieldKindArray  FieldKind = "array"
)

// MatchMode selects the comparison semantics for a base field.
type MatchMode string

const (
	MatchModeExact      MatchMode = "exact"
	MatchModeSimilarity MatchMode = "similarity"
)

// BaseField is one logical comparison unit derived from one or more physical
// columns. For an array field, Indices holds the sorted union of bracket
// indices seen in either dataset, and HasBareColumn records whether the base
// name also appeared without a suffix (a classification anomaly).
type BaseField struct {
	Name          string    `json:"name"`
	Kind          FieldKind `json:"kind"`
	Mode          MatchMode `json:"mode"`
	Indices       []int     `json:"indices,omitempty"`
	HasBareColumn bool      `json:"has_bare_column,omitempty"`
}

// AddIndex records an array index, keeping Indices sorted and unique.
func (f *BaseField) AddIndex(i int) {
	pos := sort.SearchInts(f.Indices, i)
	if pos < len(f.Indices) && f.Indices[pos] == i {
		return
	}
	f.Indices = append(f.Indices, 0)
	copy(f.Indices[pos+1:], f.Indices[pos:])
	f.Indices[pos] = i
}

// Column returns the physical column name for one index of an array field.
func (f *BaseField) Column(index int) string {
	if index < 0 {
		return f.Name
	}
	return f.Name + "[" + strconv.Itoa(index) + "]"
}

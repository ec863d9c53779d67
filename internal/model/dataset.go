package model

// Cell is one value from a dataset row. Present distinguishes a column that
// exists but holds an empty string from a column absent from the dataset
// entirely; the comparator treats both as empty, renderers do not.
type Cell struct {
	Value   string `json:"value"`
	Present bool   `json:"present"`
}

// Empty reports whether the cell carries no comparable content.
func (c Cell) Empty() bool {
	return !c.Present || c.Value == ""
}

// Row is a single dataset record keyed by column name.
type Row map[string]string

// Cell looks up a column on the row.
func (r Row) Cell(column string) Cell {
	v, ok := r[column]
	return Cell{Value: v, Present: ok}
}

// Dataset is an in-memory tabular dataset with named columns. Columns
// preserves the source column order; Rows preserves the source row order.
// Datasets are treated as immutable once ingested.
type Dataset struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn reports whether the dataset schema contains the given column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// DistinctValues returns the ordered distinct values of one column.
func (d *Dataset) DistinctValues(column string) []string {
	seen := make(map[string]bool, len(d.Rows))
	var out []string
	for _, row := range d.Rows {
		v := row[column]
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

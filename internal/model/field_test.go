package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddIndexSortedUnique(t *testing.T) {
	var f BaseField
	for _, i := range []int{2, 0, 2, 5, 1} {
		f.AddIndex(i)
	}
	assert.Equal(t, []int{0, 1, 2, 5}, f.Indices)
}

func TestColumn(t *testing.T) {
	f := BaseField{Name: "address"}
	assert.Equal(t, "address", f.Column(-1))
	assert.Equal(t, "address[0]", f.Column(0))
	assert.Equal(t, "address[12]", f.Column(12))
}

func TestCellEmpty(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want bool
	}{
		{"absent", Cell{}, true},
		{"present empty", Cell{Present: true}, true},
		{"present value", Cell{Value: "x", Present: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.Empty())
		})
	}
}

func TestRowCell(t *testing.T) {
	row := Row{"status": "open", "note": ""}

	c := row.Cell("status")
	assert.True(t, c.Present)
	assert.Equal(t, "open", c.Value)

	c = row.Cell("note")
	assert.True(t, c.Present, "empty string is present, just blank")

	c = row.Cell("missing")
	assert.False(t, c.Present)
}

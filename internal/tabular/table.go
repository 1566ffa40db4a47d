package tabular

import "math"

// Kind is the inferred semantic type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindTemporal    Kind = "temporal"
	KindUnknown     Kind = "unknown"
)

// CellKind tags the variant held by a Cell.
type CellKind uint8

const (
	CellMissing CellKind = iota
	CellNumber
	CellText
)

// Cell is a single table value: a number, a text token, or a missing marker.
type Cell struct {
	Kind CellKind
	Num  float64
	Text string
}

// NumberCell wraps a float64. Non-finite values are stored as missing so a
// parsed table can never smuggle NaN/Inf into a column.
func NumberCell(v float64) Cell {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Cell{Kind: CellMissing}
	}
	return Cell{Kind: CellNumber, Num: v}
}

// TextCell wraps a string.
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// MissingCell returns the missing marker.
func MissingCell() Cell { return Cell{Kind: CellMissing} }

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// Value returns the cell as a JSON-friendly scalar (nil when missing).
func (c Cell) Value() any {
	switch c.Kind {
	case CellNumber:
		return c.Num
	case CellText:
		return c.Text
	default:
		return nil
	}
}

// Column is a named, typed, ordered sequence of cells.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// MissingCount returns the number of missing cells.
func (c Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.IsMissing() {
			n++
		}
	}
	return n
}

// Floats returns the column as float64s with NaN standing in for missing or
// non-numeric cells. Length always equals the row count.
func (c Column) Floats() []float64 {
	out := make([]float64, len(c.Cells))
	for i, cell := range c.Cells {
		if cell.Kind == CellNumber {
			out[i] = cell.Num
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// NumericValues returns the finite numeric values only, dropping missing cells.
func (c Column) NumericValues() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Kind == CellNumber {
			out = append(out, cell.Num)
		}
	}
	return out
}

// TextValues returns the non-missing cells rendered as strings.
func (c Column) TextValues() []string {
	out := make([]string, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Kind == CellText {
			out = append(out, cell.Text)
		}
	}
	return out
}

// Table is an ordered sequence of equal-length named columns.
type Table struct {
	Columns []Column
}

// Rows returns the row count.
func (t Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// Cols returns the column count.
func (t Table) Cols() int { return len(t.Columns) }

// Column finds a column by name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns column names in table order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the columns whose kind is Numeric, in table order.
func (t Table) NumericColumns() []Column {
	var out []Column
	for _, c := range t.Columns {
		if c.Kind == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// CategoricalColumns returns the columns whose kind is Categorical, in table order.
func (t Table) CategoricalColumns() []Column {
	var out []Column
	for _, c := range t.Columns {
		if c.Kind == KindCategorical {
			out = append(out, c)
		}
	}
	return out
}

// Select returns a table restricted to the named columns, preserving request
// order. Unknown names are skipped.
func (t Table) Select(names []string) Table {
	var out Table
	for _, name := range names {
		if col, ok := t.Column(name); ok {
			out.Columns = append(out.Columns, col)
		}
	}
	return out
}

// Row returns the i-th row as name → scalar value.
func (t Table) Row(i int) map[string]any {
	row := make(map[string]any, len(t.Columns))
	for _, c := range t.Columns {
		row[c.Name] = c.Cells[i].Value()
	}
	return row
}

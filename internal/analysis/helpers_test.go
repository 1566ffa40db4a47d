package analysis

import (
	"math"

	"datalens-backend/internal/tabular"
)

func numCol(name string, vals ...float64) tabular.Column {
	cells := make([]tabular.Cell, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			cells[i] = tabular.MissingCell()
		} else {
			cells[i] = tabular.NumberCell(v)
		}
	}
	return tabular.Column{Name: name, Kind: tabular.KindNumeric, Cells: cells}
}

func catCol(name string, vals ...string) tabular.Column {
	cells := make([]tabular.Cell, len(vals))
	for i, v := range vals {
		if v == "" {
			cells[i] = tabular.MissingCell()
		} else {
			cells[i] = tabular.TextCell(v)
		}
	}
	return tabular.Column{Name: name, Kind: tabular.KindCategorical, Cells: cells}
}

func tableOf(cols ...tabular.Column) tabular.Table {
	return tabular.Table{Columns: cols}
}

func seq(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

package tabular

// Info summarizes a table's shape, declared types and missing-value profile.
type Info struct {
	RowsCount          int            `json:"rows_count"`
	ColumnsCount       int            `json:"columns_count"`
	Columns            []string       `json:"columns"`
	Dtypes             map[string]string `json:"dtypes"`
	MemoryUsage        int64          `json:"memory_usage"`
	MissingValues      map[string]int `json:"missing_values"`
	NumericColumns     []string       `json:"numeric_columns"`
	CategoricalColumns []string       `json:"categorical_columns"`
}

// Map renders the summary as a generic payload tree.
func (i Info) Map() map[string]any {
	return map[string]any{
		"rows_count":          i.RowsCount,
		"columns_count":       i.ColumnsCount,
		"columns":             i.Columns,
		"dtypes":              i.Dtypes,
		"memory_usage":        i.MemoryUsage,
		"missing_values":      i.MissingValues,
		"numeric_columns":     i.NumericColumns,
		"categorical_columns": i.CategoricalColumns,
	}
}

// Describe returns basic information about a table.
func Describe(t Table) Info {
	info := Info{
		RowsCount:          t.Rows(),
		ColumnsCount:       t.Cols(),
		Columns:            t.ColumnNames(),
		Dtypes:             make(map[string]string, t.Cols()),
		MissingValues:      make(map[string]int, t.Cols()),
		NumericColumns:     []string{},
		CategoricalColumns: []string{},
	}

	for _, col := range t.Columns {
		info.Dtypes[col.Name] = string(col.Kind)
		info.MissingValues[col.Name] = col.MissingCount()
		info.MemoryUsage += columnBytes(col)
		switch col.Kind {
		case KindNumeric:
			info.NumericColumns = append(info.NumericColumns, col.Name)
		case KindCategorical:
			info.CategoricalColumns = append(info.CategoricalColumns, col.Name)
		}
	}
	return info
}

// columnBytes is a rough resident-size estimate: 8 bytes per numeric cell,
// string header plus payload for text cells.
func columnBytes(col Column) int64 {
	var total int64
	for _, cell := range col.Cells {
		switch cell.Kind {
		case CellNumber:
			total += 8
		case CellText:
			total += 16 + int64(len(cell.Text))
		default:
			total += 8
		}
	}
	return total
}

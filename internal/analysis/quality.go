package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"datalens-backend/internal/tabular"
)

const KindQuality = "quality"

// Thresholds for quality flags. Documented defaults, not tuned optima.
const (
	HighMissingRatio   = 0.10
	HighDuplicateRatio = 0.05
	OutlierCellRatio   = 0.05
)

// Quality scores a cleaned table and flags structural data issues. Pure over
// the table, no model fitting.
func Quality(t tabular.Table) Result {
	rows, cols := t.Rows(), t.Cols()
	if rows == 0 || cols == 0 {
		return fail(KindQuality, FailValidation, "table has no data")
	}

	missingCells := 0
	for _, col := range t.Columns {
		missingCells += col.MissingCount()
	}
	missingRatio := float64(missingCells) / float64(rows*cols)
	dupRatio := float64(duplicateRows(t)) / float64(rows)

	score := 100 - 50*missingRatio - 30*dupRatio
	if score < 0 {
		score = 0
	}

	var issues []map[string]any
	var recommendations []string

	if missingRatio > HighMissingRatio {
		issues = append(issues, map[string]any{
			"type":    "high_missing_data",
			"message": fmt.Sprintf("%.1f%% of cells are missing", missingRatio*100),
		})
		recommendations = append(recommendations, "Impute or drop columns with many missing values.")
	}
	if dupRatio > HighDuplicateRatio {
		issues = append(issues, map[string]any{
			"type":    "duplicate_rows",
			"message": fmt.Sprintf("%.1f%% of rows are duplicates", dupRatio*100),
		})
		recommendations = append(recommendations, "Remove duplicate rows before analysis.")
	}
	if outlierCols := outlierColumns(t, 3); len(outlierCols) > 0 {
		issues = append(issues, map[string]any{
			"type":    "potential_outliers",
			"message": fmt.Sprintf("columns with outliers: %s", strings.Join(outlierCols, ", ")),
			"columns": outlierCols,
		})
		recommendations = append(recommendations, "Inspect flagged columns and consider capping or removing outliers.")
	}
	if score < 70 {
		recommendations = append(recommendations, "Clean and preprocess the data before modeling.")
	}
	if score < 50 {
		recommendations = append(recommendations, "Data quality is low; review the data collection sources.")
	}

	return success(KindQuality, map[string]any{
		"quality_score":   round(score, 1),
		"missing_ratio":   round(missingRatio, 4),
		"duplicate_ratio": round(dupRatio, 4),
		"issues":          issues,
		"recommendations": recommendations,
	})
}

// duplicateRows counts rows that repeat an earlier row exactly.
func duplicateRows(t tabular.Table) int {
	seen := make(map[string]struct{}, t.Rows())
	dups := 0
	var b strings.Builder
	for i := 0; i < t.Rows(); i++ {
		b.Reset()
		for _, col := range t.Columns {
			cell := col.Cells[i]
			switch cell.Kind {
			case tabular.CellNumber:
				b.WriteString(strconv.FormatFloat(cell.Num, 'g', -1, 64))
			case tabular.CellText:
				b.WriteString(cell.Text)
			}
			b.WriteByte(0x1f)
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// outlierColumns returns up to limit numeric column names where more than
// OutlierCellRatio of the values fall outside the 1.5*IQR fences.
func outlierColumns(t tabular.Table, limit int) []string {
	var out []string
	for _, col := range t.NumericColumns() {
		vals := col.NumericValues()
		if len(vals) < 4 {
			continue
		}
		q1 := quantile(vals, 0.25)
		q3 := quantile(vals, 0.75)
		iqr := q3 - q1
		lo, hi := q1-1.5*iqr, q3+1.5*iqr

		outliers := 0
		for _, v := range vals {
			if v < lo || v > hi {
				outliers++
			}
		}
		if float64(outliers) > OutlierCellRatio*float64(len(vals)) {
			out = append(out, col.Name)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

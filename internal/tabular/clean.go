package tabular

import (
	"strconv"
	"strings"
	"time"
)

// NumericThreshold is the fraction of non-missing cells that must parse as
// numbers before a text column is converted to Numeric. Documented default
// carried over from the reference heuristics; not exposed as configuration.
const NumericThreshold = 0.5

// missingTokens are text values treated as an absent observation.
var missingTokens = map[string]struct{}{
	"nan": {}, "null": {}, "N/A": {}, "n/a": {}, "NULL": {}, "": {},
}

var temporalLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02-01-2006",
}

// Clean converts "mostly numeric" text columns to Numeric columns. A text
// cell is normalized by stripping thousands separators, currency and percent
// markers and whitespace; the literal missing tokens become Missing. If more
// than NumericThreshold of a column's non-missing cells parse as numbers, the
// column is replaced with the parsed values (unparsable cells become
// Missing). Columns that stay textual are typed Categorical, or Temporal when
// every non-missing value looks like a date. Idempotent: cleaning a cleaned
// table is a no-op.
func Clean(t Table) Table {
	out := Table{Columns: make([]Column, len(t.Columns))}
	for i, col := range t.Columns {
		if col.Kind == KindNumeric {
			out.Columns[i] = col
			continue
		}
		out.Columns[i] = cleanColumn(col)
	}
	return out
}

func cleanColumn(col Column) Column {
	parsed := make([]Cell, len(col.Cells))
	nonMissing := 0
	numeric := 0

	for i, cell := range col.Cells {
		switch cell.Kind {
		case CellMissing:
			parsed[i] = MissingCell()
		case CellNumber:
			nonMissing++
			numeric++
			parsed[i] = cell
		case CellText:
			norm, missing := normalizeNumericText(cell.Text)
			if missing {
				parsed[i] = MissingCell()
				continue
			}
			nonMissing++
			if v, err := strconv.ParseFloat(norm, 64); err == nil {
				numeric++
				parsed[i] = NumberCell(v)
			} else {
				parsed[i] = MissingCell()
			}
		}
	}

	// Zero non-missing cells: nothing to vote with, keep as categorical.
	if nonMissing > 0 && float64(numeric) > NumericThreshold*float64(nonMissing) {
		return Column{Name: col.Name, Kind: KindNumeric, Cells: parsed}
	}

	kind := KindCategorical
	if isTemporal(col) {
		kind = KindTemporal
	}
	return Column{Name: col.Name, Kind: kind, Cells: col.Cells}
}

// CoerceNumeric forces a column to Numeric regardless of the conversion
// threshold. Unparsable cells become Missing. Used when a caller explicitly
// names a column as a model feature.
func CoerceNumeric(col Column) Column {
	if col.Kind == KindNumeric {
		return col
	}
	cells := make([]Cell, len(col.Cells))
	for i, cell := range col.Cells {
		switch cell.Kind {
		case CellNumber:
			cells[i] = cell
		case CellText:
			norm, missing := normalizeNumericText(cell.Text)
			if missing {
				cells[i] = MissingCell()
				continue
			}
			if v, err := strconv.ParseFloat(norm, 64); err == nil {
				cells[i] = NumberCell(v)
			} else {
				cells[i] = MissingCell()
			}
		default:
			cells[i] = MissingCell()
		}
	}
	return Column{Name: col.Name, Kind: KindNumeric, Cells: cells}
}

// normalizeNumericText strips common numeric formatting noise. The second
// return is true when the token denotes a missing value.
func normalizeNumericText(s string) (string, bool) {
	if _, ok := missingTokens[s]; ok {
		return "", true
	}
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "%", "")
	if _, ok := missingTokens[s]; ok {
		return "", true
	}
	return s, false
}

func isTemporal(col Column) bool {
	seen := 0
	for _, cell := range col.Cells {
		if cell.Kind != CellText {
			continue
		}
		if _, missing := normalizeNumericText(cell.Text); missing {
			continue
		}
		seen++
		if !parsesAsTime(strings.TrimSpace(cell.Text)) {
			return false
		}
	}
	return seen > 0
}

func parsesAsTime(s string) bool {
	for _, layout := range temporalLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

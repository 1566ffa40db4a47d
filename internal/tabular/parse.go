package tabular

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is the declared input format of a raw dataset.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatJSON  Format = "json"
	FormatAuto  Format = "auto"
)

// FormatFromExtension maps a file extension (with or without the leading dot)
// to a Format, defaulting to auto-detection.
func FormatFromExtension(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "csv":
		return FormatCSV
	case "xlsx", "xls":
		return FormatExcel
	case "json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// Parse reads a raw dataset into a Table. All cells come back as text or
// missing; Clean is responsible for numeric typing. Auto-detection tries
// delimited text first and falls back to spreadsheet parsing.
func Parse(r io.Reader, format Format) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read dataset: %w", err)
	}

	switch format {
	case FormatCSV:
		return parseCSV(data)
	case FormatExcel:
		return parseExcel(data)
	case FormatJSON:
		return parseJSON(data)
	default:
		if t, err := parseCSV(data); err == nil {
			return t, nil
		}
		return parseExcel(data)
	}
}

func parseCSV(data []byte) (Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return Table{}, fmt.Errorf("read csv header: %w", err)
	}
	if len(headers) == 0 {
		return Table{}, errors.New("csv has no columns")
	}

	rows := make([][]string, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, record)
	}
	return fromStringGrid(headers, rows), nil
}

func parseExcel(data []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Table{}, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errors.New("spreadsheet has no sheets")
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(grid) == 0 {
		return Table{}, errors.New("spreadsheet has no rows")
	}
	return fromStringGrid(grid[0], grid[1:]), nil
}

func parseJSON(data []byte) (Table, error) {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return Table{}, fmt.Errorf("decode json records: %w", err)
	}
	if len(records) == 0 {
		return Table{}, errors.New("json dataset is empty")
	}

	// Column order follows first appearance across records.
	var names []string
	seen := make(map[string]int)
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = len(names)
				names = append(names, k)
			}
		}
	}

	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Kind: KindUnknown, Cells: make([]Cell, len(records))}
	}
	for r, rec := range records {
		for name, idx := range seen {
			cols[idx].Cells[r] = jsonCell(rec[name])
		}
	}
	for i := range cols {
		cols[i].Kind = inferParsedKind(cols[i])
	}
	return Table{Columns: cols}, nil
}

func jsonCell(v any) Cell {
	switch val := v.(type) {
	case nil:
		return MissingCell()
	case float64:
		return NumberCell(val)
	case string:
		return textOrMissing(val)
	case bool:
		if val {
			return TextCell("true")
		}
		return TextCell("false")
	default:
		// Nested objects/arrays are not tabular; keep a textual rendering.
		raw, err := json.Marshal(val)
		if err != nil {
			return MissingCell()
		}
		return TextCell(string(raw))
	}
}

func fromStringGrid(headers []string, rows [][]string) Table {
	cols := make([]Column, len(headers))
	for i, h := range headers {
		name := strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		cols[i] = Column{Name: name, Kind: KindCategorical, Cells: make([]Cell, len(rows))}
	}
	for r, row := range rows {
		for c := range cols {
			if c < len(row) {
				cols[c].Cells[r] = textOrMissing(row[c])
			} else {
				cols[c].Cells[r] = MissingCell()
			}
		}
	}
	return Table{Columns: cols}
}

func textOrMissing(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return MissingCell()
	}
	return TextCell(s)
}

func inferParsedKind(col Column) Kind {
	hasNumber := false
	for _, cell := range col.Cells {
		switch cell.Kind {
		case CellText:
			return KindCategorical
		case CellNumber:
			hasNumber = true
		}
	}
	if hasNumber {
		return KindNumeric
	}
	return KindCategorical
}

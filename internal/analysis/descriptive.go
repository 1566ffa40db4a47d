package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"datalens-backend/internal/tabular"
)

const KindDescriptive = "descriptive"

// Descriptive computes per-column summary statistics for a cleaned table.
// When columns is non-empty the analysis is restricted to that subset.
func Descriptive(t tabular.Table, columns []string) Result {
	if len(columns) > 0 {
		for _, name := range columns {
			if _, ok := t.Column(name); !ok {
				return fail(KindDescriptive, FailValidation, "column %q not found", name)
			}
		}
		t = t.Select(columns)
	}
	if t.Cols() == 0 {
		return fail(KindDescriptive, FailValidation, "table has no columns")
	}

	numericSummary := make(map[string]any)
	categoricalSummary := make(map[string]any)
	missing := make(map[string]any)
	dtypes := make(map[string]any)
	var charts []ChartSpec

	for _, col := range t.Columns {
		missing[col.Name] = col.MissingCount()
		dtypes[col.Name] = string(col.Kind)

		if col.Kind == tabular.KindNumeric {
			numericSummary[col.Name] = numericColumnSummary(col)
			if spec, ok := histogramChart(col); ok {
				charts = append(charts, spec)
			}
			continue
		}
		categoricalSummary[col.Name] = categoricalColumnSummary(col)
		if spec, ok := topValuesChart(col); ok {
			charts = append(charts, spec)
		}
	}

	return success(KindDescriptive, map[string]any{
		"rows_count":          t.Rows(),
		"numeric_summary":     numericSummary,
		"categorical_summary": categoricalSummary,
		"missing_values":      missing,
		"dtypes":              dtypes,
		"charts":              charts,
	})
}

func numericColumnSummary(col tabular.Column) map[string]any {
	vals := col.NumericValues()
	out := map[string]any{"count": len(vals)}
	if len(vals) == 0 {
		return out
	}
	out["mean"] = stat.Mean(vals, nil)
	out["std"] = stat.StdDev(vals, nil)
	out["min"] = quantile(vals, 0)
	out["25%"] = quantile(vals, 0.25)
	out["50%"] = quantile(vals, 0.5)
	out["75%"] = quantile(vals, 0.75)
	out["max"] = quantile(vals, 1)
	return out
}

type valueCount struct {
	value string
	count int
}

// topValueCounts returns value counts sorted by count descending, ties broken
// lexicographically.
func topValueCounts(col tabular.Column, limit int) []valueCount {
	counts := make(map[string]int)
	for _, v := range col.TextValues() {
		counts[v]++
	}
	out := make([]valueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, valueCount{value: v, count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].count != out[b].count {
			return out[a].count > out[b].count
		}
		return out[a].value < out[b].value
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func categoricalColumnSummary(col tabular.Column) map[string]any {
	top := topValueCounts(col, 10)
	out := map[string]any{
		"count":         len(col.TextValues()),
		"unique_values": uniqueTextCount(col),
	}
	if len(top) > 0 {
		out["most_frequent"] = top[0].value
		topValues := make(map[string]any, len(top))
		for _, vc := range top {
			topValues[vc.value] = vc.count
		}
		out["top_values"] = topValues
	}
	return out
}

func uniqueTextCount(col tabular.Column) int {
	seen := make(map[string]struct{})
	for _, v := range col.TextValues() {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func histogramChart(col tabular.Column) (ChartSpec, bool) {
	vals := col.NumericValues()
	if len(vals) == 0 {
		return ChartSpec{}, false
	}
	edges, counts := histogram(vals, histogramBins(len(vals)))
	if edges == nil {
		return ChartSpec{}, false
	}
	return ChartSpec{
		Kind:   "histogram",
		Title:  fmt.Sprintf("Distribution of %s", col.Name),
		XLabel: col.Name,
		YLabel: "Frequency",
		Data: map[string]any{
			"bin_edges": edges,
			"counts":    counts,
			"mean":      stat.Mean(vals, nil),
		},
	}, true
}

func topValuesChart(col tabular.Column) (ChartSpec, bool) {
	top := topValueCounts(col, 10)
	if len(top) < 2 {
		return ChartSpec{}, false
	}
	labels := make([]string, len(top))
	values := make([]float64, len(top))
	for i, vc := range top {
		labels[i] = vc.value
		values[i] = float64(vc.count)
	}
	return ChartSpec{
		Kind:   "bar",
		Title:  fmt.Sprintf("Top values of %s", col.Name),
		XLabel: col.Name,
		YLabel: "Count",
		Data:   map[string]any{"labels": labels, "values": values},
	}, true
}

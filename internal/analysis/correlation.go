package analysis

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"datalens-backend/internal/tabular"
)

const KindCorrelation = "correlation"

// StrongCorrelation is the absolute-correlation cutoff above which a column
// pair is reported as strongly correlated. Documented default, not a tuned
// optimum.
const StrongCorrelation = 0.7

// Correlation computes the pairwise correlation matrix over the numeric
// columns using the requested method (pearson, spearman or kendall).
func Correlation(t tabular.Table, method string) Result {
	if method == "" {
		method = "pearson"
	}
	method = strings.ToLower(method)
	switch method {
	case "pearson", "spearman", "kendall":
	default:
		return fail(KindCorrelation, FailValidation, "unsupported correlation method %q", method)
	}

	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return fail(KindCorrelation, FailValidation, "no numeric columns available for correlation")
	}

	names := make([]string, len(numeric))
	series := make([][]float64, len(numeric))
	for i, col := range numeric {
		names[i] = col.Name
		series[i] = col.Floats()
	}

	n := len(numeric)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	var strongPairs []map[string]any
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pairCorrelation(series[i], series[j], method)
			if i == j && !math.IsNaN(r) {
				// Exact 1.0 on the diagonal for non-constant columns.
				r = 1
			}
			matrix[i][j] = r
			matrix[j][i] = r
			if i != j && !math.IsNaN(r) && math.Abs(r) >= StrongCorrelation {
				strongPairs = append(strongPairs, map[string]any{
					"column_1":    names[i],
					"column_2":    names[j],
					"correlation": round(r, 3),
				})
			}
		}
	}

	payload := map[string]any{
		"method":       method,
		"columns":      names,
		"matrix":       matrix,
		"strong_pairs": strongPairs,
	}
	if spec, ok := heatmapChart(names, matrix); ok {
		payload["charts"] = []ChartSpec{spec}
	}
	return success(KindCorrelation, payload)
}

// pairCorrelation correlates two aligned series, dropping rows where either
// side is missing. Constant series yield NaN, including on the diagonal.
func pairCorrelation(a, b []float64, method string) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	switch method {
	case "spearman":
		return stat.Correlation(ranks(x), ranks(y), nil)
	case "kendall":
		return stat.Kendall(x, y, nil)
	default:
		return stat.Correlation(x, y, nil)
	}
}

func heatmapChart(names []string, matrix [][]float64) (ChartSpec, bool) {
	if len(names) == 0 {
		return ChartSpec{}, false
	}
	clipped := make([][]float64, len(matrix))
	for i, row := range matrix {
		clipped[i] = make([]float64, len(row))
		for j, v := range row {
			clipped[i][j] = math.Max(-1, math.Min(1, v))
		}
	}
	return ChartSpec{
		Kind:  "heatmap",
		Title: "Correlation Matrix",
		Data:  map[string]any{"columns": names, "matrix": clipped},
	}, true
}

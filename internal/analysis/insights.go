package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"datalens-backend/internal/tabular"
)

const KindInsights = "insights"

// Thresholds for insight flags. Documented defaults, not tuned optima.
const (
	MulticollinearityCutoff = 0.8
	SkewnessCutoff          = 2.0
	CardinalityRatioCutoff  = 0.5
	LargeDatasetRows        = 10000
	SmallDatasetRows        = 100
)

// Insights derives heuristic observations about a cleaned table: size
// extremes, collinear numeric pairs, heavy skew and high-cardinality
// categoricals. Each insight carries a severity tag and a recommendation.
func Insights(t tabular.Table) Result {
	if t.Rows() == 0 || t.Cols() == 0 {
		return fail(KindInsights, FailValidation, "table has no data")
	}

	var insights []map[string]any
	add := func(kind, severity, message, recommendation string) {
		insights = append(insights, map[string]any{
			"type":           kind,
			"severity":       severity,
			"message":        message,
			"recommendation": recommendation,
		})
	}

	switch {
	case t.Rows() > LargeDatasetRows:
		add("dataset_size", "info",
			fmt.Sprintf("Large dataset with %d rows.", t.Rows()),
			"Consider sampling for faster exploratory analysis.")
	case t.Rows() < SmallDatasetRows:
		add("dataset_size", "warning",
			fmt.Sprintf("Small dataset with only %d rows.", t.Rows()),
			"Statistical estimates and model metrics may be unstable.")
	}

	numeric := t.NumericColumns()
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			r := pairCorrelation(numeric[i].Floats(), numeric[j].Floats(), "pearson")
			if !math.IsNaN(r) && math.Abs(r) > MulticollinearityCutoff {
				add("multicollinearity", "warning",
					fmt.Sprintf("Columns %q and %q are highly correlated (r = %.2f).",
						numeric[i].Name, numeric[j].Name, r),
					"Drop one of the pair before fitting a linear model.")
			}
		}
	}

	for _, col := range numeric {
		vals := col.NumericValues()
		if len(vals) < 3 {
			continue
		}
		skew := stat.Skew(vals, nil)
		if !math.IsNaN(skew) && math.Abs(skew) > SkewnessCutoff {
			add("skewed_distribution", "warning",
				fmt.Sprintf("Column %q is heavily skewed (skew = %.2f).", col.Name, skew),
				"Consider a log or power transform.")
		}
	}

	for _, col := range t.CategoricalColumns() {
		values := col.TextValues()
		if len(values) == 0 {
			continue
		}
		ratio := float64(uniqueTextCount(col)) / float64(len(values))
		if ratio > CardinalityRatioCutoff {
			add("high_cardinality", "warning",
				fmt.Sprintf("Column %q has %.0f%% unique values.", col.Name, ratio*100),
				"Likely an identifier; exclude it from grouping and modeling.")
		}
	}

	if len(insights) == 0 {
		add("overall", "success", "No structural issues detected.", "Data looks ready for analysis.")
	}

	return success(KindInsights, map[string]any{"insights": insights})
}

package analysis

import (
	"fmt"

	"datalens-backend/internal/tabular"
)

const KindVizRecommend = "visualization_recommendations"

// MaxVizRecommendations caps the recommendation list length.
const MaxVizRecommendations = 10

// RecommendVisualizations suggests up to MaxVizRecommendations prioritized
// charts for a cleaned table.
func RecommendVisualizations(t tabular.Table) Result {
	if t.Rows() == 0 || t.Cols() == 0 {
		return fail(KindVizRecommend, FailValidation, "table has no data")
	}

	numeric := t.NumericColumns()
	categorical := t.CategoricalColumns()

	var recs []map[string]any
	add := func(chartType, priority, description string, columns []string) {
		if len(recs) >= MaxVizRecommendations {
			return
		}
		recs = append(recs, map[string]any{
			"chart_type":  chartType,
			"columns":     columns,
			"priority":    priority,
			"description": description,
		})
	}

	for i, col := range numeric {
		if i == 5 {
			break
		}
		add("histogram", "high",
			fmt.Sprintf("Distribution of %s", col.Name), []string{col.Name})
	}

	shown := 0
	for _, col := range categorical {
		if shown == 3 {
			break
		}
		if uniqueTextCount(col) > 20 {
			continue
		}
		add("bar", "medium",
			fmt.Sprintf("Value counts of %s", col.Name), []string{col.Name})
		shown++
	}

	if len(numeric) >= 3 {
		names := make([]string, len(numeric))
		for i, col := range numeric {
			names[i] = col.Name
		}
		add("heatmap", "high", "Correlation matrix of numeric columns", names)
	}

	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			add("scatter", "medium",
				fmt.Sprintf("%s vs %s", numeric[i].Name, numeric[j].Name),
				[]string{numeric[i].Name, numeric[j].Name})
		}
	}

	for _, cat := range categorical {
		if uniqueTextCount(cat) > 10 {
			continue
		}
		for _, num := range numeric {
			add("box", "medium",
				fmt.Sprintf("%s by %s", num.Name, cat.Name),
				[]string{cat.Name, num.Name})
		}
	}

	return success(KindVizRecommend, map[string]any{"recommendations": recs})
}

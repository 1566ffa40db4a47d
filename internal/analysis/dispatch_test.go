package analysis

import (
	"testing"

	"datalens-backend/internal/tabular"
)

func rawTextColumn(name string, values ...string) tabular.Column {
	cells := make([]tabular.Cell, len(values))
	for i, v := range values {
		cells[i] = tabular.TextCell(v)
	}
	return tabular.Column{Name: name, Kind: tabular.KindUnknown, Cells: cells}
}

func TestRunCleansBeforeAnalyzing(t *testing.T) {
	// Currency-formatted text must be usable as a numeric column.
	table := tabular.Table{Columns: []tabular.Column{
		rawTextColumn("price", "$1,200", "1,500", "N/A", "2,000.50", "900"),
	}}

	res := Run(table, Request{Kind: KindDescriptive})
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Failure)
	}
	summary := res.Payload["numeric_summary"].(map[string]any)
	price := summary["price"].(map[string]any)
	if price["count"] != 4 {
		t.Fatalf("expected 4 parsed values, got %v", price["count"])
	}
	if price["max"] != 2000.5 {
		t.Fatalf("expected max 2000.5, got %v", price["max"])
	}
}

func TestRunUnsupportedKind(t *testing.T) {
	res := Run(tabular.Table{}, Request{Kind: "prophecy"})
	if res.OK() || res.Failure.Kind != FailValidation {
		t.Fatalf("expected validation failure, got %+v", res)
	}
}

func TestRunRoutesToRegression(t *testing.T) {
	xs := seq(25, func(i int) float64 { return float64(i) })
	ys := seq(25, func(i int) float64 { return 5 * float64(i) })

	res := Run(tableOf(numCol("x", xs...), numCol("y", ys...)), Request{
		Kind:         KindRegression,
		TargetColumn: "y",
	})
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Failure)
	}
	if res.Kind != KindRegression {
		t.Fatalf("expected regression kind, got %s", res.Kind)
	}
}

func TestQuickIsolatesSubFailures(t *testing.T) {
	// Single categorical column: correlation must fail while the rest succeed.
	res := Quick(tableOf(catCol("city", "Oslo", "Lima", "Oslo", "Kyoto")))
	if !res.OK() {
		t.Fatalf("expected composite success, got %v", res.Failure)
	}

	analyses := res.Payload["analyses"].(map[string]any)
	corr := analyses[KindCorrelation].(map[string]any)
	if corr["success"] != false {
		t.Fatalf("expected correlation sub-analysis to fail, got %v", corr)
	}
	if corr["error"] == nil {
		t.Fatalf("expected error message on failed sub-analysis")
	}

	for _, name := range []string{"dataset_info", KindDescriptive, KindQuality, KindInsights, KindVizRecommend} {
		entry := analyses[name].(map[string]any)
		if entry["success"] != true {
			t.Fatalf("expected %s to succeed, got %v", name, entry)
		}
	}
}

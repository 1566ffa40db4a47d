package analysis

import (
	"math"
	"testing"
)

func TestDescriptiveNumericSummary(t *testing.T) {
	res := Descriptive(tableOf(numCol("x", 1, 2, 3, 4, 5)), nil)
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Failure)
	}

	summary := res.Payload["numeric_summary"].(map[string]any)
	x := summary["x"].(map[string]any)

	if x["count"] != 5 {
		t.Fatalf("expected count 5, got %v", x["count"])
	}
	if x["mean"] != 3.0 {
		t.Fatalf("expected mean 3.0, got %v", x["mean"])
	}
	if std := x["std"].(float64); math.Abs(std-1.5811) > 0.001 {
		t.Fatalf("expected std near 1.5811, got %v", std)
	}
	if x["min"] != 1.0 || x["max"] != 5.0 {
		t.Fatalf("expected min 1 and max 5, got %v / %v", x["min"], x["max"])
	}
	if x["50%"] != 3.0 {
		t.Fatalf("expected median 3.0, got %v", x["50%"])
	}
}

func TestDescriptiveCategoricalSummary(t *testing.T) {
	res := Descriptive(tableOf(catCol("city", "Oslo", "Lima", "Oslo", "")), nil)
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Failure)
	}

	summary := res.Payload["categorical_summary"].(map[string]any)
	city := summary["city"].(map[string]any)
	if city["unique_values"] != 2 {
		t.Fatalf("expected 2 unique values, got %v", city["unique_values"])
	}
	if city["most_frequent"] != "Oslo" {
		t.Fatalf("expected Oslo as most frequent, got %v", city["most_frequent"])
	}

	missing := res.Payload["missing_values"].(map[string]any)
	if missing["city"] != 1 {
		t.Fatalf("expected 1 missing cell, got %v", missing["city"])
	}
}

func TestDescriptiveUnknownColumn(t *testing.T) {
	res := Descriptive(tableOf(numCol("x", 1, 2)), []string{"nope"})
	if res.OK() || res.Failure.Kind != FailValidation {
		t.Fatalf("expected validation failure, got %+v", res)
	}
}

func TestDescriptiveEmitsHistogramChart(t *testing.T) {
	res := Descriptive(tableOf(numCol("x", seq(25, func(i int) float64 { return float64(i) })...)), nil)
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Failure)
	}
	charts := res.Payload["charts"].([]any)
	if len(charts) != 1 {
		t.Fatalf("expected one chart, got %d", len(charts))
	}
	chart := charts[0].(map[string]any)
	if chart["chart_type"] != "histogram" {
		t.Fatalf("expected histogram, got %v", chart["chart_type"])
	}
	counts := chart["data"].(map[string]any)["counts"].([]int)
	if len(counts) != 5 {
		t.Fatalf("expected sqrt(25)=5 bins, got %d", len(counts))
	}
}

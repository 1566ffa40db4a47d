package analysis

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestSanitizeReplacesNonFinite(t *testing.T) {
	in := map[string]any{
		"ok":   1.5,
		"nan":  math.NaN(),
		"inf":  math.Inf(1),
		"ninf": math.Inf(-1),
		"nested": []any{
			math.NaN(),
			map[string]any{"v": math.Inf(1)},
			"text",
		},
	}

	out := Sanitize(in)
	if _, err := json.Marshal(out); err != nil {
		t.Fatalf("expected sanitized tree to marshal, got %v", err)
	}

	m := out.(map[string]any)
	if m["nan"] != nil || m["inf"] != nil || m["ninf"] != nil {
		t.Fatalf("expected non-finite values to become nil, got %v", m)
	}
	if m["ok"] != 1.5 {
		t.Fatalf("expected finite value to pass through, got %v", m["ok"])
	}
	nested := m["nested"].([]any)
	if nested[0] != nil || nested[2] != "text" {
		t.Fatalf("unexpected nested values: %v", nested)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	in := map[string]any{
		"a": math.NaN(),
		"b": []float64{1, math.Inf(1), 3},
	}
	once := Sanitize(in)
	twice := Sanitize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected Sanitize to be idempotent")
	}
}

func TestSanitizeMatrix(t *testing.T) {
	in := [][]float64{{1, math.NaN()}, {math.Inf(-1), 4}}
	out := Sanitize(in).([]any)

	row0 := out[0].([]any)
	if row0[0] != 1.0 || row0[1] != nil {
		t.Fatalf("unexpected first row: %v", row0)
	}
	row1 := out[1].([]any)
	if row1[0] != nil || row1[1] != 4.0 {
		t.Fatalf("unexpected second row: %v", row1)
	}
}

func TestSanitizeChartSpec(t *testing.T) {
	spec := ChartSpec{
		Kind:  "scatter",
		Title: "t",
		Data:  map[string]any{"x": []float64{1, math.NaN()}},
	}
	out := Sanitize(spec).(map[string]any)
	if out["chart_type"] != "scatter" {
		t.Fatalf("expected chart_type key, got %v", out)
	}
	xs := out["data"].(map[string]any)["x"].([]any)
	if xs[1] != nil {
		t.Fatalf("expected NaN inside chart data to become nil, got %v", xs[1])
	}
}

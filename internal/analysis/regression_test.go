package analysis

import (
	"strings"
	"testing"

	"datalens-backend/internal/tabular"
)

func TestRegressionPerfectLinearFit(t *testing.T) {
	xs := seq(30, func(i int) float64 { return float64(i) })
	ys := seq(30, func(i int) float64 { return 2*float64(i) + 1 })

	res := Regression(tableOf(numCol("x", xs...), numCol("y", ys...)), "y", nil)
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Failure)
	}

	metrics := res.Payload["metrics"].(map[string]any)
	testR2 := metrics["test"].(map[string]any)["r2"].(float64)
	if testR2 < 0.99 {
		t.Fatalf("expected test R2 >= 0.99, got %v", testR2)
	}

	coefs := res.Payload["coefficients"].(map[string]any)
	if coef := coefs["x"].(float64); coef < 1.99 || coef > 2.01 {
		t.Fatalf("expected coefficient near 2, got %v", coef)
	}
	if intercept := res.Payload["intercept"].(float64); intercept < 0.99 || intercept > 1.01 {
		t.Fatalf("expected intercept near 1, got %v", intercept)
	}

	equation := res.Payload["equation"].(string)
	if !strings.HasPrefix(equation, "y = ") || !strings.Contains(equation, "*x") {
		t.Fatalf("unexpected equation: %q", equation)
	}
	interpretation := res.Payload["interpretation"].(string)
	if !strings.Contains(interpretation, "excellent") {
		t.Fatalf("expected excellent fit interpretation, got %q", interpretation)
	}

	if charts := res.Payload["charts"].([]any); len(charts) != 4 {
		t.Fatalf("expected 4 charts, got %d", len(charts))
	}
}

func TestRegressionMissingTarget(t *testing.T) {
	res := Regression(tableOf(numCol("x", 1, 2, 3)), "y", nil)
	if res.OK() || res.Failure.Kind != FailValidation {
		t.Fatalf("expected validation failure, got %+v", res)
	}
}

func TestRegressionNonNumericTarget(t *testing.T) {
	res := Regression(tableOf(numCol("x", 1, 2, 3), catCol("y", "a", "b", "c")), "y", nil)
	if res.OK() || res.Failure.Kind != FailValidation {
		t.Fatalf("expected validation failure, got %+v", res)
	}
}

func TestRegressionNoFeatures(t *testing.T) {
	res := Regression(tableOf(numCol("y", 1, 2, 3, 4, 5)), "y", nil)
	if res.OK() || res.Failure.Kind != FailValidation {
		t.Fatalf("expected validation failure, got %+v", res)
	}
}

func TestRegressionTooFewRows(t *testing.T) {
	res := Regression(tableOf(numCol("x", 1, 2, 3), numCol("y", 2, 4, 6)), "y", nil)
	if res.OK() || res.Failure.Kind != FailData {
		t.Fatalf("expected data sufficiency failure, got %+v", res)
	}
}

func TestRegressionImputesMissingFeature(t *testing.T) {
	xs := seq(30, func(i int) float64 { return float64(i) })
	ys := seq(30, func(i int) float64 { return 3 * float64(i) })
	table := tableOf(numCol("x", xs...), numCol("y", ys...))

	// Knock out one feature cell; the row survives via median imputation.
	table.Columns[0].Cells[4] = tabular.MissingCell()

	res := Regression(table, "y", nil)
	if !res.OK() {
		t.Fatalf("expected success with imputed feature, got %v", res.Failure)
	}
	if res.Payload["n_train"].(int)+res.Payload["n_test"].(int) != 30 {
		t.Fatalf("expected all 30 rows usable, got %v train / %v test",
			res.Payload["n_train"], res.Payload["n_test"])
	}
}

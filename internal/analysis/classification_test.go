package analysis

import (
	"strings"
	"testing"
)

// labelFor makes the target a constant function of the feature so a fitted
// model should classify held-out rows perfectly.
func labelFor(v float64) string {
	if v < 10 {
		return "low"
	}
	return "high"
}

func constantFunctionTable(n int) (features []float64, labels []string) {
	features = seq(n, func(i int) float64 { return float64(i) })
	labels = make([]string, n)
	for i, v := range features {
		labels[i] = labelFor(v)
	}
	return features, labels
}

func TestClassificationConstantFunction(t *testing.T) {
	features, labels := constantFunctionTable(40)
	res := Classification(tableOf(numCol("x", features...), catCol("y", labels...)), "y", nil)
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Failure)
	}

	accuracy := res.Payload["accuracy"].(float64)
	if accuracy != 1.0 {
		t.Fatalf("expected perfect accuracy on separable data, got %v", accuracy)
	}

	interpretation := res.Payload["interpretation"].(string)
	if !strings.Contains(interpretation, "100.0%") {
		t.Fatalf("expected accuracy percentage in interpretation, got %q", interpretation)
	}

	report := res.Payload["classification_report"].(map[string]any)
	for _, key := range []string{"low", "high", "macro avg", "weighted avg"} {
		if _, ok := report[key]; !ok {
			t.Fatalf("expected %q entry in classification report", key)
		}
	}
}

func TestClassificationAccuracyRange(t *testing.T) {
	// Noisy labels: accuracy can be anything, but must stay in [0, 1].
	features := seq(24, func(i int) float64 { return float64(i % 7) })
	labels := make([]string, 24)
	for i := range labels {
		labels[i] = []string{"a", "b", "c"}[(i*5)%3]
	}

	res := Classification(tableOf(numCol("x", features...), catCol("y", labels...)), "y", nil)
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Failure)
	}
	accuracy := res.Payload["accuracy"].(float64)
	if accuracy < 0 || accuracy > 1 {
		t.Fatalf("expected accuracy in [0,1], got %v", accuracy)
	}
}

func TestClassificationMissingTarget(t *testing.T) {
	res := Classification(tableOf(numCol("x", 1, 2, 3)), "y", nil)
	if res.OK() || res.Failure.Kind != FailValidation {
		t.Fatalf("expected validation failure, got %+v", res)
	}
}

func TestClassificationTooFewRows(t *testing.T) {
	res := Classification(tableOf(
		numCol("x", 1, 2, 3),
		catCol("y", "a", "b", "a"),
	), "y", nil)
	if res.OK() || res.Failure.Kind != FailData {
		t.Fatalf("expected data sufficiency failure, got %+v", res)
	}
}

func TestClassificationSingleClass(t *testing.T) {
	features := seq(12, func(i int) float64 { return float64(i) })
	labels := make([]string, 12)
	for i := range labels {
		labels[i] = "same"
	}
	res := Classification(tableOf(numCol("x", features...), catCol("y", labels...)), "y", nil)
	if res.OK() || res.Failure.Kind != FailData {
		t.Fatalf("expected data sufficiency failure, got %+v", res)
	}
}

func TestClassificationCategoricalFeature(t *testing.T) {
	features, labels := constantFunctionTable(30)
	extra := make([]string, 30)
	for i := range extra {
		extra[i] = []string{"red", "green", ""}[i%3]
	}

	res := Classification(tableOf(
		numCol("x", features...),
		catCol("color", extra...),
		catCol("y", labels...),
	), "y", nil)
	if !res.OK() {
		t.Fatalf("expected success with encoded categorical feature, got %v", res.Failure)
	}
	importances := res.Payload["feature_importances"].(map[string]any)
	if _, ok := importances["color"]; !ok {
		t.Fatalf("expected importance entry for color, got %v", importances)
	}
}

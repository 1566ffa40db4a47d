package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"datalens-backend/internal/ml"
	"datalens-backend/internal/tabular"
)

const KindClassification = "classification"

// MinClassificationRows is the smallest usable row count a classifier fit
// accepts.
const MinClassificationRows = 10

// missingCategory stands in for a categorical cell when no modal value exists.
const missingCategory = "missing"

// Classification fits a random-forest classifier of the target column on the
// given features (all other columns by default). Categorical features and the
// target are label-encoded per request; encodings are not persisted.
func Classification(t tabular.Table, target string, features []string) Result {
	targetCol, ok := t.Column(target)
	if !ok {
		return fail(KindClassification, FailValidation, "target column %q not found", target)
	}

	var featureCols []tabular.Column
	if len(features) == 0 {
		for _, col := range t.Columns {
			if col.Name != target {
				featureCols = append(featureCols, col)
			}
		}
	} else {
		for _, name := range features {
			col, ok := t.Column(name)
			if !ok {
				return fail(KindClassification, FailValidation, "feature column %q not found", name)
			}
			if name == target {
				return fail(KindClassification, FailValidation, "target column %q cannot be a feature", name)
			}
			featureCols = append(featureCols, col)
		}
	}
	if len(featureCols) == 0 {
		return fail(KindClassification, FailValidation, "no feature columns available")
	}

	// Rows without a target observation cannot be labeled; drop them up front.
	var keep []int
	for i, cell := range targetCol.Cells {
		if !cell.IsMissing() {
			keep = append(keep, i)
		}
	}
	if len(keep) < MinClassificationRows {
		return fail(KindClassification, FailData, "need at least %d usable rows, have %d", MinClassificationRows, len(keep))
	}

	featureNames := make([]string, len(featureCols))
	columns := make([][]float64, len(featureCols))
	for j, col := range featureCols {
		featureNames[j] = col.Name
		columns[j] = encodeFeature(col, keep)
	}

	x := make([][]float64, len(keep))
	for i := range keep {
		row := make([]float64, len(columns))
		for j, col := range columns {
			row[j] = col[i]
		}
		x[i] = row
	}

	var encoder ml.LabelEncoder
	y := encoder.FitTransform(targetLabels(targetCol, keep))
	nClasses := len(encoder.Classes)
	if nClasses < 2 {
		return fail(KindClassification, FailData, "target column %q has fewer than 2 distinct classes", target)
	}

	xTrain, xTest, yTrain, yTest := ml.StratifiedSplit(x, y, 0.2, ml.Seed)

	forest := ml.NewRandomForest()
	if err := forest.Fit(xTrain, yTrain, nClasses); err != nil {
		return fail(KindClassification, FailAlgorithm, "model fit failed: %v", err)
	}
	pred := forest.Predict(xTest)
	accuracy := ml.Accuracy(yTest, pred)

	importances := make(map[string]any, len(featureNames))
	rawImportances := forest.Importances()
	for j, name := range featureNames {
		importances[name] = round(rawImportances[j], 4)
	}

	perClass, macro, weighted := ml.ClassificationReport(yTest, pred, nClasses)
	report := make(map[string]any, nClasses+2)
	for c, m := range perClass {
		report[encoder.Label(c)] = classMetricsPayload(m)
	}
	report["macro avg"] = classMetricsPayload(macro)
	report["weighted avg"] = classMetricsPayload(weighted)

	payload := map[string]any{
		"model_type":          "random_forest",
		"target":              target,
		"features":            featureNames,
		"classes":             encoder.Classes,
		"n_train":             len(xTrain),
		"n_test":              len(xTest),
		"accuracy":            round(accuracy, 4),
		"feature_importances": importances,
		"classification_report": report,
		"interpretation": fmt.Sprintf("The model predicts %q with %.1f%% accuracy on held-out data.",
			target, accuracy*100),
		"charts": classificationCharts(yTest, pred, nClasses, encoder, featureNames, rawImportances),
	}
	return success(KindClassification, payload)
}

// encodeFeature renders one feature column as floats over the kept rows.
// Numeric columns are median-imputed; everything else is mode-imputed and
// label-encoded.
func encodeFeature(col tabular.Column, keep []int) []float64 {
	if col.Kind == tabular.KindNumeric {
		vals := make([]float64, len(keep))
		for i, idx := range keep {
			cell := col.Cells[idx]
			if cell.Kind == tabular.CellNumber {
				vals[i] = cell.Num
			} else {
				vals[i] = math.NaN()
			}
		}
		return imputeMedian(vals)
	}

	texts := make([]string, len(keep))
	counts := make(map[string]int)
	for i, idx := range keep {
		cell := col.Cells[idx]
		if cell.Kind == tabular.CellText {
			texts[i] = cell.Text
			counts[cell.Text]++
		}
	}
	mode := missingCategory
	best := 0
	for v, n := range counts {
		if n > best || (n == best && v < mode) {
			mode, best = v, n
		}
	}
	for i, idx := range keep {
		if col.Cells[idx].Kind != tabular.CellText {
			texts[i] = mode
		}
	}

	var enc ml.LabelEncoder
	codes := enc.FitTransform(texts)
	out := make([]float64, len(codes))
	for i, c := range codes {
		out[i] = float64(c)
	}
	return out
}

func targetLabels(col tabular.Column, keep []int) []string {
	out := make([]string, len(keep))
	for i, idx := range keep {
		cell := col.Cells[idx]
		if cell.Kind == tabular.CellNumber {
			out[i] = strconv.FormatFloat(cell.Num, 'g', -1, 64)
		} else {
			out[i] = cell.Text
		}
	}
	return out
}

func classMetricsPayload(m ml.ClassMetrics) map[string]any {
	return map[string]any{
		"precision": round(m.Precision, 4),
		"recall":    round(m.Recall, 4),
		"f1-score":  round(m.F1, 4),
		"support":   m.Support,
	}
}

func classificationCharts(yTest, pred []int, nClasses int, encoder ml.LabelEncoder, features []string, importances []float64) []ChartSpec {
	var charts []ChartSpec

	cm := ml.ConfusionMatrix(yTest, pred, nClasses)
	matrix := make([][]float64, nClasses)
	classNames := make([]string, nClasses)
	for c := 0; c < nClasses; c++ {
		classNames[c] = encoder.Label(c)
		matrix[c] = make([]float64, nClasses)
		for j, v := range cm[c] {
			matrix[c][j] = float64(v)
		}
	}
	charts = append(charts, ChartSpec{
		Kind:   "heatmap",
		Title:  "Confusion Matrix",
		XLabel: "Predicted",
		YLabel: "Actual",
		Data:   map[string]any{"classes": classNames, "matrix": matrix},
	})

	order := make([]int, len(features))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return importances[order[a]] > importances[order[b]] })
	if len(order) > 10 {
		order = order[:10]
	}
	labels := make([]string, len(order))
	values := make([]float64, len(order))
	for i, idx := range order {
		labels[i] = features[idx]
		values[i] = importances[idx]
	}
	charts = append(charts, ChartSpec{
		Kind:   "bar",
		Title:  "Feature Importances",
		XLabel: "Feature",
		YLabel: "Importance",
		Data:   map[string]any{"labels": labels, "values": values},
	})

	dist := make([]float64, nClasses)
	for _, label := range yTest {
		dist[label]++
	}
	charts = append(charts, ChartSpec{
		Kind:   "bar",
		Title:  "Test Set Class Distribution",
		XLabel: "Class",
		YLabel: "Count",
		Data:   map[string]any{"labels": classNames, "values": dist},
	})
	return charts
}

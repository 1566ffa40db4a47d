package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"datalens-backend/internal/ml"
	"datalens-backend/internal/tabular"
)

const KindRegression = "regression"

// MinRegressionRows is the smallest usable row count a regression fit accepts.
const MinRegressionRows = 5

// Regression fits an ordinary least-squares model of the target column on the
// given features. With no features supplied, every numeric column except the
// target is used.
func Regression(t tabular.Table, target string, features []string) Result {
	targetCol, ok := t.Column(target)
	if !ok {
		return fail(KindRegression, FailValidation, "target column %q not found", target)
	}
	if targetCol.Kind != tabular.KindNumeric {
		return fail(KindRegression, FailValidation, "target column %q is not numeric", target)
	}

	var featureCols []tabular.Column
	if len(features) == 0 {
		for _, col := range t.NumericColumns() {
			if col.Name != target {
				featureCols = append(featureCols, col)
			}
		}
		if len(featureCols) == 0 {
			return fail(KindRegression, FailValidation, "no numeric feature columns available")
		}
	} else {
		for _, name := range features {
			col, ok := t.Column(name)
			if !ok {
				return fail(KindRegression, FailValidation, "feature column %q not found", name)
			}
			if name == target {
				return fail(KindRegression, FailValidation, "target column %q cannot be a feature", name)
			}
			featureCols = append(featureCols, tabular.CoerceNumeric(col))
		}
	}

	featureNames := make([]string, len(featureCols))
	imputed := make([][]float64, len(featureCols))
	for j, col := range featureCols {
		featureNames[j] = col.Name
		imputed[j] = imputeMedian(col.Floats())
	}
	y := imputeMedian(targetCol.Floats())

	x, yy := dropNonFiniteRows(imputed, y)
	n := len(x)
	if n < MinRegressionRows {
		return fail(KindRegression, FailData, "need at least %d usable rows, have %d", MinRegressionRows, n)
	}

	testFrac := 0.2
	if n < 20 {
		testFrac = 0.3
	}
	xTrain, xTest, yTrain, yTest := ml.TrainTestSplit(x, yy, testFrac, ml.Seed)

	var model ml.LinearRegression
	if err := model.Fit(xTrain, yTrain); err != nil {
		return fail(KindRegression, FailAlgorithm, "model fit failed: %v", err)
	}
	trainPred := model.Predict(xTrain)
	testPred := model.Predict(xTest)

	coefficients := make(map[string]any, len(featureNames))
	for j, name := range featureNames {
		coefficients[name] = round(model.Coefficients[j], 4)
	}

	testR2 := ml.R2(yTest, testPred)
	payload := map[string]any{
		"model_type":     "linear_regression",
		"target":         target,
		"features":       featureNames,
		"n_train":        len(xTrain),
		"n_test":         len(xTest),
		"coefficients":   coefficients,
		"intercept":      round(model.Intercept, 4),
		"equation":       equation(model, featureNames),
		"interpretation": regressionInterpretation(testR2, model.Coefficients, featureNames),
		"metrics": map[string]any{
			"train": regressionMetrics(yTrain, trainPred),
			"test":  regressionMetrics(yTest, testPred),
		},
		"charts": regressionCharts(model, featureNames, yTrain, trainPred, yTest, testPred),
	}
	return success(KindRegression, payload)
}

// imputeMedian replaces NaN entries with the series median, falling back to 0
// for an all-missing series.
func imputeMedian(xs []float64) []float64 {
	m := median(xs, 0)
	out := make([]float64, len(xs))
	for i, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = m
		} else {
			out[i] = v
		}
	}
	return out
}

// dropNonFiniteRows transposes column-major features into rows, dropping any
// row that still carries a non-finite value.
func dropNonFiniteRows(cols [][]float64, y []float64) ([][]float64, []float64) {
	if len(cols) == 0 {
		return nil, nil
	}
	n := len(cols[0])
	var x [][]float64
	var yOut []float64
rows:
	for i := 0; i < n; i++ {
		row := make([]float64, len(cols))
		for j, col := range cols {
			v := col[i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue rows
			}
			row[j] = v
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			continue
		}
		x = append(x, row)
		yOut = append(yOut, y[i])
	}
	return x, yOut
}

func regressionMetrics(yTrue, yPred []float64) map[string]any {
	return map[string]any{
		"r2":   round(ml.R2(yTrue, yPred), 4),
		"mse":  round(ml.MSE(yTrue, yPred), 4),
		"rmse": round(ml.RMSE(yTrue, yPred), 4),
		"mae":  round(ml.MAE(yTrue, yPred), 4),
	}
}

func equation(model ml.LinearRegression, features []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "y = %.4f", model.Intercept)
	for j, name := range features {
		coef := model.Coefficients[j]
		sign := "+"
		if coef < 0 {
			sign = "-"
		}
		fmt.Fprintf(&b, " %s %.4f*%s", sign, math.Abs(coef), name)
	}
	return b.String()
}

func regressionInterpretation(testR2 float64, coefs []float64, features []string) string {
	tier := "poor"
	switch {
	case testR2 >= 0.8:
		tier = "excellent"
	case testR2 >= 0.6:
		tier = "good"
	case testR2 >= 0.4:
		tier = "fair"
	}

	order := make([]int, len(features))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return math.Abs(coefs[order[a]]) > math.Abs(coefs[order[b]])
	})
	if len(order) > 3 {
		order = order[:3]
	}
	top := make([]string, len(order))
	for i, idx := range order {
		top[i] = features[idx]
	}
	return fmt.Sprintf("Model fit on held-out data is %s (R² = %.4f). Most influential features: %s.",
		tier, testR2, strings.Join(top, ", "))
}

func regressionCharts(model ml.LinearRegression, features []string, yTrain, trainPred, yTest, testPred []float64) []ChartSpec {
	charts := make([]ChartSpec, 0, 4)

	lo, hi := minMax(append(append([]float64(nil), yTest...), testPred...))
	charts = append(charts, ChartSpec{
		Kind:   "scatter",
		Title:  "Actual vs Predicted",
		XLabel: "Actual",
		YLabel: "Predicted",
		Data: map[string]any{
			"x":              yTest,
			"y":              testPred,
			"reference_line": map[string]any{"x": []float64{lo, hi}, "y": []float64{lo, hi}},
		},
	})

	order := make([]int, len(features))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return math.Abs(model.Coefficients[order[a]]) > math.Abs(model.Coefficients[order[b]])
	})
	labels := make([]string, len(order))
	values := make([]float64, len(order))
	for i, idx := range order {
		labels[i] = features[idx]
		values[i] = model.Coefficients[idx]
	}
	charts = append(charts, ChartSpec{
		Kind:   "bar",
		Title:  "Feature Coefficients",
		XLabel: "Feature",
		YLabel: "Coefficient",
		Data:   map[string]any{"labels": labels, "values": values},
	})

	residuals := make([]float64, len(yTest))
	for i := range yTest {
		residuals[i] = yTest[i] - testPred[i]
	}
	charts = append(charts, ChartSpec{
		Kind:   "scatter",
		Title:  "Residuals",
		XLabel: "Predicted",
		YLabel: "Residual",
		Data: map[string]any{
			"x":         testPred,
			"y":         residuals,
			"zero_line": true,
		},
	})

	charts = append(charts, ChartSpec{
		Kind:   "bar",
		Title:  "Train vs Test Metrics",
		XLabel: "Metric",
		YLabel: "Value",
		Data: map[string]any{
			"labels": []string{"r2", "mse", "rmse", "mae"},
			"train":  []float64{ml.R2(yTrain, trainPred), ml.MSE(yTrain, trainPred), ml.RMSE(yTrain, trainPred), ml.MAE(yTrain, trainPred)},
			"test":   []float64{ml.R2(yTest, testPred), ml.MSE(yTest, testPred), ml.RMSE(yTest, testPred), ml.MAE(yTest, testPred)},
		},
	})
	return charts
}

func minMax(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	lo, hi := xs[0], xs[0]
	for _, v := range xs {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

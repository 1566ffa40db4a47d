package ml

import "math"

// MSE is the mean squared error.
func MSE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / float64(len(yTrue))
}

// RMSE is the root mean squared error.
func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

// MAE is the mean absolute error.
func MAE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	s := 0.0
	for i := range yTrue {
		s += math.Abs(yPred[i] - yTrue[i])
	}
	return s / float64(len(yTrue))
}

// R2 is the coefficient of determination. A constant target scores 1 when
// predictions are exact and 0 otherwise.
func R2(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range yTrue {
		mean += v
	}
	mean /= float64(len(yTrue))

	ssTot, ssRes := 0.0, 0.0
	for i := range yTrue {
		d := yTrue[i] - mean
		ssTot += d * d
		r := yTrue[i] - yPred[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		if ssRes < 1e-12 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// Accuracy is the fraction of matching labels.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ConfusionMatrix returns counts[actual][predicted] over nClasses classes.
func ConfusionMatrix(yTrue, yPred []int, nClasses int) [][]int {
	m := make([][]int, nClasses)
	for i := range m {
		m[i] = make([]int, nClasses)
	}
	for i := range yTrue {
		m[yTrue[i]][yPred[i]]++
	}
	return m
}

// ClassMetrics holds per-class precision/recall/F1 and support.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1-score"`
	Support   int     `json:"support"`
}

// ClassificationReport computes per-class metrics plus macro and weighted
// averages, indexed by class code.
func ClassificationReport(yTrue, yPred []int, nClasses int) (perClass []ClassMetrics, macro, weighted ClassMetrics) {
	cm := ConfusionMatrix(yTrue, yPred, nClasses)
	perClass = make([]ClassMetrics, nClasses)
	total := len(yTrue)

	for c := 0; c < nClasses; c++ {
		tp := cm[c][c]
		fp, fn, support := 0, 0, 0
		for other := 0; other < nClasses; other++ {
			if other != c {
				fp += cm[other][c]
				fn += cm[c][other]
			}
			support += cm[c][other]
		}

		var prec, rec, f1 float64
		if tp+fp > 0 {
			prec = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			rec = float64(tp) / float64(tp+fn)
		}
		if prec+rec > 0 {
			f1 = 2 * prec * rec / (prec + rec)
		}
		perClass[c] = ClassMetrics{Precision: prec, Recall: rec, F1: f1, Support: support}

		macro.Precision += prec
		macro.Recall += rec
		macro.F1 += f1
		if total > 0 {
			w := float64(support) / float64(total)
			weighted.Precision += prec * w
			weighted.Recall += rec * w
			weighted.F1 += f1 * w
		}
	}

	if nClasses > 0 {
		macro.Precision /= float64(nClasses)
		macro.Recall /= float64(nClasses)
		macro.F1 /= float64(nClasses)
	}
	macro.Support = total
	weighted.Support = total
	return perClass, macro, weighted
}

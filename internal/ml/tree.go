package ml

import (
	"math"
	"math/rand"
	"sort"
)

// DecisionTree is a CART-style classifier using gini impurity and numeric
// threshold splits. Labels are class indices in [0, nClasses).
type DecisionTree struct {
	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int
	MaxFeatures     int // 0 means use all features
	Seed            int64

	root        *treeNode
	nFeatures   int
	importances []float64
}

type treeNode struct {
	leaf      bool
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	pred      int
}

// Fit builds the tree over the rows selected by idx.
func (t *DecisionTree) Fit(x [][]float64, y []int, idx []int, nClasses int) {
	if t.MinSamplesSplit < 2 {
		t.MinSamplesSplit = 2
	}
	t.nFeatures = len(x[0])
	t.importances = make([]float64, t.nFeatures)
	rng := rand.New(rand.NewSource(t.Seed))
	t.root = t.build(x, y, idx, nClasses, 0, rng, len(idx))
}

// Predict returns the predicted class index for each row.
func (t *DecisionTree) Predict(x [][]float64) []int {
	out := make([]int, len(x))
	for i, row := range x {
		node := t.root
		for !node.leaf {
			if row[node.feature] <= node.threshold {
				node = node.left
			} else {
				node = node.right
			}
		}
		out[i] = node.pred
	}
	return out
}

// Importances returns the accumulated impurity decrease per feature,
// normalized to sum to one (all zeros when no split was made).
func (t *DecisionTree) Importances() []float64 {
	out := make([]float64, t.nFeatures)
	total := 0.0
	for _, v := range t.importances {
		total += v
	}
	if total == 0 {
		return out
	}
	for i, v := range t.importances {
		out[i] = v / total
	}
	return out
}

func (t *DecisionTree) build(x [][]float64, y []int, idx []int, nClasses, depth int, rng *rand.Rand, total int) *treeNode {
	counts := classCounts(y, idx, nClasses)
	majority := argmax(counts)

	if len(idx) < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) || pure(counts) {
		return &treeNode{leaf: true, pred: majority}
	}

	feature, threshold, gain := t.bestSplit(x, y, idx, nClasses, rng)
	if feature < 0 {
		return &treeNode{leaf: true, pred: majority}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, pred: majority}
	}

	t.importances[feature] += gain * float64(len(idx)) / float64(total)

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.build(x, y, left, nClasses, depth+1, rng, total),
		right:     t.build(x, y, right, nClasses, depth+1, rng, total),
	}
}

// bestSplit scans candidate features for the threshold with the highest gini
// gain. Returns feature -1 when no split improves impurity.
func (t *DecisionTree) bestSplit(x [][]float64, y []int, idx []int, nClasses int, rng *rand.Rand) (int, float64, float64) {
	parent := gini(classCounts(y, idx, nClasses), len(idx))

	features := t.candidateFeatures(rng)
	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0

	vals := make([]float64, 0, len(idx))
	for _, f := range features {
		vals = vals[:0]
		for _, i := range idx {
			vals = append(vals, x[i][f])
		}
		sort.Float64s(vals)

		for vi := 1; vi < len(vals); vi++ {
			if vals[vi] == vals[vi-1] {
				continue
			}
			threshold := (vals[vi] + vals[vi-1]) / 2

			leftCounts := make([]int, nClasses)
			rightCounts := make([]int, nClasses)
			nLeft, nRight := 0, 0
			for _, i := range idx {
				if x[i][f] <= threshold {
					leftCounts[y[i]]++
					nLeft++
				} else {
					rightCounts[y[i]]++
					nRight++
				}
			}
			if nLeft == 0 || nRight == 0 {
				continue
			}

			n := float64(len(idx))
			weighted := float64(nLeft)/n*gini(leftCounts, nLeft) + float64(nRight)/n*gini(rightCounts, nRight)
			if gain := parent - weighted; gain > bestGain {
				bestFeature, bestThreshold, bestGain = f, threshold, gain
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}

func (t *DecisionTree) candidateFeatures(rng *rand.Rand) []int {
	k := t.MaxFeatures
	if k <= 0 || k >= t.nFeatures {
		all := make([]int, t.nFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return rng.Perm(t.nFeatures)[:k]
}

func classCounts(y []int, idx []int, nClasses int) []int {
	counts := make([]int, nClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		g -= p * p
	}
	return g
}

func pure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func argmax(counts []int) int {
	best, bestCount := 0, math.MinInt
	for i, c := range counts {
		if c > bestCount {
			best, bestCount = i, c
		}
	}
	return best
}

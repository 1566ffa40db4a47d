package ml

import (
	"errors"
	"math"
	"math/rand"
	"sync"
)

// RandomForest is a bagged ensemble of CART trees with majority voting.
// Each tree gets its own deterministic seed derived from Seed, so a fit over
// the same data always yields the same forest.
type RandomForest struct {
	NEstimators int
	MaxDepth    int
	MaxFeatures int // 0 means sqrt(p)
	Seed        int64

	trees    []*DecisionTree
	nClasses int
}

// NewRandomForest returns a forest with the defaults used by the
// classification pipeline: 100 trees, unlimited depth, sqrt(p) features.
func NewRandomForest() *RandomForest {
	return &RandomForest{NEstimators: 100, Seed: Seed}
}

// Fit trains the ensemble. y holds class indices in [0, nClasses).
func (rf *RandomForest) Fit(x [][]float64, y []int, nClasses int) error {
	n := len(x)
	if n == 0 {
		return errors.New("forest: empty training data")
	}
	if len(y) != n {
		return errors.New("forest: X and y length mismatch")
	}
	if nClasses < 2 {
		return errors.New("forest: need at least 2 classes")
	}
	rf.nClasses = nClasses

	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(len(x[0]))))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	rf.trees = make([]*DecisionTree, rf.NEstimators)
	var wg sync.WaitGroup
	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seed := rf.Seed + int64(i)
			rng := rand.New(rand.NewSource(seed))

			sample := make([]int, n)
			for j := range sample {
				sample[j] = rng.Intn(n)
			}

			tree := &DecisionTree{
				MaxDepth:    rf.MaxDepth,
				MaxFeatures: maxFeatures,
				Seed:        seed,
			}
			tree.Fit(x, y, sample, nClasses)
			rf.trees[i] = tree
		}(i)
	}
	wg.Wait()
	return nil
}

// Predict returns the majority-vote class index per row. Vote ties break
// toward the lower class index.
func (rf *RandomForest) Predict(x [][]float64) []int {
	votes := make([][]int, len(x))
	for i := range votes {
		votes[i] = make([]int, rf.nClasses)
	}
	for _, tree := range rf.trees {
		for i, pred := range tree.Predict(x) {
			votes[i][pred]++
		}
	}

	out := make([]int, len(x))
	for i, v := range votes {
		out[i] = argmax(v)
	}
	return out
}

// Importances averages the per-tree impurity-decrease importances.
func (rf *RandomForest) Importances() []float64 {
	if len(rf.trees) == 0 {
		return nil
	}
	out := make([]float64, rf.trees[0].nFeatures)
	for _, tree := range rf.trees {
		for j, v := range tree.Importances() {
			out[j] += v
		}
	}
	for j := range out {
		out[j] /= float64(len(rf.trees))
	}
	return out
}

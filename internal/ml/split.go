package ml

import "math/rand"

// Seed is the fixed seed used by every randomized routine in this package so
// repeated runs over the same data produce identical results.
const Seed int64 = 42

// TrainTestSplit shuffles rows with the given seed and splits them into
// train/test partitions. The test partition gets round(n*testFrac) rows,
// clamped so both partitions are non-empty whenever n >= 2.
func TrainTestSplit(x [][]float64, y []float64, testFrac float64, seed int64) (xTrain, xTest [][]float64, yTrain, yTest []float64) {
	n := len(x)
	if n == 0 {
		return nil, nil, nil, nil
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	nTest := int(float64(n)*testFrac + 0.5)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	for i, idx := range perm {
		if i < nTest {
			xTest = append(xTest, x[idx])
			yTest = append(yTest, y[idx])
		} else {
			xTrain = append(xTrain, x[idx])
			yTrain = append(yTrain, y[idx])
		}
	}
	return xTrain, xTest, yTrain, yTest
}

// StratifiedSplit splits rows into train/test partitions while preserving the
// class balance of y. Every class with at least two members contributes at
// least one row to each partition.
func StratifiedSplit(x [][]float64, y []int, testFrac float64, seed int64) (xTrain, xTest [][]float64, yTrain, yTest []int) {
	byClass := make(map[int][]int)
	var order []int
	for i, label := range y {
		if _, ok := byClass[label]; !ok {
			order = append(order, label)
		}
		byClass[label] = append(byClass[label], i)
	}

	rng := rand.New(rand.NewSource(seed))
	for _, label := range order {
		idxs := byClass[label]
		rng.Shuffle(len(idxs), func(i, j int) { idxs[i], idxs[j] = idxs[j], idxs[i] })

		nTest := int(float64(len(idxs))*testFrac + 0.5)
		if nTest < 1 && len(idxs) > 1 {
			nTest = 1
		}
		if nTest >= len(idxs) {
			nTest = len(idxs) - 1
		}
		if nTest < 0 {
			nTest = 0
		}

		for i, idx := range idxs {
			if i < nTest {
				xTest = append(xTest, x[idx])
				yTest = append(yTest, y[idx])
			} else {
				xTrain = append(xTrain, x[idx])
				yTrain = append(yTrain, y[idx])
			}
		}
	}
	return xTrain, xTest, yTrain, yTest
}

package ml

import (
	"errors"
	"math"
	"math/rand"
)

// KMeans partitions rows into K clusters. Fit runs NInit full restarts with
// k-means++ seeding and keeps the lowest-inertia solution.
type KMeans struct {
	K       int
	MaxIter int
	NInit   int
	Seed    int64

	Centroids [][]float64
	Labels    []int
	Inertia   float64
}

// NewKMeans returns a model with the defaults used across the analysis
// pipelines: 300 iterations, 10 restarts, fixed seed.
func NewKMeans(k int) *KMeans {
	return &KMeans{K: k, MaxIter: 300, NInit: 10, Seed: Seed}
}

// Fit clusters X, storing centroids, per-row labels and total inertia.
func (m *KMeans) Fit(x [][]float64) error {
	n := len(x)
	if n == 0 {
		return errors.New("kmeans: empty input")
	}
	if n < m.K {
		return errors.New("kmeans: fewer rows than clusters")
	}
	if m.MaxIter <= 0 {
		m.MaxIter = 300
	}
	restarts := m.NInit
	if restarts <= 0 {
		restarts = 1
	}

	best := math.Inf(1)
	for r := 0; r < restarts; r++ {
		rng := rand.New(rand.NewSource(m.Seed + int64(r)))
		centroids, labels, inertia := m.runOnce(x, rng)
		if inertia < best {
			best = inertia
			m.Centroids = centroids
			m.Labels = labels
			m.Inertia = inertia
		}
	}
	return nil
}

func (m *KMeans) runOnce(x [][]float64, rng *rand.Rand) ([][]float64, []int, float64) {
	n, p := len(x), len(x[0])
	centroids := m.seedCentroids(x, rng)
	labels := make([]int, n)

	for it := 0; it < m.MaxIter; it++ {
		changed := false
		for i, row := range x {
			best, bestDist := 0, math.Inf(1)
			for k, c := range centroids {
				if d := sqDist(row, c); d < bestDist {
					best, bestDist = k, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		sums := make([][]float64, m.K)
		counts := make([]int, m.K)
		for k := range sums {
			sums[k] = make([]float64, p)
		}
		for i, row := range x {
			k := labels[i]
			counts[k]++
			for j, v := range row {
				sums[k][j] += v
			}
		}
		for k := range centroids {
			if counts[k] == 0 {
				continue // empty cluster keeps its previous centroid
			}
			for j := range centroids[k] {
				centroids[k][j] = sums[k][j] / float64(counts[k])
			}
		}

		if !changed && it > 0 {
			break
		}
	}

	inertia := 0.0
	for i, row := range x {
		inertia += sqDist(row, centroids[labels[i]])
	}
	return centroids, labels, inertia
}

// seedCentroids implements k-means++ initialization.
func (m *KMeans) seedCentroids(x [][]float64, rng *rand.Rand) [][]float64 {
	n := len(x)
	centroids := make([][]float64, 0, m.K)
	centroids = append(centroids, append([]float64{}, x[rng.Intn(n)]...))

	for len(centroids) < m.K {
		dists := make([]float64, n)
		total := 0.0
		for i, row := range x {
			min := math.Inf(1)
			for _, c := range centroids {
				if d := sqDist(row, c); d < min {
					min = d
				}
			}
			dists[i] = min
			total += min
		}

		if total == 0 {
			// All remaining points coincide with a centroid; pick uniformly.
			centroids = append(centroids, append([]float64{}, x[rng.Intn(n)]...))
			continue
		}

		target := rng.Float64() * total
		acc := 0.0
		chosen := n - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, append([]float64{}, x[chosen]...))
	}
	return centroids
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

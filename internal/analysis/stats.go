package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// round rounds v to the given number of decimal places. Non-finite values
// pass through so the sanitizer can null them downstream.
func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// finite filters out NaN and infinite values.
func finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// median returns the median of the finite values in xs, or fallback when
// none exist.
func median(xs []float64, fallback float64) float64 {
	vals := finite(xs)
	if len(vals) == 0 {
		return fallback
	}
	sort.Float64s(vals)
	return stat.Quantile(0.5, stat.LinInterp, vals, nil)
}

// quantile returns the q-quantile of already finite values.
func quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return stat.Quantile(q, stat.LinInterp, sorted, nil)
}

// ranks assigns average ranks to xs, the usual prelude to a Spearman
// correlation over Pearson.
func ranks(xs []float64) []float64 {
	n := len(xs)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && xs[idx[j+1]] == xs[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}

// histogram bins the finite values of xs into the given number of
// equal-width bins and returns bin edges and counts.
func histogram(xs []float64, bins int) (edges []float64, counts []int) {
	vals := finite(xs)
	if len(vals) == 0 || bins < 1 {
		return nil, nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []float64{lo, hi}, []int{len(vals)}
	}

	edges = make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	counts = make([]int, bins)
	for _, v := range vals {
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}
	return edges, counts
}

// histogramBins is the default bin-count policy: sqrt of the sample size
// capped at 30.
func histogramBins(n int) int {
	b := int(math.Floor(math.Sqrt(float64(n))))
	if b > 30 {
		b = 30
	}
	if b < 1 {
		b = 1
	}
	return b
}

package ml

import "math"

// StandardScaler standardizes columns to zero mean and unit variance.
// Constant columns are left centered with a unit divisor so transforms never
// divide by zero.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// Fit computes per-column mean and population standard deviation.
func (s *StandardScaler) Fit(x [][]float64) {
	if len(x) == 0 {
		return
	}
	n, p := len(x), len(x[0])
	s.Mean = make([]float64, p)
	s.Std = make([]float64, p)

	for j := 0; j < p; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += x[i][j]
		}
		s.Mean[j] = sum / float64(n)

		variance := 0.0
		for i := 0; i < n; i++ {
			d := x[i][j] - s.Mean[j]
			variance += d * d
		}
		s.Std[j] = math.Sqrt(variance / float64(n))
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
}

// Transform returns standardized copies of the rows.
func (s *StandardScaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out
}

// FitTransform fits the scaler and transforms x in one call.
func (s *StandardScaler) FitTransform(x [][]float64) [][]float64 {
	s.Fit(x)
	return s.Transform(x)
}

// InverseTransform maps standardized rows back to the original feature space.
func (s *StandardScaler) InverseTransform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		orig := make([]float64, len(row))
		for j, v := range row {
			orig[j] = v*s.Std[j] + s.Mean[j]
		}
		out[i] = orig
	}
	return out
}

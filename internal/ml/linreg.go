package ml

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression is an ordinary least-squares model fit in closed form.
type LinearRegression struct {
	Coefficients []float64
	Intercept    float64
}

// Fit solves the least-squares problem for X (n rows, p features) against y
// using a QR decomposition of the design matrix with an intercept column.
func (m *LinearRegression) Fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 {
		return errors.New("linreg: empty training data")
	}
	if len(y) != n {
		return errors.New("linreg: X and y length mismatch")
	}
	p := len(x[0])
	if n < p+1 {
		return fmt.Errorf("linreg: need at least %d rows for %d features, have %d", p+1, p, n)
	}

	a := mat.NewDense(n, p+1, nil)
	for i, row := range x {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(a)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, b); err != nil {
		return fmt.Errorf("linreg: solve failed: %w", err)
	}

	m.Intercept = beta.AtVec(0)
	m.Coefficients = make([]float64, p)
	for j := 0; j < p; j++ {
		m.Coefficients[j] = beta.AtVec(j + 1)
	}
	return nil
}

// Predict returns fitted values for the given rows.
func (m *LinearRegression) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		sum := m.Intercept
		for j, v := range row {
			sum += m.Coefficients[j] * v
		}
		out[i] = sum
	}
	return out
}

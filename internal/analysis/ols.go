package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var errSingular = errors.New("design matrix is singular")

// olsFit solves y = X·beta by least squares and returns the coefficients with
// their standard errors.
func olsFit(X *mat.Dense, y []float64) (coeffs, stdErrors []float64, err error) {
	n, k := X.Dims()
	if n == 0 || n != len(y) {
		return nil, nil, errors.New("dimension mismatch in regression")
	}

	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(X)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yv); err != nil {
		return nil, nil, errSingular
	}

	coeffs = make([]float64, k)
	for j := 0; j < k; j++ {
		coeffs[j] = beta.AtVec(j)
	}

	sse := 0.0
	for i := 0; i < n; i++ {
		pred := 0.0
		for j := 0; j < k; j++ {
			pred += coeffs[j] * X.At(i, j)
		}
		r := y[i] - pred
		sse += r * r
	}
	if n <= k {
		return coeffs, nil, nil
	}

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return coeffs, nil, nil
	}

	s2 := sse / float64(n-k)
	stdErrors = make([]float64, k)
	for j := 0; j < k; j++ {
		stdErrors[j] = math.Sqrt(s2 * inv.At(j, j))
	}
	return coeffs, stdErrors, nil
}

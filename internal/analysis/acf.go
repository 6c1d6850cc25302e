package analysis

import (
	"fmt"
	"math"

	"TSLab/internal/domain/models"
)

// Correlogram holds ACF and PACF values for lags 0..maxLag plus the 95%
// confidence bound ±1.96/√n.
type Correlogram struct {
	Lags            []int     `json:"lags"`
	ACF             []float64 `json:"acf"`
	PACF            []float64 `json:"pacf"`
	ConfidenceBound float64   `json:"confidence_bound"`
}

// ACF computes the autocorrelation function for lags 0..maxLag.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 || n == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf
}

// PACF computes the partial autocorrelation function for lags 0..maxLag via
// the Durbin-Levinson recursion.
func PACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 1 {
		return nil
	}

	acf := ACF(values, maxLag)
	if acf == nil {
		return nil
	}

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1

	phi := make([][]float64, maxLag+1)
	for i := range phi {
		phi[i] = make([]float64, maxLag+1)
	}
	phi[1][1] = acf[1]
	pacf[1] = acf[1]

	for k := 2; k <= maxLag; k++ {
		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * acf[k-j]
			den -= phi[k-1][j] * acf[j]
		}
		if den == 0 {
			pacf[k] = 0
			continue
		}
		phi[k][k] = num / den
		pacf[k] = phi[k][k]
		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}
	}
	return pacf
}

// Autocorrelation computes ACF and PACF up to min(lags, n-1) with the shared
// 95% confidence bound.
func Autocorrelation(values []float64, lags int) (*Correlogram, error) {
	n := len(values)
	if n < 3 {
		return nil, fmt.Errorf("%w: autocorrelation needs at least 3 points, have %d", models.ErrInsufficientData, n)
	}
	if lags < 1 {
		lags = 20
	}
	if lags > n-1 {
		lags = n - 1
	}

	acf := ACF(values, lags)
	if acf == nil {
		return nil, fmt.Errorf("%w: series has zero variance", models.ErrDataFormat)
	}
	pacf := PACF(values, lags)
	if pacf == nil {
		pacf = make([]float64, lags+1)
		pacf[0] = 1
	}

	indices := make([]int, lags+1)
	for i := range indices {
		indices[i] = i
	}

	return &Correlogram{
		Lags:            indices,
		ACF:             acf,
		PACF:            pacf,
		ConfidenceBound: 1.96 / math.Sqrt(float64(n)),
	}, nil
}

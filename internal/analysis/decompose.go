package analysis

import (
	"fmt"
	"math"

	"TSLab/internal/domain/models"
)

// Decomposition splits a series into trend, seasonal, and residual
// components. Trend edges are back/forward filled and residual gaps are
// zeroed so every component matches the input length.
type Decomposition struct {
	Trend    []float64 `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
	Residual []float64 `json:"residual"`
	Period   int       `json:"period"`
	Model    string    `json:"model"`
}

// DefaultDecompositionPeriod is 12 for a series of at least 24 points,
// otherwise 4.
func DefaultDecompositionPeriod(length int) int {
	if length >= 24 {
		return 12
	}
	return 4
}

// Decompose performs classical moving-average decomposition. Model is
// "additive" (Y = T + S + R) or "multiplicative" (Y = T · S · R); anything
// else falls back to additive.
func Decompose(values []float64, period int, model string) (*Decomposition, error) {
	n := len(values)
	if period <= 0 {
		period = DefaultDecompositionPeriod(n)
	}
	if n < 2*period {
		return nil, fmt.Errorf("%w: decomposition with period %d needs at least %d points, have %d",
			models.ErrInsufficientData, period, 2*period, n)
	}
	if model != "additive" && model != "multiplicative" {
		model = "additive"
	}
	multiplicative := model == "multiplicative"
	if multiplicative {
		for _, v := range values {
			if v <= 0 {
				return nil, fmt.Errorf("%w: multiplicative decomposition requires strictly positive values", models.ErrDataFormat)
			}
		}
	}

	trend := centeredTrend(values, period)

	detrended := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(trend[i]):
			detrended[i] = math.NaN()
		case multiplicative:
			detrended[i] = values[i] / trend[i]
		default:
			detrended[i] = values[i] - trend[i]
		}
	}

	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		if !math.IsNaN(v) {
			pattern[i%period] += v
			counts[i%period]++
		}
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		} else if multiplicative {
			pattern[i] = 1
		}
	}

	// Center the pattern so the seasonal component carries no level.
	mean := 0.0
	for _, v := range pattern {
		mean += v
	}
	mean /= float64(period)
	for i := range pattern {
		if multiplicative {
			if mean != 0 {
				pattern[i] /= mean
			}
		} else {
			pattern[i] -= mean
		}
	}

	seasonal := make([]float64, n)
	for i := range seasonal {
		seasonal[i] = pattern[i%period]
	}

	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(trend[i]):
			residual[i] = 0
		case multiplicative:
			if trend[i] != 0 && seasonal[i] != 0 {
				residual[i] = values[i] / (trend[i] * seasonal[i])
			} else {
				residual[i] = 0
			}
		default:
			residual[i] = values[i] - trend[i] - seasonal[i]
		}
	}

	return &Decomposition{
		Trend:    fillEdges(trend),
		Seasonal: seasonal,
		Residual: residual,
		Period:   period,
		Model:    model,
	}, nil
}

// centeredTrend computes a centered moving average, using the 2×period
// half-weighted form when the period is even. Edges are NaN.
func centeredTrend(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	if period%2 == 0 {
		for i := half; i < n-half; i++ {
			sum := values[i-half]*0.5 + values[i+half]*0.5
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		}
	} else {
		for i := half; i < n-half; i++ {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		}
	}
	return trend
}

// fillEdges replaces leading NaNs with the first real value and trailing
// NaNs with the last.
func fillEdges(values []float64) []float64 {
	out := append([]float64(nil), values...)
	n := len(out)

	first := -1
	last := -1
	for i, v := range out {
		if !math.IsNaN(v) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return out
	}
	for i := 0; i < first; i++ {
		out[i] = out[first]
	}
	for i := last + 1; i < n; i++ {
		out[i] = out[last]
	}
	return out
}

package analysis

import (
	"fmt"
	"math"

	"TSLab/internal/domain/models"
)

// RollingStats holds trailing-window mean and standard deviation. The first
// window-1 entries are NaN.
type RollingStats struct {
	Mean []float64 `json:"rolling_mean"`
	Std  []float64 `json:"rolling_std"`
	Size int       `json:"window"`
}

// Rolling computes trailing mean and sample standard deviation over a window.
func Rolling(values []float64, window int) (*RollingStats, error) {
	n := len(values)
	if window < 2 {
		return nil, fmt.Errorf("%w: rolling window must be at least 2", models.ErrInvalidParameter)
	}
	if n < window {
		return nil, fmt.Errorf("%w: rolling stats with window %d need at least %d points, have %d",
			models.ErrInsufficientData, window, window, n)
	}

	mean := make([]float64, n)
	std := make([]float64, n)
	for i := 0; i < window-1; i++ {
		mean[i] = math.NaN()
		std[i] = math.NaN()
	}
	for i := window - 1; i < n; i++ {
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		m := sum / float64(window)

		ss := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - m
			ss += d * d
		}
		mean[i] = m
		std[i] = math.Sqrt(ss / float64(window-1))
	}

	return &RollingStats{Mean: mean, Std: std, Size: window}, nil
}

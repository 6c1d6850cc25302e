// Package forecast implements the forecasting model variants and the manager
// that orchestrates fit, forecast, accuracy metrics, comparison, and
// auto-selection.
package forecast

import (
	"math"

	"TSLab/internal/timeseries"
)

// Model is the contract every forecasting variant satisfies. Implementations
// are single-use: build one, fit it once, read results. They hold no shared
// state, so independent instances are safe to use concurrently.
type Model interface {
	// Fit estimates model parameters from the series.
	Fit(s *timeseries.Series) error

	// Forecast predicts the next `periods` values with confidence bounds.
	// Returns ErrState when called before a successful Fit.
	Forecast(periods int, confidence float64) (*Interval, error)

	// FittedValues returns the in-sample reconstruction aligned with the
	// input series. Returns ErrState before Fit.
	FittedValues() ([]float64, error)

	// Info returns variant-specific diagnostic metadata.
	Info() map[string]any
}

// Interval is a point forecast with confidence bounds, all the same length.
type Interval struct {
	Forecast []float64 `json:"forecast"`
	Lower    []float64 `json:"lower_bound"`
	Upper    []float64 `json:"upper_bound"`
}

// Result is the full outcome of a fit-and-forecast pipeline run.
type Result struct {
	ModelType     string               `json:"model_type"`
	FittedValues  []float64            `json:"fitted_values"`
	Forecast      []float64            `json:"forecast"`
	ForecastLower []float64            `json:"forecast_lower"`
	ForecastUpper []float64            `json:"forecast_upper"`
	ForecastDates []string             `json:"forecast_dates"`
	Metrics       *Accuracy            `json:"metrics"`
	ModelInfo     map[string]any       `json:"model_info"`
	Stationarity  *StationaritySidebar `json:"stationarity,omitempty"`
}

// StationaritySidebar echoes the differencing diagnostics run alongside a fit.
type StationaritySidebar struct {
	IsStationary      bool    `json:"is_stationary"`
	NeedsDifferencing bool    `json:"needs_differencing"`
	NumDifferences    int     `json:"num_differences"`
	ADFStatistic      float64 `json:"adf_statistic"`
	ADFPValue         float64 `json:"adf_p_value"`
}

// zScore maps a two-sided confidence level to the normal quantile used for
// interval construction. Falls back to 1.96 for out-of-range input.
func zScore(confidence float64) float64 {
	if confidence <= 0 || confidence >= 1 {
		return 1.96
	}
	return normalQuantile((1 + confidence) / 2)
}

// normalQuantile is the Abramowitz-Stegun rational approximation of the
// standard normal inverse CDF.
func normalQuantile(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	if p < 0.5 {
		return -normalQuantile(1 - p)
	}

	t := math.Sqrt(-2 * math.Log(1-p))
	c0, c1, c2 := 2.515517, 0.802853, 0.010328
	d1, d2, d3 := 1.432788, 0.189269, 0.001308
	return t - (c0+c1*t+c2*t*t)/(1+d1*t+d2*t*t+d3*t*t*t)
}

// residualStd computes the standard deviation of non-NaN residuals between a
// series and its fitted values. Holt-Winters builds its constant-sigma
// interval on this.
func residualStd(actual, fitted []float64) float64 {
	n := len(actual)
	if len(fitted) < n {
		n = len(fitted)
	}

	var residuals []float64
	for i := 0; i < n; i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(fitted[i]) {
			continue
		}
		residuals = append(residuals, actual[i]-fitted[i])
	}
	if len(residuals) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range residuals {
		mean += r
	}
	mean /= float64(len(residuals))

	ss := 0.0
	for _, r := range residuals {
		d := r - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(residuals)-1))
}

// fillGaps replaces NaN warm-up gaps with backward then forward fill so the
// aligned fitted sequence serializes cleanly.
func fillGaps(values []float64) []float64 {
	out := append([]float64(nil), values...)

	// backward fill
	next := math.NaN()
	for i := len(out) - 1; i >= 0; i-- {
		if math.IsNaN(out[i]) {
			out[i] = next
		} else {
			next = out[i]
		}
	}
	// forward fill any remaining leading gap
	prev := math.NaN()
	for i := range out {
		if math.IsNaN(out[i]) {
			out[i] = prev
		} else {
			prev = out[i]
		}
	}
	return out
}

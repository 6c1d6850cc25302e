package forecast

import (
	"fmt"
	"math"

	"TSLab/internal/domain/models"
	"TSLab/internal/timeseries"
)

// HoltWinters implements triple exponential smoothing with additive or
// multiplicative seasonality. Trend "none" degrades to simple/seasonal
// exponential smoothing.
type HoltWinters struct {
	Trend    string // "add", "mul", "none"
	Seasonal string // "add", "mul", "none"
	Period   int

	Alpha float64
	Beta  float64
	Gamma float64

	level    float64
	trend    float64
	seasons  []float64
	fitted   []float64
	sigma    float64
	data     *timeseries.Series
	isFit    bool
	seasonal bool
}

// NewHoltWinters creates a Holt-Winters model. Smoothing parameters default
// to alpha 0.3, beta 0.1, gamma 0.1 when left at zero.
func NewHoltWinters(trend, seasonal string, period int) *HoltWinters {
	return &HoltWinters{Trend: trend, Seasonal: seasonal, Period: period, Alpha: 0.3, Beta: 0.1, Gamma: 0.1}
}

// Fit runs the smoothing recursion over the full series and records one-step
// ahead predictions as fitted values.
func (m *HoltWinters) Fit(s *timeseries.Series) error {
	m.seasonal = m.Seasonal != "none" && m.Seasonal != "" && m.Period > 1

	minLen := 3
	if m.seasonal {
		minLen = 2 * m.Period
	}
	if s.Len() < minLen {
		return fmt.Errorf("%w: Holt-Winters with period %d needs at least %d points, have %d",
			models.ErrInsufficientData, m.Period, minLen, s.Len())
	}
	if m.Trend != "add" && m.Trend != "mul" && m.Trend != "none" {
		return fmt.Errorf("%w: unknown trend type %q", models.ErrInvalidParameter, m.Trend)
	}
	if m.Seasonal != "add" && m.Seasonal != "mul" && m.Seasonal != "none" && m.Seasonal != "" {
		return fmt.Errorf("%w: unknown seasonal type %q", models.ErrInvalidParameter, m.Seasonal)
	}
	if m.Seasonal == "mul" || m.Trend == "mul" {
		for _, v := range s.Values {
			if v <= 0 {
				return fmt.Errorf("%w: multiplicative components require strictly positive values", models.ErrDataFormat)
			}
		}
	}

	m.data = s
	y := s.Values
	n := len(y)

	m.initState(y)

	m.fitted = make([]float64, n)
	seasons := append([]float64(nil), m.seasons...)
	level := m.level
	trend := m.trend

	for t := 0; t < n; t++ {
		var season float64
		if m.seasonal {
			season = seasons[t%m.Period]
		} else if m.Seasonal == "mul" {
			season = 1
		}

		m.fitted[t] = m.combine(level, trend, season, 1)

		prevLevel := level
		switch {
		case m.seasonal && m.Seasonal == "mul":
			level = m.Alpha*(y[t]/season) + (1-m.Alpha)*m.dampened(level, trend)
		case m.seasonal:
			level = m.Alpha*(y[t]-season) + (1-m.Alpha)*m.dampened(level, trend)
		default:
			level = m.Alpha*y[t] + (1-m.Alpha)*m.dampened(level, trend)
		}

		switch m.Trend {
		case "add":
			trend = m.Beta*(level-prevLevel) + (1-m.Beta)*trend
		case "mul":
			if prevLevel != 0 {
				trend = m.Beta*(level/prevLevel) + (1-m.Beta)*trend
			}
		}

		if m.seasonal {
			if m.Seasonal == "mul" {
				if level != 0 {
					seasons[t%m.Period] = m.Gamma*(y[t]/level) + (1-m.Gamma)*season
				}
			} else {
				seasons[t%m.Period] = m.Gamma*(y[t]-level) + (1-m.Gamma)*season
			}
		}
	}

	m.level = level
	m.trend = trend
	m.seasons = seasons
	m.sigma = residualStd(y, m.fitted)
	m.isFit = true
	return nil
}

func (m *HoltWinters) initState(y []float64) {
	if m.seasonal {
		p := m.Period
		mean1 := 0.0
		mean2 := 0.0
		for i := 0; i < p; i++ {
			mean1 += y[i]
			mean2 += y[p+i]
		}
		mean1 /= float64(p)
		mean2 /= float64(p)

		m.level = mean1
		switch m.Trend {
		case "add":
			m.trend = (mean2 - mean1) / float64(p)
		case "mul":
			if mean1 > 0 {
				m.trend = math.Pow(mean2/mean1, 1/float64(p))
			} else {
				m.trend = 1
			}
		}

		m.seasons = make([]float64, p)
		for i := 0; i < p; i++ {
			if m.Seasonal == "mul" {
				if mean1 != 0 {
					m.seasons[i] = y[i] / mean1
				} else {
					m.seasons[i] = 1
				}
			} else {
				m.seasons[i] = y[i] - mean1
			}
		}
		return
	}

	m.level = y[0]
	switch m.Trend {
	case "add":
		m.trend = y[1] - y[0]
	case "mul":
		if y[0] != 0 {
			m.trend = y[1] / y[0]
		} else {
			m.trend = 1
		}
	}
	m.seasons = nil
}

func (m *HoltWinters) dampened(level, trend float64) float64 {
	switch m.Trend {
	case "add":
		return level + trend
	case "mul":
		return level * trend
	}
	return level
}

// combine projects h steps via the trend component and applies the season.
func (m *HoltWinters) combine(level, trend, season float64, h int) float64 {
	base := level
	switch m.Trend {
	case "add":
		base = level + float64(h)*trend
	case "mul":
		base = level * math.Pow(trend, float64(h))
	}
	if m.seasonal {
		if m.Seasonal == "mul" {
			return base * season
		}
		return base + season
	}
	return base
}

// Forecast projects the final state forward. Intervals use the in-sample
// residual spread, constant across the horizon (no native interval for this
// smoother, point ± 1.96·σ of the residuals).
func (m *HoltWinters) Forecast(periods int, confidence float64) (*Interval, error) {
	if !m.isFit {
		return nil, fmt.Errorf("%w: forecast requested on unfit Holt-Winters", models.ErrState)
	}
	if periods < 1 {
		return nil, fmt.Errorf("%w: periods must be positive", models.ErrInvalidParameter)
	}

	n := m.data.Len()
	forecast := make([]float64, periods)
	lower := make([]float64, periods)
	upper := make([]float64, periods)
	z := zScore(confidence)

	for h := 1; h <= periods; h++ {
		var season float64
		if m.seasonal {
			season = m.seasons[(n+h-1)%m.Period]
		}
		v := m.combine(m.level, m.trend, season, h)
		se := m.sigma
		forecast[h-1] = v
		lower[h-1] = v - z*se
		upper[h-1] = v + z*se
	}

	return &Interval{Forecast: forecast, Lower: lower, Upper: upper}, nil
}

// FittedValues returns the one-step-ahead predictions for the training series.
func (m *HoltWinters) FittedValues() ([]float64, error) {
	if !m.isFit {
		return nil, fmt.Errorf("%w: fitted values requested on unfit Holt-Winters", models.ErrState)
	}
	return append([]float64(nil), m.fitted...), nil
}

// Info reports component types and smoothing parameters.
func (m *HoltWinters) Info() map[string]any {
	info := map[string]any{
		"trend":    m.Trend,
		"seasonal": m.Seasonal,
		"period":   m.Period,
	}
	if m.isFit {
		info["alpha"] = m.Alpha
		info["beta"] = m.Beta
		info["gamma"] = m.Gamma
		info["level"] = m.level
	}
	return info
}

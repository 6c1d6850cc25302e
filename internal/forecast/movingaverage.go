package forecast

import (
	"fmt"
	"math"

	"TSLab/internal/domain/models"
	"TSLab/internal/timeseries"
)

// MovingAverage forecasts a flat line at the mean of the last window. The
// interval is a constant band at the window's standard deviation.
type MovingAverage struct {
	Window int

	mean   float64
	std    float64
	fitted []float64
	data   *timeseries.Series
	isFit  bool
}

// NewMovingAverage creates a moving-average model. Window defaults to 12.
func NewMovingAverage(window int) *MovingAverage {
	if window <= 0 {
		window = 12
	}
	return &MovingAverage{Window: window}
}

// Fit records the trailing-window rolling mean as fitted values and the final
// window's mean and spread as the forecast state.
func (m *MovingAverage) Fit(s *timeseries.Series) error {
	if s.Len() < m.Window {
		return fmt.Errorf("%w: moving average with window %d needs at least %d points, have %d",
			models.ErrInsufficientData, m.Window, m.Window, s.Len())
	}

	m.data = s
	y := s.Values
	n := len(y)

	m.fitted = s.MovingAverage(m.Window)

	tail := y[n-m.Window:]
	sum := 0.0
	for _, v := range tail {
		sum += v
	}
	m.mean = sum / float64(m.Window)

	ss := 0.0
	for _, v := range tail {
		d := v - m.mean
		ss += d * d
	}
	if m.Window > 1 {
		m.std = math.Sqrt(ss / float64(m.Window-1))
	}

	m.isFit = true
	return nil
}

// Forecast repeats the last-window mean for every horizon step.
func (m *MovingAverage) Forecast(periods int, confidence float64) (*Interval, error) {
	if !m.isFit {
		return nil, fmt.Errorf("%w: forecast requested on unfit moving average", models.ErrState)
	}
	if periods < 1 {
		return nil, fmt.Errorf("%w: periods must be positive", models.ErrInvalidParameter)
	}

	z := zScore(confidence)
	forecast := make([]float64, periods)
	lower := make([]float64, periods)
	upper := make([]float64, periods)
	for i := range forecast {
		forecast[i] = m.mean
		lower[i] = m.mean - z*m.std
		upper[i] = m.mean + z*m.std
	}
	return &Interval{Forecast: forecast, Lower: lower, Upper: upper}, nil
}

// FittedValues returns the rolling mean with the warm-up gap filled.
func (m *MovingAverage) FittedValues() ([]float64, error) {
	if !m.isFit {
		return nil, fmt.Errorf("%w: fitted values requested on unfit moving average", models.ErrState)
	}
	return fillGaps(m.fitted), nil
}

// Info reports the window and forecast state.
func (m *MovingAverage) Info() map[string]any {
	info := map[string]any{"window": m.Window}
	if m.isFit {
		info["mean"] = m.mean
		info["std"] = m.std
	}
	return info
}

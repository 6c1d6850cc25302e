package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"TSLab/internal/domain/models"
	"TSLab/internal/timeseries"
)

// Prophet fits an additive decomposable model: linear trend plus Fourier
// seasonal terms over a dated index, solved by ordinary least squares. When
// the series carries no real timestamps a synthetic daily calendar is used.
type Prophet struct {
	YearlyOrder float64
	WeeklyOrder float64

	coeffs []float64
	dates  []time.Time
	fitted []float64
	resLow float64
	resUp  float64
	data   *timeseries.Series
	isFit  bool
}

// NewProphet creates a Prophet-style model with yearly and weekly Fourier
// orders (defaults 3 and 2 when zero).
func NewProphet() *Prophet {
	return &Prophet{YearlyOrder: 3, WeeklyOrder: 2}
}

// Fit builds the design matrix over the series' calendar and solves for the
// trend and seasonal coefficients.
func (m *Prophet) Fit(s *timeseries.Series) error {
	minLen := int(2*(m.YearlyOrder+m.WeeklyOrder)) + 4
	if s.Len() < minLen {
		return fmt.Errorf("%w: Prophet needs at least %d points, have %d",
			models.ErrInsufficientData, minLen, s.Len())
	}

	m.data = s
	m.dates = m.calendar(s)

	n := s.Len()
	cols := m.numCols()
	X := mat.NewDense(n, cols, nil)
	y := mat.NewVecDense(n, append([]float64(nil), s.Values...))

	for i := 0; i < n; i++ {
		m.fillRow(X, i, m.dates[i])
	}

	var qr mat.QR
	qr.Factorize(X)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, y); err != nil {
		return fmt.Errorf("%w: least squares solve failed: %v", models.ErrFitting, err)
	}

	m.coeffs = make([]float64, cols)
	for j := 0; j < cols; j++ {
		m.coeffs[j] = beta.AtVec(j)
	}

	m.fitted = make([]float64, n)
	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		m.fitted[i] = m.predict(m.dates[i])
		residuals[i] = s.Values[i] - m.fitted[i]
	}
	m.resLow, m.resUp = residualQuantiles(residuals, 0.1, 0.9)

	m.isFit = true
	return nil
}

// calendar returns the series' own dates, or a synthetic daily calendar from
// 2020-01-01 when timestamps are absent.
func (m *Prophet) calendar(s *timeseries.Series) []time.Time {
	if s.HasTimestamps() {
		return append([]time.Time(nil), s.Timestamps...)
	}
	origin := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, s.Len())
	for i := range dates {
		dates[i] = origin.AddDate(0, 0, i)
	}
	return dates
}

func (m *Prophet) numCols() int {
	return 2 + 2*int(m.YearlyOrder) + 2*int(m.WeeklyOrder)
}

func (m *Prophet) fillRow(X *mat.Dense, row int, t time.Time) {
	days := float64(t.Unix()) / 86400.0

	X.Set(row, 0, 1)
	X.Set(row, 1, days)

	col := 2
	for k := 1; k <= int(m.YearlyOrder); k++ {
		arg := 2 * math.Pi * float64(k) * days / 365.25
		X.Set(row, col, math.Sin(arg))
		X.Set(row, col+1, math.Cos(arg))
		col += 2
	}
	for k := 1; k <= int(m.WeeklyOrder); k++ {
		arg := 2 * math.Pi * float64(k) * days / 7
		X.Set(row, col, math.Sin(arg))
		X.Set(row, col+1, math.Cos(arg))
		col += 2
	}
}

func (m *Prophet) predict(t time.Time) float64 {
	days := float64(t.Unix()) / 86400.0

	v := m.coeffs[0] + m.coeffs[1]*days
	col := 2
	for k := 1; k <= int(m.YearlyOrder); k++ {
		arg := 2 * math.Pi * float64(k) * days / 365.25
		v += m.coeffs[col]*math.Sin(arg) + m.coeffs[col+1]*math.Cos(arg)
		col += 2
	}
	for k := 1; k <= int(m.WeeklyOrder); k++ {
		arg := 2 * math.Pi * float64(k) * days / 7
		v += m.coeffs[col]*math.Sin(arg) + m.coeffs[col+1]*math.Cos(arg)
		col += 2
	}
	return v
}

// Forecast evaluates the model over a future frame extending one calendar
// step per period past the last observed date. Intervals come from the
// in-sample residual quantile spread.
func (m *Prophet) Forecast(periods int, confidence float64) (*Interval, error) {
	if !m.isFit {
		return nil, fmt.Errorf("%w: forecast requested on unfit Prophet", models.ErrState)
	}
	if periods < 1 {
		return nil, fmt.Errorf("%w: periods must be positive", models.ErrInvalidParameter)
	}

	step := 24 * time.Hour
	if len(m.dates) >= 2 {
		if d := m.dates[len(m.dates)-1].Sub(m.dates[len(m.dates)-2]); d > 0 {
			step = d
		}
	}
	last := m.dates[len(m.dates)-1]

	// Widen the quantile band toward the requested confidence.
	scale := zScore(confidence) / 1.2816
	if math.IsNaN(scale) || scale <= 0 {
		scale = 1
	}

	forecast := make([]float64, periods)
	lower := make([]float64, periods)
	upper := make([]float64, periods)
	for h := 1; h <= periods; h++ {
		t := last.Add(time.Duration(h) * step)
		v := m.predict(t)
		forecast[h-1] = v
		lower[h-1] = v + scale*m.resLow
		upper[h-1] = v + scale*m.resUp
	}

	return &Interval{Forecast: forecast, Lower: lower, Upper: upper}, nil
}

// FittedValues returns the in-sample model evaluation.
func (m *Prophet) FittedValues() ([]float64, error) {
	if !m.isFit {
		return nil, fmt.Errorf("%w: fitted values requested on unfit Prophet", models.ErrState)
	}
	return append([]float64(nil), m.fitted...), nil
}

// Info reports the Fourier orders and trend slope.
func (m *Prophet) Info() map[string]any {
	info := map[string]any{
		"yearly_order": int(m.YearlyOrder),
		"weekly_order": int(m.WeeklyOrder),
	}
	if m.isFit {
		info["trend_slope"] = m.coeffs[1]
	}
	return info
}

func residualQuantiles(residuals []float64, lo, hi float64) (float64, float64) {
	sorted := append([]float64(nil), residuals...)
	sort.Float64s(sorted)
	at := func(q float64) float64 {
		if len(sorted) == 0 {
			return 0
		}
		idx := q * float64(len(sorted)-1)
		i := int(idx)
		if i >= len(sorted)-1 {
			return sorted[len(sorted)-1]
		}
		frac := idx - float64(i)
		return sorted[i]*(1-frac) + sorted[i+1]*frac
	}
	return at(lo), at(hi)
}

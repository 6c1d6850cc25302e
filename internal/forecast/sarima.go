package forecast

import (
	"fmt"
	"math"

	"TSLab/internal/domain/models"
	"TSLab/internal/timeseries"
)

// SARIMA extends ARIMA with seasonal autoregressive, differencing, and moving
// average terms at lag multiples of the seasonal period.
type SARIMA struct {
	P, D, Q    int
	SP, SD, SQ int
	Period     int

	arCoeffs  []float64
	maCoeffs  []float64
	sarCoeffs []float64
	smaCoeffs []float64
	intercept float64
	variance  float64
	aic       float64
	bic       float64
	logLik    float64

	data      *timeseries.Series
	diffData  []float64
	residuals []float64
	fitted    []float64
	isFit     bool
}

// NewSARIMA creates a SARIMA(p,d,q)(P,D,Q,s) model.
func NewSARIMA(p, d, q, sp, sd, sq, period int) *SARIMA {
	return &SARIMA{P: p, D: d, Q: q, SP: sp, SD: sd, SQ: sq, Period: period}
}

// Fit applies regular then seasonal differencing and estimates all four
// coefficient groups by conditional sum of squares.
func (m *SARIMA) Fit(s *timeseries.Series) error {
	minLen := m.P + m.D + m.Q + (m.SP+m.SD+m.SQ)*m.Period + 10
	if s.Len() < minLen {
		return fmt.Errorf("%w: SARIMA(%d,%d,%d)(%d,%d,%d,%d) needs at least %d points, have %d",
			models.ErrInsufficientData, m.P, m.D, m.Q, m.SP, m.SD, m.SQ, m.Period, minLen, s.Len())
	}
	if m.Period <= 0 && (m.SP > 0 || m.SD > 0 || m.SQ > 0) {
		return fmt.Errorf("%w: seasonal terms require a positive period", models.ErrInvalidParameter)
	}

	m.data = s

	diff := s
	for i := 0; i < m.D; i++ {
		diff = diff.Diff()
	}
	for i := 0; i < m.SD; i++ {
		diff = diff.SeasonalDiff(m.Period)
	}
	if diff.Len() == 0 {
		return fmt.Errorf("%w: differencing emptied the series", models.ErrFitting)
	}
	m.diffData = diff.Values

	if err := m.estimate(); err != nil {
		return err
	}

	m.alignFitted()
	m.informationCriteria()
	m.isFit = true
	return nil
}

func (m *SARIMA) estimate() error {
	y := m.diffData
	n := len(y)

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)
	m.intercept = mean

	m.arCoeffs = make([]float64, m.P)
	m.maCoeffs = make([]float64, m.Q)
	m.sarCoeffs = make([]float64, m.SP)
	m.smaCoeffs = make([]float64, m.SQ)

	if m.P > 0 {
		if acf := sampleACF(y, m.P); acf != nil {
			if phi := yuleWalker(acf, m.P); phi != nil {
				copy(m.arCoeffs, phi)
			}
		}
	}
	for i := range m.maCoeffs {
		m.maCoeffs[i] = 0.1
	}
	for i := range m.sarCoeffs {
		m.sarCoeffs[i] = 0.1
	}
	for i := range m.smaCoeffs {
		m.smaCoeffs[i] = 0.1
	}

	start := m.P
	if m.Q > start {
		start = m.Q
	}
	if s := (maxInt(m.SP, m.SQ)) * m.Period; s > start {
		start = s
	}
	if start >= n {
		return fmt.Errorf("%w: seasonal lags exceed the differenced series", models.ErrFitting)
	}

	const (
		maxIter   = 200
		tolerance = 1e-6
	)
	learningRate := 0.01

	residuals := make([]float64, n)
	prevSSE := math.Inf(1)

	for iter := 0; iter < maxIter; iter++ {
		sse := 0.0
		for t := start; t < n; t++ {
			residuals[t] = y[t] - m.predictOne(y, residuals, t)
			sse += residuals[t] * residuals[t]
		}
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return fmt.Errorf("%w: conditional sum of squares diverged", models.ErrFitting)
		}
		if math.Abs(prevSSE-sse) < tolerance {
			break
		}
		prevSSE = sse

		arGrad := make([]float64, m.P)
		maGrad := make([]float64, m.Q)
		sarGrad := make([]float64, m.SP)
		smaGrad := make([]float64, m.SQ)

		for t := start; t < n; t++ {
			for i := 0; i < m.P && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.intercept)
			}
			for i := 0; i < m.Q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < m.SP; i++ {
				if lag := (i + 1) * m.Period; t-lag >= 0 {
					sarGrad[i] -= 2 * residuals[t] * (y[t-lag] - m.intercept)
				}
			}
			for i := 0; i < m.SQ; i++ {
				if lag := (i + 1) * m.Period; t-lag >= 0 {
					smaGrad[i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		for i := 0; i < m.P; i++ {
			m.arCoeffs[i] = clamp(m.arCoeffs[i]-learningRate*arGrad[i]/float64(n), -0.99, 0.99)
		}
		for i := 0; i < m.Q; i++ {
			m.maCoeffs[i] = clamp(m.maCoeffs[i]-learningRate*maGrad[i]/float64(n), -0.99, 0.99)
		}
		for i := 0; i < m.SP; i++ {
			m.sarCoeffs[i] = clamp(m.sarCoeffs[i]-learningRate*sarGrad[i]/float64(n), -0.99, 0.99)
		}
		for i := 0; i < m.SQ; i++ {
			m.smaCoeffs[i] = clamp(m.smaCoeffs[i]-learningRate*smaGrad[i]/float64(n), -0.99, 0.99)
		}

		learningRate *= 0.995
	}

	m.residuals = make([]float64, n)
	for t := 0; t < n; t++ {
		if t < start {
			m.residuals[t] = y[t] - m.intercept
			continue
		}
		m.residuals[t] = y[t] - m.predictOne(y, m.residuals, t)
	}

	sse := 0.0
	count := 0
	for t := start; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	numParams := m.P + m.Q + m.SP + m.SQ + 1
	if count > numParams {
		m.variance = sse / float64(count-numParams)
	} else if count > 0 {
		m.variance = sse / float64(count)
	}
	return nil
}

func (m *SARIMA) predictOne(y, residuals []float64, t int) float64 {
	pred := m.intercept
	for i := 0; i < m.P && t-i-1 >= 0; i++ {
		pred += m.arCoeffs[i] * (y[t-i-1] - m.intercept)
	}
	for i := 0; i < m.SP; i++ {
		if lag := (i + 1) * m.Period; t-lag >= 0 {
			pred += m.sarCoeffs[i] * (y[t-lag] - m.intercept)
		}
	}
	for i := 0; i < m.Q && t-i-1 >= 0; i++ {
		pred += m.maCoeffs[i] * residuals[t-i-1]
	}
	for i := 0; i < m.SQ; i++ {
		if lag := (i + 1) * m.Period; t-lag >= 0 {
			pred += m.smaCoeffs[i] * residuals[t-lag]
		}
	}
	return pred
}

func (m *SARIMA) alignFitted() {
	n := m.data.Len()
	offset := m.D + m.SD*m.Period

	m.fitted = make([]float64, n)
	for i := range m.fitted {
		m.fitted[i] = math.NaN()
	}
	for t := offset; t < n; t++ {
		m.fitted[t] = m.data.Values[t] - m.residuals[t-offset]
	}
}

func (m *SARIMA) informationCriteria() {
	n := len(m.residuals)
	k := m.P + m.Q + m.SP + m.SQ + 1

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}
	if m.variance > 0 {
		m.logLik = -float64(n)/2*math.Log(2*math.Pi) - float64(n)/2*math.Log(m.variance) - sse/(2*m.variance)
	} else {
		m.logLik = math.Inf(-1)
	}
	m.aic = -2*m.logLik + 2*float64(k)
	m.bic = -2*m.logLik + float64(k)*math.Log(float64(n))
}

// Forecast runs the seasonal recursion forward and integrates seasonal then
// regular differences back to the original scale. Interval width grows with
// the horizon for each integrated term.
func (m *SARIMA) Forecast(periods int, confidence float64) (*Interval, error) {
	if !m.isFit {
		return nil, fmt.Errorf("%w: forecast requested on unfit SARIMA", models.ErrState)
	}
	if periods < 1 {
		return nil, fmt.Errorf("%w: periods must be positive", models.ErrInvalidParameter)
	}

	y := m.diffData
	n := len(y)

	extY := make([]float64, n+periods)
	copy(extY, y)
	extRes := make([]float64, n+periods)
	copy(extRes, m.residuals)

	for h := 0; h < periods; h++ {
		t := n + h
		pred := m.intercept
		for i := 0; i < m.P && t-i-1 >= 0; i++ {
			pred += m.arCoeffs[i] * (extY[t-i-1] - m.intercept)
		}
		for i := 0; i < m.SP; i++ {
			if lag := (i + 1) * m.Period; t-lag >= 0 {
				pred += m.sarCoeffs[i] * (extY[t-lag] - m.intercept)
			}
		}
		for i := 0; i < m.Q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.maCoeffs[i] * extRes[t-i-1]
		}
		for i := 0; i < m.SQ; i++ {
			if lag := (i + 1) * m.Period; t-lag >= 0 && t-lag < n {
				pred += m.smaCoeffs[i] * extRes[t-lag]
			}
		}
		extY[t] = pred
		extRes[t] = 0
	}

	forecast := m.integrateSeasonal(extY[n:])

	z := zScore(confidence)
	sigma := math.Sqrt(m.variance)
	lower := make([]float64, periods)
	upper := make([]float64, periods)

	for h := 0; h < periods; h++ {
		growth := 1.0
		if m.D > 0 {
			growth *= math.Sqrt(float64(h + 1))
		}
		if m.SD > 0 && m.Period > 0 {
			growth *= math.Sqrt(float64(h/m.Period + 1))
		}
		se := sigma * growth
		lower[h] = forecast[h] - z*se
		upper[h] = forecast[h] + z*se
	}

	return &Interval{Forecast: forecast, Lower: lower, Upper: upper}, nil
}

// integrateSeasonal undoes seasonal differencing against the regular-differenced
// tail of the observations, then undoes the regular differencing.
func (m *SARIMA) integrateSeasonal(forecast []float64) []float64 {
	result := append([]float64(nil), forecast...)

	if m.SD > 0 && m.Period > 0 {
		base := m.data.Values
		for i := 0; i < m.D; i++ {
			next := make([]float64, len(base)-1)
			for j := 1; j < len(base); j++ {
				next[j-1] = base[j] - base[j-1]
			}
			base = next
		}

		for i := 0; i < m.SD; i++ {
			for j := range result {
				if j < m.Period {
					idx := len(base) - m.Period + j
					if idx >= 0 {
						result[j] += base[idx]
					}
				} else {
					result[j] += result[j-m.Period]
				}
			}
		}
	}

	return integrate(result, m.data.Values, m.D)
}

// FittedValues returns the aligned in-sample reconstruction with warm-up gaps filled.
func (m *SARIMA) FittedValues() ([]float64, error) {
	if !m.isFit {
		return nil, fmt.Errorf("%w: fitted values requested on unfit SARIMA", models.ErrState)
	}
	return fillGaps(m.fitted), nil
}

// Info reports orders and information criteria.
func (m *SARIMA) Info() map[string]any {
	info := map[string]any{
		"order":          []int{m.P, m.D, m.Q},
		"seasonal_order": []int{m.SP, m.SD, m.SQ, m.Period},
	}
	if m.isFit {
		info["aic"] = m.aic
		info["bic"] = m.bic
	}
	return info
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package forecast

import (
	"fmt"
	"math"

	"TSLab/internal/domain/models"
	"TSLab/internal/timeseries"
)

// ARIMA is an autoregressive integrated moving average model estimated by
// conditional sum of squares with Yule-Walker initialization.
type ARIMA struct {
	P, D, Q int

	arCoeffs  []float64
	maCoeffs  []float64
	intercept float64
	variance  float64
	aic       float64
	bic       float64
	logLik    float64

	data      *timeseries.Series
	diffData  []float64
	residuals []float64
	fitted    []float64 // aligned with the original series, NaN during warm-up
	isFit     bool
}

// NewARIMA creates an ARIMA(p,d,q) model.
func NewARIMA(p, d, q int) *ARIMA {
	return &ARIMA{P: p, D: d, Q: q}
}

// Fit estimates AR and MA coefficients on the differenced series.
func (m *ARIMA) Fit(s *timeseries.Series) error {
	if s.Len() < m.P+m.D+m.Q+10 {
		return fmt.Errorf("%w: ARIMA(%d,%d,%d) needs at least %d points, have %d",
			models.ErrInsufficientData, m.P, m.D, m.Q, m.P+m.D+m.Q+10, s.Len())
	}

	m.data = s

	diff := s
	for i := 0; i < m.D; i++ {
		diff = diff.Diff()
		if diff.Len() == 0 {
			return fmt.Errorf("%w: differencing emptied the series", models.ErrFitting)
		}
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

// estimate runs conditional-sum-of-squares optimization on the differenced
// values: Yule-Walker seeds the AR part, gradient steps refine both parts.
func (m *ARIMA) estimate() error {
	y := m.diffData
	n := len(y)
	p, q := m.P, m.Q

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)
	m.intercept = mean

	m.arCoeffs = make([]float64, p)
	m.maCoeffs = make([]float64, q)

	if p == 0 && q == 0 {
		m.residuals = make([]float64, n)
		ss := 0.0
		for i, v := range y {
			m.residuals[i] = v - mean
			ss += m.residuals[i] * m.residuals[i]
		}
		if n > 1 {
			m.variance = ss / float64(n-1)
		}
		return nil
	}

	if p > 0 {
		if acf := sampleACF(y, p); acf != nil {
			if phi := yuleWalker(acf, p); phi != nil {
				copy(m.arCoeffs, phi)
			}
		}
	}
	for i := range m.maCoeffs {
		m.maCoeffs[i] = 0.1
	}

	const (
		maxIter      = 200
		tolerance    = 1e-6
		learningRate = 0.01
	)

	start := p
	if q > start {
		start = q
	}

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

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		for t := start; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.intercept)
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
		}
		for i := 0; i < p; i++ {
			m.arCoeffs[i] = clamp(m.arCoeffs[i]-learningRate*arGrad[i]/float64(n), -0.99, 0.99)
		}
		for i := 0; i < q; i++ {
			m.maCoeffs[i] = clamp(m.maCoeffs[i]-learningRate*maGrad[i]/float64(n), -0.99, 0.99)
		}
	}

	// Final pass for residuals and variance.
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
	if count > p+q+1 {
		m.variance = sse / float64(count-p-q-1)
	} else if count > 0 {
		m.variance = sse / float64(count)
	}
	return nil
}

// predictOne computes the one-step prediction at index t on the differenced scale.
func (m *ARIMA) predictOne(y, residuals []float64, t int) float64 {
	pred := m.intercept
	for i := 0; i < m.P && t-i-1 >= 0; i++ {
		pred += m.arCoeffs[i] * (y[t-i-1] - m.intercept)
	}
	for i := 0; i < m.Q && t-i-1 >= 0; i++ {
		pred += m.maCoeffs[i] * residuals[t-i-1]
	}
	return pred
}

// alignFitted maps differenced-scale residuals onto the original series.
// One-step residuals are invariant under differencing, so the fitted value at
// t is simply the observation minus its residual; the first d positions have
// no prediction and stay NaN.
func (m *ARIMA) alignFitted() {
	n := m.data.Len()
	m.fitted = make([]float64, n)
	for i := range m.fitted {
		m.fitted[i] = math.NaN()
	}
	for t := m.D; t < n; t++ {
		m.fitted[t] = m.data.Values[t] - m.residuals[t-m.D]
	}
}

func (m *ARIMA) informationCriteria() {
	n := len(m.residuals)
	k := m.P + m.Q + 1

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

// Forecast iterates the ARMA recursion forward on the differenced scale,
// integrates back, and builds analytic intervals from psi weights.
func (m *ARIMA) Forecast(periods int, confidence float64) (*Interval, error) {
	if !m.isFit {
		return nil, fmt.Errorf("%w: forecast requested on unfit ARIMA", models.ErrState)
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
		for i := 0; i < m.Q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.maCoeffs[i] * extRes[t-i-1]
		}
		extY[t] = pred
		extRes[t] = 0
	}

	forecast := integrate(extY[n:], m.data.Values, m.D)

	z := zScore(confidence)
	psi := psiWeights(m.arCoeffs, m.maCoeffs, periods, m.D)
	sigma := math.Sqrt(m.variance)

	lower := make([]float64, periods)
	upper := make([]float64, periods)
	cum := 0.0
	for h := 0; h < periods; h++ {
		cum += psi[h] * psi[h]
		se := sigma * math.Sqrt(cum)
		lower[h] = forecast[h] - z*se
		upper[h] = forecast[h] + z*se
	}

	return &Interval{Forecast: forecast, Lower: lower, Upper: upper}, nil
}

// FittedValues returns the aligned in-sample reconstruction with warm-up gaps filled.
func (m *ARIMA) FittedValues() ([]float64, error) {
	if !m.isFit {
		return nil, fmt.Errorf("%w: fitted values requested on unfit ARIMA", models.ErrState)
	}
	return fillGaps(m.fitted), nil
}

// Info reports information criteria and the estimated coefficient map.
func (m *ARIMA) Info() map[string]any {
	info := map[string]any{
		"order": []int{m.P, m.D, m.Q},
	}
	if !m.isFit {
		return info
	}

	params := map[string]float64{"intercept": m.intercept}
	for i, c := range m.arCoeffs {
		params[fmt.Sprintf("ar.L%d", i+1)] = c
	}
	for i, c := range m.maCoeffs {
		params[fmt.Sprintf("ma.L%d", i+1)] = c
	}

	info["aic"] = m.aic
	info["bic"] = m.bic
	info["parameters"] = params
	return info
}

// integrate undoes d rounds of differencing. Each round must be seeded with
// the last observation on the matching differenced scale, so the tails of the
// successively differenced series are collected first and the cumulative sums
// run innermost scale first.
func integrate(forecast, original []float64, d int) []float64 {
	result := append([]float64(nil), forecast...)
	if d == 0 {
		return result
	}

	tails := make([]float64, d)
	level := append([]float64(nil), original...)
	for k := 0; k < d; k++ {
		tails[k] = level[len(level)-1]
		next := make([]float64, len(level)-1)
		for j := 1; j < len(level); j++ {
			next[j-1] = level[j] - level[j-1]
		}
		level = next
	}

	for k := d - 1; k >= 0; k-- {
		prev := tails[k]
		for j := range result {
			result[j] += prev
			prev = result[j]
		}
	}
	return result
}

// psiWeights expands the ARMA lag polynomials into moving-average weights and
// cumulates them once per differencing order so forecast error variance grows
// with the horizon for integrated series.
func psiWeights(ar, ma []float64, horizon, d int) []float64 {
	psi := make([]float64, horizon)
	if horizon == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < horizon; j++ {
		v := 0.0
		if j-1 < len(ma) {
			v = ma[j-1]
		}
		for i := 0; i < len(ar) && i < j; i++ {
			v += ar[i] * psi[j-i-1]
		}
		psi[j] = v
	}
	for k := 0; k < d; k++ {
		for j := 1; j < horizon; j++ {
			psi[j] += psi[j-1]
		}
	}
	return psi
}

// sampleACF computes autocorrelations up to maxLag for coefficient seeding.
func sampleACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
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

// yuleWalker solves the Yule-Walker equations by Levinson-Durbin recursion.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

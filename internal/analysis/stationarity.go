package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"TSLab/internal/domain/models"
)

// ADFResult is the outcome of an Augmented Dickey-Fuller test. The null
// hypothesis is a unit root; p ≤ 0.05 rejects it and the series is treated
// as stationary.
type ADFResult struct {
	Statistic    float64            `json:"statistic"`
	PValue       float64            `json:"p_value"`
	Lags         int                `json:"lags"`
	NObs         int                `json:"n_obs"`
	CriticalVals map[string]float64 `json:"critical_values"`
	IsStationary bool               `json:"is_stationary"`
}

// ADFTest runs the test with automatic lag selection, floor((n-1)^(1/3)).
func ADFTest(values []float64) (*ADFResult, error) {
	n := len(values)
	if n < 10 {
		return nil, fmt.Errorf("%w: ADF test needs at least 10 points, have %d", models.ErrInsufficientData, n)
	}

	maxLag := int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	if maxLag >= n-1 {
		maxLag = n - 2
	}
	if maxLag < 0 {
		maxLag = 0
	}

	diff := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diff[i-1] = values[i] - values[i-1]
	}

	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil, fmt.Errorf("%w: too few observations after lag trimming", models.ErrInsufficientData)
	}

	// Regression: Δy_t = α + β·y_{t-1} + Σ γ_i·Δy_{t-i} + ε. Test β = 0.
	k := 2 + maxLag
	X := mat.NewDense(nObs, k, nil)
	y := make([]float64, nObs)
	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y[i] = diff[t]
		X.Set(i, 0, 1)
		X.Set(i, 1, values[t])
		for j := 1; j <= maxLag; j++ {
			X.Set(i, 1+j, diff[t-j])
		}
	}

	coeffs, se, err := olsFit(X, y)
	if err != nil || len(se) < 2 || se[1] == 0 {
		return nil, fmt.Errorf("%w: ADF regression failed", models.ErrFitting)
	}

	tStat := coeffs[1] / se[1]
	pValue := mackinnonPValue(tStat)

	return &ADFResult{
		Statistic: tStat,
		PValue:    pValue,
		Lags:      maxLag,
		NObs:      nObs,
		CriticalVals: map[string]float64{
			"1%":  -3.43,
			"5%":  -2.86,
			"10%": -2.57,
		},
		IsStationary: pValue <= 0.05,
	}, nil
}

// KPSSResult is the outcome of a KPSS level-stationarity test. The null
// hypothesis is stationarity; the series is treated as stationary when
// p > 0.05.
type KPSSResult struct {
	Statistic    float64            `json:"statistic"`
	PValue       float64            `json:"p_value"`
	Lags         int                `json:"lags"`
	CriticalVals map[string]float64 `json:"critical_values"`
	IsStationary bool               `json:"is_stationary"`
}

// KPSSTest runs the test against a constant level with Newey-West lags
// ceil(12·(n/100)^0.25) and Bartlett weights.
func KPSSTest(values []float64) (*KPSSResult, error) {
	n := len(values)
	if n < 10 {
		return nil, fmt.Errorf("%w: KPSS test needs at least 10 points, have %d", models.ErrInsufficientData, n)
	}

	nlags := int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	if nlags >= n {
		nlags = n - 1
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	residuals := make([]float64, n)
	for i, v := range values {
		residuals[i] = v - mean
	}

	cumSum := make([]float64, n)
	cumSum[0] = residuals[0]
	for i := 1; i < n; i++ {
		cumSum[i] = cumSum[i-1] + residuals[i]
	}

	s2 := 0.0
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)
	for l := 1; l <= nlags; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		s2 += 2 * (1 - float64(l)/float64(nlags+1)) * cov
	}
	if s2 <= 0 {
		s2 = 1e-10
	}

	etaSq := 0.0
	for _, cs := range cumSum {
		etaSq += cs * cs
	}
	stat := etaSq / (float64(n) * float64(n) * s2)
	pValue := kpssPValue(stat)

	return &KPSSResult{
		Statistic: stat,
		PValue:    pValue,
		Lags:      nlags,
		CriticalVals: map[string]float64{
			"10%": 0.347,
			"5%":  0.463,
			"1%":  0.739,
		},
		IsStationary: pValue > 0.05,
	}, nil
}

// StationarityResult combines the two tests into a single verdict. The
// series is called stationary only when both tests agree.
type StationarityResult struct {
	ADF          *ADFResult  `json:"adf"`
	KPSS         *KPSSResult `json:"kpss"`
	IsStationary bool        `json:"is_stationary"`
	Conclusion   string      `json:"conclusion"`
}

// CheckStationarity runs ADF and KPSS and maps the four agreement cases to
// their verdict messages.
func CheckStationarity(values []float64) (*StationarityResult, error) {
	adf, err := ADFTest(values)
	if err != nil {
		return nil, err
	}
	kpss, err := KPSSTest(values)
	if err != nil {
		return nil, err
	}

	result := &StationarityResult{ADF: adf, KPSS: kpss}
	result.IsStationary, result.Conclusion = verdict(adf.IsStationary, kpss.IsStationary)
	return result, nil
}

// verdict maps the two test outcomes to the combined flag and message.
func verdict(adfStationary, kpssStationary bool) (bool, string) {
	switch {
	case adfStationary && kpssStationary:
		return true, "Series is stationary (both tests agree)"
	case !adfStationary && !kpssStationary:
		return false, "Series is non-stationary (both tests agree)"
	case adfStationary:
		return false, "Series may be difference-stationary (ADF: stationary, KPSS: non-stationary)"
	default:
		return false, "Series may be trend-stationary (ADF: non-stationary, KPSS: stationary)"
	}
}

// MakeStationary differences the series until the ADF test passes, up to
// maxDiff rounds. Returns the transformed values and the number of
// differences applied.
func MakeStationary(values []float64, maxDiff int) ([]float64, int, error) {
	current := append([]float64(nil), values...)
	for d := 0; d <= maxDiff; d++ {
		adf, err := ADFTest(current)
		if err != nil {
			return current, d, err
		}
		if adf.IsStationary || d == maxDiff {
			return current, d, nil
		}
		next := make([]float64, len(current)-1)
		for i := 1; i < len(current); i++ {
			next[i-1] = current[i] - current[i-1]
		}
		current = next
	}
	return current, maxDiff, nil
}

// mackinnonPValue interpolates an approximate p-value for the ADF statistic
// under a constant-only regression, after MacKinnon (1994).
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < -2.86:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}

// kpssPValue interpolates an approximate p-value for level stationarity.
func kpssPValue(stat float64) float64 {
	switch {
	case stat > 0.739:
		return 0.01
	case stat > 0.463:
		return 0.05
	case stat > 0.347:
		return 0.10
	default:
		return math.Min(0.10+(0.347-stat)*0.5, 0.99)
	}
}

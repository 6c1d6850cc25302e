package analysis

import (
	"fmt"
	"math"
	"sort"

	"TSLab/internal/domain/models"
)

// OutlierResult lists the flagged points and the bounds that flagged them.
type OutlierResult struct {
	Method     string    `json:"method"`
	Indices    []int     `json:"indices"`
	Values     []float64 `json:"values"`
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
	Count      int       `json:"count"`
}

// DetectOutliers flags points by the requested method: "iqr" (outside
// [Q1-1.5·IQR, Q3+1.5·IQR]) or "zscore" (|z| > 3).
func DetectOutliers(values []float64, method string) (*OutlierResult, error) {
	if len(values) < 4 {
		return nil, fmt.Errorf("%w: outlier detection needs at least 4 points, have %d",
			models.ErrInsufficientData, len(values))
	}

	switch method {
	case "", "iqr":
		return iqrOutliers(values), nil
	case "zscore", "z-score":
		return zscoreOutliers(values), nil
	}
	return nil, fmt.Errorf("%w: unknown outlier method %q", models.ErrInvalidParameter, method)
}

func iqrOutliers(values []float64) *OutlierResult {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)
	iqr := q3 - q1

	result := &OutlierResult{
		Method:     "iqr",
		Indices:    []int{},
		Values:     []float64{},
		LowerBound: q1 - 1.5*iqr,
		UpperBound: q3 + 1.5*iqr,
	}
	for i, v := range values {
		if v < result.LowerBound || v > result.UpperBound {
			result.Indices = append(result.Indices, i)
			result.Values = append(result.Values, v)
		}
	}
	result.Count = len(result.Indices)
	return result
}

func zscoreOutliers(values []float64) *OutlierResult {
	n := float64(len(values))
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= n

	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	std := math.Sqrt(ss / n)

	result := &OutlierResult{
		Method:     "zscore",
		Indices:    []int{},
		Values:     []float64{},
		LowerBound: mean - 3*std,
		UpperBound: mean + 3*std,
	}
	if std == 0 {
		return result
	}
	for i, v := range values {
		if math.Abs((v-mean)/std) > 3 {
			result.Indices = append(result.Indices, i)
			result.Values = append(result.Values, v)
		}
	}
	result.Count = len(result.Indices)
	return result
}

// quantileSorted interpolates linearly on an already sorted slice.
func quantileSorted(sorted []float64, q float64) float64 {
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

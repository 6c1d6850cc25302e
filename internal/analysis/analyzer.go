package analysis

import (
	"math"
	"sort"
)

// BasicStats summarizes the distribution of a series.
type BasicStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Describe computes the summary statistics of a series.
func Describe(values []float64) *BasicStats {
	n := len(values)
	if n == 0 {
		return &BasicStats{}
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	std := 0.0
	if n > 1 {
		std = math.Sqrt(ss / float64(n-1))
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return &BasicStats{
		Count:  n,
		Mean:   mean,
		Std:    std,
		Min:    sorted[0],
		Q1:     quantileSorted(sorted, 0.25),
		Median: quantileSorted(sorted, 0.5),
		Q3:     quantileSorted(sorted, 0.75),
		Max:    sorted[n-1],
	}
}

// Comprehensive runs every diagnostic and collects the fragments into one
// report. A failing diagnostic contributes an {error: message} fragment
// instead of aborting the whole report.
func Comprehensive(values []float64) map[string]any {
	report := map[string]any{
		"basic_stats": Describe(values),
	}

	fragment := func(key string, v any, err error) {
		if err != nil {
			report[key] = map[string]any{"error": err.Error()}
			return
		}
		report[key] = v
	}

	st, err := CheckStationarity(values)
	fragment("stationarity", st, err)

	seas, err := DetectSeasonality(values)
	fragment("seasonality", seas, err)

	dec, err := Decompose(values, 0, "additive")
	fragment("decomposition", dec, err)

	corr, err := Autocorrelation(values, 20)
	fragment("autocorrelation", corr, err)

	out, err := DetectOutliers(values, "iqr")
	fragment("outliers", out, err)

	sug, err := SuggestParameters(values)
	fragment("suggestions", sug, err)

	return report
}

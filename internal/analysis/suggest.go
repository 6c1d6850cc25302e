package analysis

import (
	"fmt"
	"math"

	"TSLab/internal/domain/models"
)

// SuggestedConfig is one recommended model configuration with its rationale.
type SuggestedConfig struct {
	ModelType  string         `json:"model_type"`
	Parameters map[string]any `json:"parameters"`
	Rationale  string         `json:"rationale"`
}

// Suggestion bundles the detected structure and the configurations derived
// from it.
type Suggestion struct {
	HasTrend       bool              `json:"has_trend"`
	SeasonalPeriod int               `json:"seasonal_period"`
	Suggestions    []SuggestedConfig `json:"suggestions"`
}

// SuggestParameters inspects the series for trend and a dominant seasonal
// period and proposes ARIMA, SARIMA, and Holt-Winters configurations.
func SuggestParameters(values []float64) (*Suggestion, error) {
	n := len(values)
	if n < 24 {
		return nil, fmt.Errorf("%w: parameter suggestion needs at least 24 points, have %d",
			models.ErrInsufficientData, n)
	}

	hasTrend := detectTrend(values)
	period := dominantPeriod(values)

	s := &Suggestion{HasTrend: hasTrend, SeasonalPeriod: period}

	d := 0
	if hasTrend {
		d = 1
	}

	trendWord := "no trend"
	if hasTrend {
		trendWord = "a trend"
	}

	s.Suggestions = append(s.Suggestions, SuggestedConfig{
		ModelType:  "arima",
		Parameters: map[string]any{"order": []int{1, d, 1}},
		Rationale:  fmt.Sprintf("series shows %s, differencing order %d", trendWord, d),
	})
	if period > 0 && n >= 2*period {
		s.Suggestions = append(s.Suggestions, SuggestedConfig{
			ModelType: "sarima",
			Parameters: map[string]any{
				"order":          []int{1, d, 1},
				"seasonal_order": []int{1, 1, 1, period},
			},
			Rationale: fmt.Sprintf("lowest grouped variance at period %d suggests seasonality", period),
		})
		trend := "none"
		if hasTrend {
			trend = "add"
		}
		s.Suggestions = append(s.Suggestions, SuggestedConfig{
			ModelType: "holt-winters",
			Parameters: map[string]any{
				"trend": trend, "seasonal": "add", "seasonal_periods": period,
			},
			Rationale: fmt.Sprintf("exponential smoothing with %s trend and period %d", trend, period),
		})
	}
	return s, nil
}

// detectTrend compares the mean of the last 12 points against the first 12;
// a gap above half a standard deviation counts as trend.
func detectTrend(values []float64) bool {
	n := len(values)
	window := 12
	if n < 2*window {
		window = n / 2
	}

	firstMean := 0.0
	lastMean := 0.0
	for i := 0; i < window; i++ {
		firstMean += values[i]
		lastMean += values[n-window+i]
	}
	firstMean /= float64(window)
	lastMean /= float64(window)

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
	sigma := math.Sqrt(ss / float64(n))

	return math.Abs(lastMean-firstMean) > 0.5*sigma
}

// dominantPeriod picks the candidate period minimizing the variance of the
// series grouped by position modulo period. Candidates are {7,12,24,52},
// restricted to {7,12} for short series.
func dominantPeriod(values []float64) int {
	n := len(values)
	candidates := []int{7, 12, 24, 52}
	if n < 52 {
		candidates = []int{7, 12}
	}

	best := 0
	bestVar := math.Inf(1)
	for _, period := range candidates {
		if n < 2*period {
			continue
		}
		v := groupedVariance(values, period)
		if v < bestVar {
			bestVar = v
			best = period
		}
	}
	return best
}

// groupedVariance averages the within-group variance of positions sharing
// the same index modulo period.
func groupedVariance(values []float64, period int) float64 {
	sums := make([]float64, period)
	counts := make([]int, period)
	for i, v := range values {
		sums[i%period] += v
		counts[i%period]++
	}
	means := make([]float64, period)
	for i := range means {
		if counts[i] > 0 {
			means[i] = sums[i] / float64(counts[i])
		}
	}

	total := 0.0
	groups := 0
	ss := make([]float64, period)
	for i, v := range values {
		d := v - means[i%period]
		ss[i%period] += d * d
	}
	for i := range ss {
		if counts[i] > 1 {
			total += ss[i] / float64(counts[i]-1)
			groups++
		}
	}
	if groups == 0 {
		return math.Inf(1)
	}
	return total / float64(groups)
}

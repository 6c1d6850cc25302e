package analysis

import (
	"fmt"
	"math"

	"TSLab/internal/domain/models"
)

// PeriodStrength is one candidate period's seasonal strength,
// Var(seasonal)/(Var(seasonal)+Var(residual)).
type PeriodStrength struct {
	Period      int     `json:"period"`
	Strength    float64 `json:"strength"`
	Significant bool    `json:"significant"`
}

// SeasonalityResult reports the strongest candidate period.
type SeasonalityResult struct {
	HasSeasonality bool             `json:"has_seasonality"`
	BestPeriod     int              `json:"best_period,omitempty"`
	BestStrength   float64          `json:"best_strength,omitempty"`
	Candidates     []PeriodStrength `json:"candidates"`
}

var seasonalityCandidates = []int{4, 12, 24, 52}

// DetectSeasonality decomposes at each candidate period the series can
// support and flags strengths above 0.1 as significant.
func DetectSeasonality(values []float64) (*SeasonalityResult, error) {
	n := len(values)
	if n < 24 {
		return nil, fmt.Errorf("%w: seasonality detection needs at least 24 points, have %d",
			models.ErrInsufficientData, n)
	}

	result := &SeasonalityResult{}
	for _, period := range seasonalityCandidates {
		if n < 2*period {
			continue
		}
		dec, err := Decompose(values, period, "additive")
		if err != nil {
			continue
		}

		varSeasonal := variance(dec.Seasonal)
		varResidual := variance(dec.Residual)
		denom := varSeasonal + varResidual
		if denom == 0 {
			continue
		}
		strength := varSeasonal / denom

		candidate := PeriodStrength{
			Period:      period,
			Strength:    strength,
			Significant: strength > 0.1,
		}
		result.Candidates = append(result.Candidates, candidate)

		// The strongest period is reported even when nothing clears the
		// significance bar; only the flag is gated on it.
		if strength > result.BestStrength {
			result.BestPeriod = period
			result.BestStrength = strength
		}
		if candidate.Significant {
			result.HasSeasonality = true
		}
	}
	return result, nil
}

func variance(values []float64) float64 {
	n := 0
	mean := 0.0
	for _, v := range values {
		if !math.IsNaN(v) {
			mean += v
			n++
		}
	}
	if n < 2 {
		return 0
	}
	mean /= float64(n)

	ss := 0.0
	for _, v := range values {
		if !math.IsNaN(v) {
			d := v - mean
			ss += d * d
		}
	}
	return ss / float64(n-1)
}

package analysis

import (
	"errors"
	"math"
	"testing"

	"TSLab/internal/domain/models"
)

func TestSuggestParametersTrend(t *testing.T) {
	values := make([]float64, 48)
	for i := range values {
		values[i] = 10 * float64(i)
	}
	s, err := SuggestParameters(values)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if !s.HasTrend {
		t.Fatalf("steady climb should register as trend")
	}

	var arima *SuggestedConfig
	for i := range s.Suggestions {
		if s.Suggestions[i].ModelType == "arima" {
			arima = &s.Suggestions[i]
		}
	}
	if arima == nil {
		t.Fatalf("no arima suggestion in %v", s.Suggestions)
	}
	order := arima.Parameters["order"].([]int)
	if order[1] != 1 {
		t.Fatalf("arima d = %d, want 1 for a trending series", order[1])
	}
}

func TestSuggestParametersSeasonalPeriod(t *testing.T) {
	values := make([]float64, 70)
	for i := range values {
		values[i] = 100 + 20*math.Sin(2*math.Pi*float64(i%7)/7)
	}
	s, err := SuggestParameters(values)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if s.SeasonalPeriod != 7 {
		t.Fatalf("seasonal period = %d, want 7", s.SeasonalPeriod)
	}

	seen := map[string]bool{}
	for _, cfg := range s.Suggestions {
		seen[cfg.ModelType] = true
		if cfg.Rationale == "" {
			t.Errorf("%s suggestion has no rationale", cfg.ModelType)
		}
	}
	for _, want := range []string{"arima", "sarima", "holt-winters"} {
		if !seen[want] {
			t.Errorf("missing %s suggestion", want)
		}
	}
}

func TestSuggestParametersTooShort(t *testing.T) {
	if _, err := SuggestParameters(make([]float64, 23)); !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("error = %v, want ErrInsufficientData", err)
	}
}

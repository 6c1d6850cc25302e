package analysis

import (
	"errors"
	"math"
	"testing"

	"TSLab/internal/domain/models"
)

func TestDetectSeasonalityFindsPeriod(t *testing.T) {
	// Period 52 shares no harmonic with the other candidates, so the best
	// period is unambiguous.
	values := make([]float64, 120)
	for i := range values {
		values[i] = 100 + 25*math.Sin(2*math.Pi*float64(i%52)/52)
	}
	res, err := DetectSeasonality(values)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !res.HasSeasonality {
		t.Fatalf("clean 52-cycle not detected: %+v", res)
	}
	if res.BestPeriod != 52 {
		t.Fatalf("best period = %d, want 52", res.BestPeriod)
	}
	if res.BestStrength <= 0.1 {
		t.Fatalf("best strength = %v, want above the 0.1 threshold", res.BestStrength)
	}
}

func TestDetectSeasonalityCandidatePruning(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 10 + 5*math.Sin(2*math.Pi*float64(i%4)/4)
	}
	res, err := DetectSeasonality(values)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	// Only periods the series can support (n >= 2*period) are evaluated.
	for _, c := range res.Candidates {
		if 50 < 2*c.Period {
			t.Fatalf("candidate period %d exceeds what 50 points support", c.Period)
		}
	}
	if !res.HasSeasonality {
		t.Fatalf("clean 4-cycle not detected: %+v", res)
	}
}

func TestDetectSeasonalityBestPeriodUnconditional(t *testing.T) {
	// Aperiodic deterministic signal: the strongest candidate is reported
	// as the best period whether or not it clears the significance bar,
	// and the flag tracks significance alone.
	values := make([]float64, 110)
	for i := range values {
		values[i] = math.Sin(1.3*float64(i)) + 0.8*math.Sin(0.7*float64(i)+2)
	}
	res, err := DetectSeasonality(values)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(res.Candidates) == 0 {
		t.Fatalf("no candidates evaluated")
	}

	best := res.Candidates[0]
	anySignificant := false
	for _, c := range res.Candidates {
		if c.Strength > best.Strength {
			best = c
		}
		if c.Significant {
			anySignificant = true
		}
	}
	if res.BestPeriod != best.Period {
		t.Errorf("best period = %d, want %d (strongest candidate)", res.BestPeriod, best.Period)
	}
	if math.Abs(res.BestStrength-best.Strength) > 1e-12 {
		t.Errorf("best strength = %v, want %v", res.BestStrength, best.Strength)
	}
	if res.HasSeasonality != anySignificant {
		t.Errorf("has_seasonality = %v, want %v", res.HasSeasonality, anySignificant)
	}
}

func TestDetectSeasonalityTooShort(t *testing.T) {
	if _, err := DetectSeasonality(make([]float64, 23)); !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("error = %v, want ErrInsufficientData", err)
	}
}

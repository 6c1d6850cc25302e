package analysis

import (
	"errors"
	"math"
	"testing"

	"TSLab/internal/domain/models"
)

// oscillating is strongly mean-reverting around zero.
func oscillating(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		if i%2 == 0 {
			values[i] = 10
		} else {
			values[i] = -10
		}
	}
	return values
}

// trending climbs steadily with a bounded wiggle.
func trending(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i) + 2*math.Sin(float64(i))
	}
	return values
}

func TestADFStationarySeries(t *testing.T) {
	res, err := ADFTest(oscillating(100))
	if err != nil {
		t.Fatalf("ADF: %v", err)
	}
	if !res.IsStationary {
		t.Fatalf("alternating series should be stationary: stat=%v p=%v", res.Statistic, res.PValue)
	}
	if res.Statistic >= 0 {
		t.Errorf("expected a negative test statistic, got %v", res.Statistic)
	}
}

func TestADFTrendingSeries(t *testing.T) {
	res, err := ADFTest(trending(100))
	if err != nil {
		t.Fatalf("ADF: %v", err)
	}
	if res.IsStationary {
		t.Fatalf("trending series should not be stationary: stat=%v p=%v", res.Statistic, res.PValue)
	}
}

func TestADFTooShort(t *testing.T) {
	if _, err := ADFTest(oscillating(5)); !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("error = %v, want ErrInsufficientData", err)
	}
}

func TestKPSSVerdicts(t *testing.T) {
	level, err := KPSSTest(oscillating(100))
	if err != nil {
		t.Fatalf("KPSS: %v", err)
	}
	if !level.IsStationary {
		t.Fatalf("level series should be KPSS-stationary: stat=%v p=%v", level.Statistic, level.PValue)
	}

	trend, err := KPSSTest(trending(100))
	if err != nil {
		t.Fatalf("KPSS: %v", err)
	}
	if trend.IsStationary {
		t.Fatalf("trending series should not be KPSS-stationary: stat=%v p=%v", trend.Statistic, trend.PValue)
	}
}

func TestCheckStationarityAgreement(t *testing.T) {
	res, err := CheckStationarity(oscillating(100))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.IsStationary {
		t.Fatalf("expected stationary verdict, got %q", res.Conclusion)
	}
	if res.Conclusion != "Series is stationary (both tests agree)" {
		t.Fatalf("conclusion = %q", res.Conclusion)
	}

	res, err = CheckStationarity(trending(100))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.IsStationary {
		t.Fatalf("expected non-stationary verdict, got %q", res.Conclusion)
	}
	if res.Conclusion != "Series is non-stationary (both tests agree)" {
		t.Fatalf("conclusion = %q", res.Conclusion)
	}
}

func TestVerdictAllCombinations(t *testing.T) {
	cases := []struct {
		adf, kpss  bool
		stationary bool
		conclusion string
	}{
		{true, true, true, "Series is stationary (both tests agree)"},
		{false, false, false, "Series is non-stationary (both tests agree)"},
		{true, false, false, "Series may be difference-stationary (ADF: stationary, KPSS: non-stationary)"},
		{false, true, false, "Series may be trend-stationary (ADF: non-stationary, KPSS: stationary)"},
	}
	for _, tc := range cases {
		stationary, conclusion := verdict(tc.adf, tc.kpss)
		if stationary != tc.stationary {
			t.Errorf("verdict(%v, %v) stationary = %v, want %v", tc.adf, tc.kpss, stationary, tc.stationary)
		}
		if conclusion != tc.conclusion {
			t.Errorf("verdict(%v, %v) conclusion = %q, want %q", tc.adf, tc.kpss, conclusion, tc.conclusion)
		}
	}
}

func TestMakeStationaryDifferencesTrend(t *testing.T) {
	out, d, err := MakeStationary(trending(100), 2)
	if err != nil {
		t.Fatalf("make stationary: %v", err)
	}
	if d == 0 {
		t.Fatalf("trending series should need differencing")
	}
	if len(out) != 100-d {
		t.Fatalf("output length = %d after %d differences", len(out), d)
	}
}

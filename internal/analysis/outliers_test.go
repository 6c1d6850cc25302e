package analysis

import (
	"errors"
	"testing"

	"TSLab/internal/domain/models"
)

func withSpike() []float64 {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 10 + float64(i%3)
	}
	values[15] = 500
	return values
}

func TestDetectOutliersIQR(t *testing.T) {
	res, err := DetectOutliers(withSpike(), "iqr")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if res.Method != "iqr" {
		t.Fatalf("method = %q", res.Method)
	}
	if res.Count != 1 || res.Indices[0] != 15 {
		t.Fatalf("flagged %v at %v, want the single spike at 15", res.Values, res.Indices)
	}
	if res.LowerBound >= res.UpperBound {
		t.Fatalf("bounds out of order: [%v, %v]", res.LowerBound, res.UpperBound)
	}
}

func TestDetectOutliersDefaultsToIQR(t *testing.T) {
	res, err := DetectOutliers(withSpike(), "")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if res.Method != "iqr" {
		t.Fatalf("default method = %q, want iqr", res.Method)
	}
}

func TestDetectOutliersZScore(t *testing.T) {
	res, err := DetectOutliers(withSpike(), "zscore")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if res.Count != 1 || res.Indices[0] != 15 {
		t.Fatalf("flagged %v at %v, want the single spike at 15", res.Values, res.Indices)
	}
}

func TestDetectOutliersZScoreAlias(t *testing.T) {
	if _, err := DetectOutliers(withSpike(), "z-score"); err != nil {
		t.Fatalf("z-score alias rejected: %v", err)
	}
}

func TestDetectOutliersCleanSeries(t *testing.T) {
	values := []float64{10, 11, 12, 11, 10, 12, 11}
	res, err := DetectOutliers(values, "zscore")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if res.Count != 0 {
		t.Fatalf("flagged %d points in a clean series", res.Count)
	}
}

func TestDetectOutliersUnknownMethod(t *testing.T) {
	_, err := DetectOutliers(withSpike(), "dbscan")
	if !errors.Is(err, models.ErrInvalidParameter) {
		t.Fatalf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestDetectOutliersTooShort(t *testing.T) {
	_, err := DetectOutliers([]float64{1, 2, 3}, "iqr")
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("error = %v, want ErrInsufficientData", err)
	}
}

package analysis

import (
	"errors"
	"math"
	"testing"

	"TSLab/internal/domain/models"
)

func TestRollingMeanAndStd(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	rs, err := Rolling(values, 3)
	if err != nil {
		t.Fatalf("rolling: %v", err)
	}
	if rs.Size != 3 {
		t.Fatalf("window = %d, want 3", rs.Size)
	}
	if len(rs.Mean) != 5 || len(rs.Std) != 5 {
		t.Fatalf("output lengths = %d/%d, want 5", len(rs.Mean), len(rs.Std))
	}
	for i := 0; i < 2; i++ {
		if !math.IsNaN(rs.Mean[i]) || !math.IsNaN(rs.Std[i]) {
			t.Fatalf("warm-up position %d should be NaN", i)
		}
	}
	wantMean := []float64{2, 3, 4}
	for i, m := range wantMean {
		if math.Abs(rs.Mean[i+2]-m) > 1e-12 {
			t.Errorf("mean[%d] = %v, want %v", i+2, rs.Mean[i+2], m)
		}
		if math.Abs(rs.Std[i+2]-1) > 1e-12 {
			t.Errorf("std[%d] = %v, want 1 for consecutive integers", i+2, rs.Std[i+2])
		}
	}
}

func TestRollingWindowTooSmall(t *testing.T) {
	if _, err := Rolling([]float64{1, 2, 3}, 1); !errors.Is(err, models.ErrInvalidParameter) {
		t.Fatalf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestRollingSeriesShorterThanWindow(t *testing.T) {
	if _, err := Rolling([]float64{1, 2, 3}, 5); !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("error = %v, want ErrInsufficientData", err)
	}
}

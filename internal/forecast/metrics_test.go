package forecast

import (
	"math"
	"testing"
)

func TestComputeAccuracyBasic(t *testing.T) {
	actual := []float64{10, 20, 30}
	predicted := []float64{12, 18, 33}

	acc := ComputeAccuracy(actual, predicted)
	if acc.Error != "" {
		t.Fatalf("unexpected error marker %q", acc.Error)
	}
	wantMAE := (2.0 + 2.0 + 3.0) / 3
	if math.Abs(acc.MAE-wantMAE) > 1e-12 {
		t.Errorf("MAE = %v, want %v", acc.MAE, wantMAE)
	}
	if math.Abs(acc.RMSE-math.Sqrt(acc.MSE)) > 1e-12 {
		t.Errorf("RMSE %v inconsistent with MSE %v", acc.RMSE, acc.MSE)
	}
	if acc.MAPE == nil {
		t.Fatalf("MAPE should be set for nonzero actuals")
	}
}

func TestComputeAccuracySkipsNaNPairs(t *testing.T) {
	actual := []float64{math.NaN(), 10, 20}
	predicted := []float64{5, math.NaN(), 22}

	acc := ComputeAccuracy(actual, predicted)
	if acc.Error != "" {
		t.Fatalf("unexpected error marker %q", acc.Error)
	}
	if math.Abs(acc.MAE-2) > 1e-12 {
		t.Errorf("MAE = %v, want 2 (only the last pair counts)", acc.MAE)
	}
}

func TestComputeAccuracyNoValidPairs(t *testing.T) {
	actual := []float64{math.NaN(), math.NaN()}
	predicted := []float64{1, 2}

	acc := ComputeAccuracy(actual, predicted)
	if acc.Error != "no valid data points for metric calculation" {
		t.Fatalf("error marker = %q", acc.Error)
	}
}

func TestComputeAccuracyMAPENilOnZeroActuals(t *testing.T) {
	actual := []float64{0, 0, 0}
	predicted := []float64{1, 1, 1}

	acc := ComputeAccuracy(actual, predicted)
	if acc.Error != "" {
		t.Fatalf("unexpected error marker %q", acc.Error)
	}
	if acc.MAPE != nil {
		t.Fatalf("MAPE = %v, want nil when every actual is zero", *acc.MAPE)
	}
}

func TestComputeAccuracyTrimsToCommonLength(t *testing.T) {
	actual := []float64{1, 2, 3, 4, 5}
	predicted := []float64{1, 2}

	acc := ComputeAccuracy(actual, predicted)
	if acc.MAE != 0 {
		t.Fatalf("MAE = %v, want 0 over the common prefix", acc.MAE)
	}
}

package forecast

import "math"

// Accuracy holds in-sample error metrics. MAPE is nil when no nonzero
// actuals exist. Error is set instead of the metrics when no valid pairs
// remain after NaN filtering.
type Accuracy struct {
	MAE   float64  `json:"mae"`
	MSE   float64  `json:"mse"`
	RMSE  float64  `json:"rmse"`
	MAPE  *float64 `json:"mape"`
	Error string   `json:"error,omitempty"`
}

// ComputeAccuracy trims actual and predicted to their common length, drops
// pairs where either side is NaN, and computes MAE/MSE/RMSE. MAPE covers only
// points with nonzero actuals.
func ComputeAccuracy(actual, predicted []float64) *Accuracy {
	n := len(actual)
	if len(predicted) < n {
		n = len(predicted)
	}

	var (
		sumAbs, sumSq, sumPct float64
		valid, nonzero        int
	)
	for i := 0; i < n; i++ {
		a, p := actual[i], predicted[i]
		if math.IsNaN(a) || math.IsNaN(p) {
			continue
		}
		diff := a - p
		sumAbs += math.Abs(diff)
		sumSq += diff * diff
		valid++
		if a != 0 {
			sumPct += math.Abs(diff/a) * 100
			nonzero++
		}
	}

	if valid == 0 {
		return &Accuracy{Error: "no valid data points for metric calculation"}
	}

	acc := &Accuracy{
		MAE: sumAbs / float64(valid),
		MSE: sumSq / float64(valid),
	}
	acc.RMSE = math.Sqrt(acc.MSE)
	if nonzero > 0 {
		mape := sumPct / float64(nonzero)
		acc.MAPE = &mape
	}
	return acc
}

package forecast

import (
	"errors"
	"fmt"
	"testing"

	"TSLab/internal/domain/models"
	"TSLab/pkg/logger"
)

func testManager(t *testing.T, caps Capabilities) *Manager {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewManager(l, caps)
}

func trendRecords(n int) []map[string]any {
	records := make([]map[string]any, n)
	for i := range records {
		records[i] = map[string]any{"v": 100 + 2.0*float64(i)}
	}
	return records
}

func TestCreateUnknownModel(t *testing.T) {
	mg := testManager(t, Capabilities{})
	if _, err := mg.Create("gradient_boosting", nil); !errors.Is(err, models.ErrUnknownModel) {
		t.Fatalf("error = %v, want ErrUnknownModel", err)
	}
}

func TestCreateGatedModels(t *testing.T) {
	mg := testManager(t, Capabilities{})
	if _, err := mg.Create("prophet", nil); !errors.Is(err, models.ErrUnknownModel) {
		t.Fatalf("prophet without capability: error = %v, want ErrUnknownModel", err)
	}
	if _, err := mg.Create("lstm", nil); !errors.Is(err, models.ErrUnknownModel) {
		t.Fatalf("lstm without capability: error = %v, want ErrUnknownModel", err)
	}

	enabled := testManager(t, Capabilities{Prophet: true, LSTM: true})
	if _, err := enabled.Create("prophet", nil); err != nil {
		t.Fatalf("prophet with capability: %v", err)
	}
	if _, err := enabled.Create("lstm", map[string]any{"seq_length": 30.0}); err != nil {
		t.Fatalf("lstm with capability: %v", err)
	}
}

func TestCreateHoltWintersAliases(t *testing.T) {
	mg := testManager(t, Capabilities{})
	for _, name := range []string{"holt-winters", "holt_winters"} {
		if _, err := mg.Create(name, nil); err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
	}
}

func TestValidateRules(t *testing.T) {
	mg := testManager(t, Capabilities{})

	cases := []struct {
		name  string
		cfg   Config
		valid bool
	}{
		{"arima default", Config{ModelType: "arima"}, true},
		{"arima bad order length", Config{ModelType: "arima", Parameters: map[string]any{"order": []any{1.0, 1.0}}}, false},
		{"arima negative order", Config{ModelType: "arima", Parameters: map[string]any{"order": []any{-1.0, 1.0, 1.0}}}, false},
		{"sarima default", Config{ModelType: "sarima"}, true},
		{"sarima bad seasonal", Config{ModelType: "sarima", Parameters: map[string]any{"seasonal_order": []any{1.0, 1.0}}}, false},
		{"holt-winters statsmodels names", Config{ModelType: "holt-winters", Parameters: map[string]any{"trend": "additive", "seasonal": "multiplicative"}}, true},
		{"holt-winters bad seasonal", Config{ModelType: "holt-winters", Parameters: map[string]any{"seasonal": "cubic"}}, false},
		{"moving average", Config{ModelType: "moving_average"}, true},
		{"unknown", Config{ModelType: "nope"}, false},
	}
	for _, tc := range cases {
		ok, msg := mg.Validate(&tc.cfg)
		if ok != tc.valid {
			t.Errorf("%s: valid = %v (%s), want %v", tc.name, ok, msg, tc.valid)
		}
		if ok && msg != "configuration is valid" {
			t.Errorf("%s: message = %q", tc.name, msg)
		}
	}
}

func TestFitAndForecastPipeline(t *testing.T) {
	mg := testManager(t, Capabilities{})
	cfg := &Config{ModelType: "arima", ForecastPeriods: 10}

	res, err := mg.FitAndForecast(trendRecords(60), "v", "", cfg)
	if err != nil {
		t.Fatalf("fit and forecast: %v", err)
	}
	if len(res.Forecast) != 10 || len(res.ForecastDates) != 10 {
		t.Fatalf("horizon lengths = %d/%d, want 10", len(res.Forecast), len(res.ForecastDates))
	}
	if len(res.FittedValues) != 60 {
		t.Fatalf("fitted length = %d, want 60", len(res.FittedValues))
	}
	if res.Metrics == nil || res.Metrics.Error != "" {
		t.Fatalf("metrics = %+v", res.Metrics)
	}
	if res.Stationarity == nil {
		t.Fatalf("stationarity sidebar missing")
	}
}

func TestFitAndForecastFloor(t *testing.T) {
	mg := testManager(t, Capabilities{})
	_, err := mg.FitAndForecast(trendRecords(9), "v", "", &Config{ModelType: "arima"})
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("error = %v, want ErrInsufficientData below the 10-point floor", err)
	}
}

func TestFitAndForecastDefaults(t *testing.T) {
	mg := testManager(t, Capabilities{})
	res, err := mg.FitAndForecast(trendRecords(60), "v", "", &Config{ModelType: "moving_average"})
	if err != nil {
		t.Fatalf("fit and forecast: %v", err)
	}
	if len(res.Forecast) != 30 {
		t.Fatalf("default horizon = %d, want 30", len(res.Forecast))
	}
}

func TestFitAndForecastHorizonCeiling(t *testing.T) {
	mg := testManager(t, Capabilities{MaxForecastPeriods: 50})
	_, err := mg.FitAndForecast(trendRecords(60), "v", "", &Config{
		ModelType:       "moving_average",
		ForecastPeriods: 51,
	})
	if !errors.Is(err, models.ErrInvalidParameter) {
		t.Fatalf("error = %v, want ErrInvalidParameter above the horizon ceiling", err)
	}

	res, err := mg.FitAndForecast(trendRecords(60), "v", "", &Config{
		ModelType:       "moving_average",
		ForecastPeriods: 50,
	})
	if err != nil {
		t.Fatalf("fit at the ceiling: %v", err)
	}
	if len(res.Forecast) != 50 {
		t.Fatalf("horizon = %d, want 50", len(res.Forecast))
	}
}

func TestAutoSelectThresholds(t *testing.T) {
	mg := testManager(t, Capabilities{})

	cases := []struct {
		length int
		model  string
	}{
		{10, "arima"},
		{23, "arima"},
		{24, "holt-winters"},
		{49, "holt-winters"},
		{50, "sarima"},
		{500, "sarima"},
	}
	for _, tc := range cases {
		sel := mg.AutoSelect(tc.length)
		if sel.ModelType != tc.model {
			t.Errorf("length %d: model = %q, want %q", tc.length, sel.ModelType, tc.model)
		}
		if sel.Reason == "" {
			t.Errorf("length %d: missing reason", tc.length)
		}
	}

	if got := mg.AutoSelect(10).Reason; got != "insufficient data for seasonal models" {
		t.Errorf("short-series reason = %q", got)
	}
}

func TestCompareRanksByRMSE(t *testing.T) {
	mg := testManager(t, Capabilities{})

	results := []*Result{
		{ModelType: "a", Metrics: &Accuracy{RMSE: 3}},
		{ModelType: "b", Metrics: &Accuracy{RMSE: 1}},
		{ModelType: "broken", Metrics: &Accuracy{Error: "no valid data points for metric calculation"}},
		{ModelType: "c", Metrics: &Accuracy{RMSE: 2}},
		nil,
	}
	cmp := mg.Compare(results)
	if cmp.BestModel != "b" {
		t.Fatalf("best model = %q, want b", cmp.BestModel)
	}
	if len(cmp.Rankings) != 3 {
		t.Fatalf("rankings = %d entries, want 3", len(cmp.Rankings))
	}
	for i, e := range cmp.Rankings {
		if e.Rank != i+1 {
			t.Errorf("rank[%d] = %d", i, e.Rank)
		}
	}
}

func TestCompareStableTies(t *testing.T) {
	mg := testManager(t, Capabilities{})
	results := []*Result{
		{ModelType: "first", Metrics: &Accuracy{RMSE: 1}},
		{ModelType: "second", Metrics: &Accuracy{RMSE: 1}},
	}
	cmp := mg.Compare(results)
	if cmp.Rankings[0].ModelType != "first" || cmp.Rankings[1].ModelType != "second" {
		t.Fatalf("tie broke input order: %v", cmp.Rankings)
	}
}

func TestAvailableModelsReflectCapabilities(t *testing.T) {
	base := testManager(t, Capabilities{})
	full := testManager(t, Capabilities{Prophet: true, LSTM: true})

	if len(base.AvailableModels()) != 4 {
		t.Fatalf("base catalog = %d entries, want 4", len(base.AvailableModels()))
	}
	catalog := full.AvailableModels()
	if len(catalog) != 6 {
		t.Fatalf("full catalog = %d entries, want 6", len(catalog))
	}

	seen := map[string]bool{}
	for _, d := range catalog {
		seen[d.Name] = true
	}
	for _, name := range []string{"arima", "sarima", "holt-winters", "moving_average", "prophet", "lstm"} {
		if !seen[name] {
			t.Errorf("catalog missing %q: %v", name, fmt.Sprint(seen))
		}
	}
}

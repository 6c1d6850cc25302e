package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"TSLab/internal/domain/models"
	"TSLab/internal/forecast"
	pkgcache "TSLab/pkg/cache"
	"TSLab/pkg/logger"
)

// fakeMetrics records calls so tests can assert on instrumentation without a
// Prometheus registry.
type fakeMetrics struct {
	mu           sync.Mutex
	fits         map[string]int
	durations    int
	analyses     map[string]int
	errorsByKind map[string]int
	lookups      map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		fits:         map[string]int{},
		analyses:     map[string]int{},
		errorsByKind: map[string]int{},
		lookups:      map[string]int{},
	}
}

func (m *fakeMetrics) RecordFit(modelType, status string) {
	m.mu.Lock()
	m.fits[modelType+"/"+status]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordFitDuration(string, float64) {
	m.mu.Lock()
	m.durations++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordAnalysis(kind string) {
	m.mu.Lock()
	m.analyses[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errorsByKind[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordCacheLookup(scope string, hit bool) {
	m.mu.Lock()
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.lookups[scope+"/"+outcome]++
	m.mu.Unlock()
}

func testForecaster(t *testing.T, cache pkgcache.Service, m *fakeMetrics) *Forecaster {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	mgr := forecast.NewManager(l, forecast.Capabilities{})
	return NewForecaster(mgr, cache, m, l, 2, 0)
}

func trendRecords(n int) []map[string]any {
	records := make([]map[string]any, n)
	for i := range records {
		records[i] = map[string]any{"v": 100 + 2.0*float64(i)}
	}
	return records
}

func fitRequest(n int) *models.FitRequest {
	return &models.FitRequest{
		Data: models.DataInput{Records: trendRecords(n), ValueColumn: "v"},
		Config: models.ModelConfiguration{
			ModelType:       "moving_average",
			ForecastPeriods: 5,
		},
	}
}

func TestFitRecordsMetrics(t *testing.T) {
	m := newFakeMetrics()
	f := testForecaster(t, nil, m)

	res, err := f.Fit(context.Background(), fitRequest(40))
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(res.Forecast) != 5 {
		t.Fatalf("forecast length = %d, want 5", len(res.Forecast))
	}
	if m.fits["moving_average/ok"] != 1 {
		t.Errorf("fit counter = %v", m.fits)
	}
	if m.durations != 1 {
		t.Errorf("duration observations = %d, want 1", m.durations)
	}
	if len(m.lookups) != 0 {
		t.Errorf("cache lookups recorded without a cache: %v", m.lookups)
	}
}

func TestFitErrorCounted(t *testing.T) {
	m := newFakeMetrics()
	f := testForecaster(t, nil, m)

	req := fitRequest(40)
	req.Config.ModelType = "gradient_boosting"
	if _, err := f.Fit(context.Background(), req); !errors.Is(err, models.ErrUnknownModel) {
		t.Fatalf("error = %v, want ErrUnknownModel", err)
	}
	if m.fits["gradient_boosting/error"] != 1 {
		t.Errorf("fit counter = %v", m.fits)
	}
}

func TestFitCaching(t *testing.T) {
	m := newFakeMetrics()
	cache := pkgcache.NewMemoryCache()
	f := testForecaster(t, cache, m)

	first, err := f.Fit(context.Background(), fitRequest(40))
	if err != nil {
		t.Fatalf("first Fit: %v", err)
	}
	second, err := f.Fit(context.Background(), fitRequest(40))
	if err != nil {
		t.Fatalf("second Fit: %v", err)
	}

	if m.lookups["fit/miss"] != 1 || m.lookups["fit/hit"] != 1 {
		t.Errorf("lookups = %v, want one miss then one hit", m.lookups)
	}
	if m.fits["moving_average/ok"] != 1 {
		t.Errorf("cached request refitted: %v", m.fits)
	}
	if len(second.Forecast) != len(first.Forecast) {
		t.Errorf("cached forecast length differs")
	}
	for i := range first.Forecast {
		if first.Forecast[i] != second.Forecast[i] {
			t.Fatalf("cached forecast diverges at %d", i)
		}
	}
}

func TestCompareRanksAndCapturesErrors(t *testing.T) {
	m := newFakeMetrics()
	f := testForecaster(t, nil, m)

	req := &models.CompareRequest{
		Data: models.DataInput{Records: trendRecords(60), ValueColumn: "v"},
		Configs: []models.ModelConfiguration{
			{ModelType: "arima", ForecastPeriods: 5},
			{ModelType: "moving_average", ForecastPeriods: 5},
			{ModelType: "prophet", ForecastPeriods: 5}, // not enabled
		},
	}

	outcome, err := f.Compare(context.Background(), req)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(outcome.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(outcome.Results))
	}
	if _, ok := outcome.Errors["prophet"]; !ok {
		t.Errorf("prophet failure not captured: %v", outcome.Errors)
	}
	if m.errorsByKind["compare_member"] != 1 {
		t.Errorf("error counter = %v", m.errorsByKind)
	}
	if outcome.Comparison == nil || outcome.Comparison.BestModel == "" {
		t.Fatalf("comparison missing: %+v", outcome.Comparison)
	}
	if len(outcome.Comparison.Rankings) != 2 {
		t.Errorf("rankings = %d, want 2", len(outcome.Comparison.Rankings))
	}
}

func TestCompareAllFail(t *testing.T) {
	m := newFakeMetrics()
	f := testForecaster(t, nil, m)

	req := &models.CompareRequest{
		Data: models.DataInput{Records: trendRecords(60), ValueColumn: "v"},
		Configs: []models.ModelConfiguration{
			{ModelType: "prophet"},
			{ModelType: "lstm"},
		},
	}
	if _, err := f.Compare(context.Background(), req); !errors.Is(err, models.ErrFitting) {
		t.Fatalf("error = %v, want ErrFitting", err)
	}
}

func TestAutoSelectByLength(t *testing.T) {
	f := testForecaster(t, nil, newFakeMetrics())

	sel, err := f.AutoSelect(context.Background(), &models.AutoSelectRequest{
		Data: models.DataInput{Records: trendRecords(20), ValueColumn: "v"},
	})
	if err != nil {
		t.Fatalf("AutoSelect: %v", err)
	}
	if sel.ModelType != "arima" {
		t.Errorf("model = %q, want arima for 20 points", sel.ModelType)
	}
}

func TestValidateDelegates(t *testing.T) {
	f := testForecaster(t, nil, newFakeMetrics())

	res := f.Validate(&models.ModelConfiguration{ModelType: "arima"})
	if !res.Valid || res.Message != "configuration is valid" {
		t.Errorf("result = %+v", res)
	}

	res = f.Validate(&models.ModelConfiguration{ModelType: "nope"})
	if res.Valid {
		t.Errorf("unknown model validated: %+v", res)
	}
}

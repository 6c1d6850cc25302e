package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"TSLab/internal/domain/models"
	pkgcache "TSLab/pkg/cache"
	"TSLab/pkg/logger"
)

func testAnalyzer(t *testing.T, cache pkgcache.Service, m *fakeMetrics) *Analyzer {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewAnalyzer(cache, m, l, 0)
}

func seasonalRecords(n, period int) []map[string]any {
	records := make([]map[string]any, n)
	for i := range records {
		phase := 2 * math.Pi * float64(i%period) / float64(period)
		records[i] = map[string]any{"v": 100 + 0.5*float64(i) + 10*math.Sin(phase)}
	}
	return records
}

func analysisRequest(n int) *models.AnalysisRequest {
	return &models.AnalysisRequest{
		Data: models.DataInput{Records: seasonalRecords(n, 12), ValueColumn: "v"},
	}
}

func TestAnalyzerRecordsKinds(t *testing.T) {
	m := newFakeMetrics()
	a := testAnalyzer(t, nil, m)
	ctx := context.Background()
	req := analysisRequest(96)
	req.Window = 12
	req.Lags = 20
	req.Model = "additive"

	if _, err := a.Stationarity(ctx, req); err != nil {
		t.Fatalf("Stationarity: %v", err)
	}
	if _, err := a.Seasonality(ctx, req); err != nil {
		t.Fatalf("Seasonality: %v", err)
	}
	if _, err := a.Decompose(ctx, req); err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if _, err := a.Autocorrelation(ctx, req); err != nil {
		t.Fatalf("Autocorrelation: %v", err)
	}
	if _, err := a.Rolling(ctx, req); err != nil {
		t.Fatalf("Rolling: %v", err)
	}
	if _, err := a.Outliers(ctx, req); err != nil {
		t.Fatalf("Outliers: %v", err)
	}
	if _, err := a.Suggest(ctx, req); err != nil {
		t.Fatalf("Suggest: %v", err)
	}

	for _, kind := range []string{
		"stationarity", "seasonality", "decompose",
		"acf_pacf", "rolling_stats", "outliers", "suggest",
	} {
		if m.analyses[kind] != 1 {
			t.Errorf("analysis %q recorded %d times, want 1", kind, m.analyses[kind])
		}
	}
}

func TestAnalyzerBadColumn(t *testing.T) {
	m := newFakeMetrics()
	a := testAnalyzer(t, nil, m)
	req := &models.AnalysisRequest{
		Data: models.DataInput{Records: seasonalRecords(48, 12), ValueColumn: "missing"},
	}
	if _, err := a.Stationarity(context.Background(), req); !errors.Is(err, models.ErrDataFormat) {
		t.Fatalf("error = %v, want ErrDataFormat", err)
	}
	if m.errorsByKind["adapt"] != 1 {
		t.Errorf("error counter = %v", m.errorsByKind)
	}
}

func TestComprehensiveCaching(t *testing.T) {
	m := newFakeMetrics()
	a := testAnalyzer(t, pkgcache.NewMemoryCache(), m)
	ctx := context.Background()

	first, err := a.Comprehensive(ctx, analysisRequest(96))
	if err != nil {
		t.Fatalf("first Comprehensive: %v", err)
	}
	if _, ok := first["basic_stats"]; !ok {
		t.Fatalf("report missing basic_stats: %v", first)
	}

	second, err := a.Comprehensive(ctx, analysisRequest(96))
	if err != nil {
		t.Fatalf("second Comprehensive: %v", err)
	}
	if m.lookups["analysis/miss"] != 1 || m.lookups["analysis/hit"] != 1 {
		t.Errorf("lookups = %v, want one miss then one hit", m.lookups)
	}
	if m.analyses["comprehensive"] != 1 {
		t.Errorf("comprehensive recomputed: %v", m.analyses)
	}
	if len(second) != len(first) {
		t.Errorf("cached report shape differs: %d vs %d keys", len(second), len(first))
	}
}

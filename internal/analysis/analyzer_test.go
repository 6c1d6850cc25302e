package analysis

import (
	"math"
	"testing"
)

func TestDescribe(t *testing.T) {
	stats := Describe([]float64{1, 2, 3, 4, 5})
	if stats.Count != 5 {
		t.Fatalf("count = %d", stats.Count)
	}
	if stats.Mean != 3 || stats.Median != 3 {
		t.Fatalf("mean=%v median=%v, want 3", stats.Mean, stats.Median)
	}
	if stats.Min != 1 || stats.Max != 5 {
		t.Fatalf("min=%v max=%v", stats.Min, stats.Max)
	}
	if stats.Q1 != 2 || stats.Q3 != 4 {
		t.Fatalf("q1=%v q3=%v", stats.Q1, stats.Q3)
	}
	want := math.Sqrt(2.5)
	if math.Abs(stats.Std-want) > 1e-12 {
		t.Fatalf("std = %v, want %v", stats.Std, want)
	}
}

func TestDescribeEmpty(t *testing.T) {
	stats := Describe(nil)
	if stats.Count != 0 {
		t.Fatalf("count = %d", stats.Count)
	}
}

func TestComprehensiveFullReport(t *testing.T) {
	report := Comprehensive(seasonalTrend(96, 12))
	for _, key := range []string{
		"basic_stats", "stationarity", "seasonality",
		"decomposition", "autocorrelation", "outliers", "suggestions",
	} {
		if _, ok := report[key]; !ok {
			t.Errorf("report missing %q", key)
		}
	}
	if _, failed := report["seasonality"].(map[string]any); failed {
		t.Errorf("seasonality fragment failed on a long series: %v", report["seasonality"])
	}
}

func TestComprehensiveIsolatesFailures(t *testing.T) {
	// 15 points: too short for seasonality and suggestions, long enough for
	// the rest. Failures must degrade into error fragments.
	report := Comprehensive(seasonalTrend(15, 4))

	frag, ok := report["seasonality"].(map[string]any)
	if !ok {
		t.Fatalf("seasonality fragment = %T, want error map", report["seasonality"])
	}
	if frag["error"] == "" {
		t.Fatalf("seasonality error fragment is empty")
	}

	if _, ok := report["suggestions"].(map[string]any); !ok {
		t.Fatalf("suggestions fragment = %T, want error map", report["suggestions"])
	}

	if _, ok := report["basic_stats"].(*BasicStats); !ok {
		t.Fatalf("basic_stats fragment = %T", report["basic_stats"])
	}
	if _, ok := report["outliers"].(*OutlierResult); !ok {
		t.Fatalf("outliers fragment = %T, should succeed on 15 points", report["outliers"])
	}
}

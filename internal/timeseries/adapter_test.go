package timeseries

import (
	"errors"
	"strings"
	"testing"
	"time"

	"TSLab/internal/domain/models"
)

func TestFromRecordsMissingColumn(t *testing.T) {
	records := []map[string]any{{"a": 1.0}}
	if _, err := FromRecords(records, "b", ""); !errors.Is(err, models.ErrDataFormat) {
		t.Fatalf("error = %v, want ErrDataFormat", err)
	}
}

func TestFromRecordsNumericStrings(t *testing.T) {
	records := []map[string]any{
		{"v": "1.5"},
		{"v": 2.5},
		{"v": "not a number"},
	}
	s, err := FromRecords(records, "v", "")
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("length = %d, want 2 (unparsable row dropped)", s.Len())
	}
	if s.Values[0] != 1.5 || s.Values[1] != 2.5 {
		t.Fatalf("values = %v", s.Values)
	}
}

func TestFromRecordsSortsAndDeduplicates(t *testing.T) {
	records := []map[string]any{
		{"date": "2024-01-03", "v": 3.0},
		{"date": "2024-01-01", "v": 1.0},
		{"date": "2024-01-02", "v": 2.0},
		{"date": "2024-01-02", "v": 20.0},
	}
	s, err := FromRecords(records, "v", "date")
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("length = %d, want 3 after dedup", s.Len())
	}
	want := []float64{1, 20, 3}
	for i, v := range want {
		if s.Values[i] != v {
			t.Errorf("values[%d] = %v, want %v (sorted, last duplicate wins)", i, s.Values[i], v)
		}
	}
}

func TestFromRecordsDropsBrokenTimeAxis(t *testing.T) {
	records := []map[string]any{
		{"date": "2024-01-01", "v": 1.0},
		{"date": "garbage", "v": 2.0},
	}
	s, err := FromRecords(records, "v", "date")
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if s.HasTimestamps() {
		t.Fatalf("expected no time axis when a timestamp fails to parse")
	}
	if s.Len() != 2 {
		t.Fatalf("length = %d, want 2", s.Len())
	}
}

func TestStepRegular(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Series{
		Values:     []float64{1, 2, 3},
		Timestamps: []time.Time{base, base.AddDate(0, 0, 1), base.AddDate(0, 0, 2)},
	}
	step, ok := s.Step()
	if !ok || step != 24*time.Hour {
		t.Fatalf("step = %v ok=%v, want 24h", step, ok)
	}
}

func TestForecastLabelsWithDates(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Series{
		Values:     []float64{1, 2},
		Timestamps: []time.Time{base, base.AddDate(0, 0, 1)},
	}
	labels := s.ForecastLabels(2)
	if labels[0] != "2024-01-03" || labels[1] != "2024-01-04" {
		t.Fatalf("labels = %v", labels)
	}
}

func TestForecastLabelsWithoutDates(t *testing.T) {
	s := New([]float64{1, 2, 3})
	labels := s.ForecastLabels(2)
	if labels[0] != "Period 4" || labels[1] != "Period 5" {
		t.Fatalf("labels = %v", labels)
	}
	for _, l := range labels {
		if !strings.HasPrefix(l, "Period ") {
			t.Errorf("label %q lacks the ordinal prefix", l)
		}
	}
}

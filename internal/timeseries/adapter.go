package timeseries

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"TSLab/internal/domain/models"
	xutil "TSLab/pkg/util"
)

// dateLayout is the format used for forecast date labels.
const dateLayout = "2006-01-02"

// FromRecords builds a Series from a list of row maps. Values are taken from
// valueColumn (numbers or numeric strings); rows with a missing or unparsable
// value are dropped. When timeColumn is set, rows are sorted by the parsed
// timestamp and duplicate timestamps keep the last occurrence.
func FromRecords(records []map[string]any, valueColumn, timeColumn string) (*Series, error) {
	if len(records) == 0 || valueColumn == "" {
		return nil, fmt.Errorf("%w: records and value_column are required", models.ErrDataFormat)
	}

	type row struct {
		value float64
		ts    time.Time
		hasTS bool
	}

	rows := make([]row, 0, len(records))
	sawColumn := false
	for _, rec := range records {
		raw, ok := rec[valueColumn]
		if !ok {
			continue
		}
		sawColumn = true

		v, ok := toFloat(raw)
		if !ok || math.IsNaN(v) {
			continue
		}

		r := row{value: v}
		if timeColumn != "" {
			if ts, ok := parseTimestamp(rec[timeColumn]); ok {
				r.ts = ts
				r.hasTS = true
			}
		}
		rows = append(rows, r)
	}

	if !sawColumn {
		return nil, fmt.Errorf("%w: value column %q not present in records", models.ErrDataFormat, valueColumn)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no usable values in column %q", models.ErrDataFormat, valueColumn)
	}

	// A time axis is only kept when every surviving row parsed a timestamp.
	timed := timeColumn != ""
	for _, r := range rows {
		if !r.hasTS {
			timed = false
			break
		}
	}

	if timed {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].ts.Before(rows[j].ts) })

		deduped := rows[:0]
		for _, r := range rows {
			if len(deduped) > 0 && deduped[len(deduped)-1].ts.Equal(r.ts) {
				deduped[len(deduped)-1] = r
				continue
			}
			deduped = append(deduped, r)
		}
		rows = deduped
	}

	s := &Series{
		Values: make([]float64, len(rows)),
		Name:   valueColumn,
	}
	if timed {
		s.Timestamps = make([]time.Time, len(rows))
	}
	for i, r := range rows {
		s.Values[i] = r.value
		if timed {
			s.Timestamps[i] = r.ts
		}
	}
	return s, nil
}

// Step returns the regular spacing of the time axis, or false when the series
// has no timestamps or the spacing is irregular.
func (s *Series) Step() (time.Duration, bool) {
	if !s.HasTimestamps() || len(s.Timestamps) < 2 {
		return 0, false
	}

	step := s.Timestamps[1].Sub(s.Timestamps[0])
	if step <= 0 {
		return 0, false
	}
	for i := 2; i < len(s.Timestamps); i++ {
		if s.Timestamps[i].Sub(s.Timestamps[i-1]) != step {
			return 0, false
		}
	}
	return step, true
}

// ForecastLabels produces date labels for the next `periods` points. With a
// regular time step the last date is extrapolated forward; otherwise labels
// are synthetic ordinals continuing the observation count.
func (s *Series) ForecastLabels(periods int) []string {
	labels := make([]string, periods)

	if step, ok := s.Step(); ok {
		last := s.Timestamps[len(s.Timestamps)-1]
		for i := 0; i < periods; i++ {
			last = last.Add(step)
			labels[i] = last.Format(dateLayout)
		}
		return labels
	}

	for i := 0; i < periods; i++ {
		labels[i] = fmt.Sprintf("Period %d", s.Len()+i+1)
	}
	return labels
}

// Labels returns a display label per observation: formatted dates when the
// series is timed, ordinal indices otherwise.
func (s *Series) Labels() []string {
	labels := make([]string, s.Len())
	for i := range labels {
		if s.HasTimestamps() {
			labels[i] = s.Timestamps[i].Format(dateLayout)
		} else {
			labels[i] = strconv.Itoa(i)
		}
	}
	return labels
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// parseTimestamp accepts RFC3339, plain dates, and unix seconds.
func parseTimestamp(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		if t, ok := xutil.ParseTime(x); ok {
			return t, true
		}
		for _, layout := range []string{dateLayout, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, x); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case float64:
		if x <= 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(x), 0).UTC(), true
	case int64:
		if x <= 0 {
			return time.Time{}, false
		}
		return time.Unix(x, 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

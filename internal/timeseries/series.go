// Package timeseries provides the ordered numeric sequence the models and
// diagnostics operate on, plus the adapter that builds it from raw records.
package timeseries

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Series is an ordered sequence of observations. Timestamps is either empty or
// has the same length as Values with strictly increasing entries.
type Series struct {
	Values     []float64
	Timestamps []time.Time
	Name       string
}

// New creates a series from plain values with no time axis.
func New(values []float64) *Series {
	return &Series{Values: values}
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Values)
}

// HasTimestamps reports whether the series carries a real time axis.
func (s *Series) HasTimestamps() bool {
	return len(s.Timestamps) == len(s.Values) && len(s.Timestamps) > 0
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Std calculates the sample standard deviation.
func (s *Series) Std() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.StdDev(s.Values, nil)
}

// Variance calculates the sample variance.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Min returns the smallest value.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	min := s.Values[0]
	for _, v := range s.Values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	max := s.Values[0]
	for _, v := range s.Values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Median returns the middle value.
func (s *Series) Median() float64 {
	return s.Quantile(0.5)
}

// Quantile returns the empirical quantile at p in [0,1].
func (s *Series) Quantile(p float64) float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Diff calculates the first difference of the series.
func (s *Series) Diff() *Series {
	return s.DiffN(1)
}

// DiffN calculates the lag-n difference of the series.
func (s *Series) DiffN(n int) *Series {
	if n <= 0 || len(s.Values) <= n {
		return &Series{Values: []float64{}}
	}

	values := make([]float64, len(s.Values)-n)
	for i := n; i < len(s.Values); i++ {
		values[i-n] = s.Values[i] - s.Values[i-n]
	}

	out := &Series{Values: values, Name: s.Name}
	if s.HasTimestamps() {
		out.Timestamps = append([]time.Time(nil), s.Timestamps[n:]...)
	}
	return out
}

// SeasonalDiff calculates the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	return s.DiffN(m)
}

// MovingAverage calculates a trailing simple moving average. The first
// window-1 positions are NaN, mirroring a rolling-window warm-up.
func (s *Series) MovingAverage(window int) []float64 {
	out := make([]float64, len(s.Values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || window > len(s.Values) {
		return out
	}

	sum := 0.0
	for i, v := range s.Values {
		sum += v
		if i >= window {
			sum -= s.Values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// Tail returns the last n values (all values when n exceeds the length).
func (s *Series) Tail(n int) []float64 {
	if n >= len(s.Values) {
		n = len(s.Values)
	}
	return s.Values[len(s.Values)-n:]
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	out := &Series{
		Values: append([]float64(nil), s.Values...),
		Name:   s.Name,
	}
	if len(s.Timestamps) > 0 {
		out.Timestamps = append([]time.Time(nil), s.Timestamps...)
	}
	return out
}

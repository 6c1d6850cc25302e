package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"TSLab/internal/domain/models"
	applogger "TSLab/pkg/logger"
)

// Service turns uploaded CSV files and raw record lists into datasets with
// detected columns and preprocessing suggestions.
type Service struct {
	log *applogger.Logger
}

func NewService(log *applogger.Logger) *Service {
	return &Service{log: log}
}

// UploadReport is the response to a dataset upload: the parsed records plus
// what the service inferred about them.
type UploadReport struct {
	Records                  []map[string]any `json:"records"`
	Columns                  []models.ColumnInfo `json:"columns"`
	RowCount                 int              `json:"row_count"`
	SuggestedTimeColumn      string           `json:"suggested_time_column,omitempty"`
	SuggestedValueColumns    []string         `json:"suggested_value_columns"`
	PreprocessingSuggestions *Preprocessing   `json:"preprocessing_suggestions"`
}

// Preprocessing lists data-quality observations about an upload.
type Preprocessing struct {
	MissingData map[string]int `json:"missing_data,omitempty"`
	Outliers    map[string]int `json:"outliers,omitempty"`
	Suggested   string         `json:"suggested_method,omitempty"`
}

// ParseCSV reads a CSV payload into records, keeping numeric cells as
// float64 and everything else as string. Empty cells become nil.
func (s *Service) ParseCSV(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read CSV header: %v", models.ErrDataFormat, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []map[string]any
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed CSV row: %v", models.ErrDataFormat, err)
		}
		rec := make(map[string]any, len(header))
		for i, col := range header {
			if i >= len(row) {
				rec[col] = nil
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				rec[col] = nil
				continue
			}
			if f, err := strconv.ParseFloat(cell, 64); err == nil {
				rec[col] = f
			} else {
				rec[col] = cell
			}
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: CSV contains no data rows", models.ErrDataFormat)
	}
	return records, nil
}

// ParseCSVBytes is ParseCSV over an in-memory payload.
func (s *Service) ParseCSVBytes(b []byte) ([]map[string]any, error) {
	return s.ParseCSV(bytes.NewReader(b))
}

// Inspect detects column kinds, suggests time/value columns, and reports
// preprocessing observations for a record list.
func (s *Service) Inspect(records []map[string]any) (*UploadReport, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", models.ErrDataFormat)
	}

	names := columnNames(records)
	columns := make([]models.ColumnInfo, 0, len(names))
	var timeCols, valueCols []string

	for _, name := range names {
		info := classifyColumn(records, name)
		columns = append(columns, info)
		switch info.Kind {
		case "datetime":
			timeCols = append(timeCols, name)
		case "numeric":
			valueCols = append(valueCols, name)
		}
	}

	report := &UploadReport{
		Records:                  records,
		Columns:                  columns,
		RowCount:                 len(records),
		SuggestedValueColumns:    valueCols,
		PreprocessingSuggestions: s.preprocessing(records, columns),
	}
	if len(timeCols) > 0 {
		report.SuggestedTimeColumn = timeCols[0]
	}
	if report.SuggestedValueColumns == nil {
		report.SuggestedValueColumns = []string{}
	}

	if s.log != nil {
		s.log.Debug("dataset inspected",
			applogger.Int("rows", report.RowCount),
			applogger.Int("columns", len(columns)))
	}
	return report, nil
}

func (s *Service) preprocessing(records []map[string]any, columns []models.ColumnInfo) *Preprocessing {
	p := &Preprocessing{}

	for _, col := range columns {
		if col.NullCount > 0 {
			if p.MissingData == nil {
				p.MissingData = map[string]int{}
			}
			p.MissingData[col.Name] = col.NullCount
		}
	}
	if p.MissingData != nil {
		p.Suggested = "interpolation"
	}

	for _, col := range columns {
		if col.Kind != "numeric" {
			continue
		}
		values := numericColumn(records, col.Name)
		if len(values) < 4 {
			continue
		}
		if n := iqrOutlierCount(values); n > 0 {
			if p.Outliers == nil {
				p.Outliers = map[string]int{}
			}
			p.Outliers[col.Name] = n
		}
	}
	return p
}

func columnNames(records []map[string]any) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, rec := range records {
		for k := range rec {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return names
}

var timeNameHints = []string{"date", "time", "year", "month", "day"}

func classifyColumn(records []map[string]any, name string) models.ColumnInfo {
	info := models.ColumnInfo{Name: name, SampleSize: len(records)}

	lower := strings.ToLower(name)
	nameSuggestsTime := false
	for _, hint := range timeNameHints {
		if strings.Contains(lower, hint) {
			nameSuggestsTime = true
			break
		}
	}

	numeric, datetime, text := 0, 0, 0
	for _, rec := range records {
		v, ok := rec[name]
		if !ok || v == nil {
			info.NullCount++
			continue
		}
		switch val := v.(type) {
		case float64, float32, int, int64:
			numeric++
		case string:
			if _, err := time.Parse("2006-01-02", val); err == nil {
				datetime++
			} else if _, err := time.Parse(time.RFC3339, val); err == nil {
				datetime++
			} else if _, err := time.Parse("2006-01-02 15:04:05", val); err == nil {
				datetime++
			} else {
				text++
			}
		default:
			text++
		}
	}

	switch {
	case datetime > 0 && datetime >= numeric && datetime >= text:
		info.Kind = "datetime"
	case numeric > 0 && numeric >= text:
		if nameSuggestsTime {
			// Numeric year/month style columns index time, not values.
			info.Kind = "datetime"
		} else {
			info.Kind = "numeric"
		}
	default:
		info.Kind = "text"
	}
	return info
}

func numericColumn(records []map[string]any, name string) []float64 {
	out := make([]float64, 0, len(records))
	for _, rec := range records {
		switch v := rec[name].(type) {
		case float64:
			out = append(out, v)
		case float32:
			out = append(out, float64(v))
		case int:
			out = append(out, float64(v))
		case int64:
			out = append(out, float64(v))
		}
	}
	return out
}

func iqrOutlierCount(values []float64) int {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)
	iqr := q3 - q1

	count := 0
	for _, v := range values {
		if v < q1-1.5*iqr || v > q3+1.5*iqr {
			count++
		}
	}
	return count
}

func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := q * float64(len(sorted)-1)
	i := int(idx)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := idx - float64(i)
	return sorted[i]*(1-frac) + sorted[i+1]*frac
}

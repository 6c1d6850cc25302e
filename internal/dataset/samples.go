package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"TSLab/internal/domain/models"
)

// SampleInfo describes one built-in sample dataset.
type SampleInfo struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Columns      []string `json:"columns"`
	Rows         int      `json:"rows"`
	TimeColumn   string   `json:"time_column"`
	ValueColumns []string `json:"value_columns"`
}

// SampleCatalog lists the generated datasets available for experimentation.
func (s *Service) SampleCatalog() []SampleInfo {
	return []SampleInfo{
		{
			Name:         "stock_prices",
			Description:  "Daily synthetic stock prices following a random walk",
			Columns:      []string{"Date", "AAPL", "GOOGL", "MSFT"},
			Rows:         730,
			TimeColumn:   "Date",
			ValueColumns: []string{"AAPL", "GOOGL", "MSFT"},
		},
		{
			Name:         "air_quality",
			Description:  "Daily air quality with a yearly seasonal cycle",
			Columns:      []string{"Date", "PM2.5", "PM10", "NO2"},
			Rows:         730,
			TimeColumn:   "Date",
			ValueColumns: []string{"PM2.5", "PM10", "NO2"},
		},
		{
			Name:         "sales_data",
			Description:  "Monthly retail sales with trend and seasonality",
			Columns:      []string{"Date", "Sales"},
			Rows:         60,
			TimeColumn:   "Date",
			ValueColumns: []string{"Sales"},
		},
	}
}

// GenerateSample builds the named sample dataset with a fixed seed so every
// call returns the same records.
func (s *Service) GenerateSample(name string) ([]map[string]any, error) {
	rng := rand.New(rand.NewSource(42))
	switch name {
	case "stock_prices":
		return stockPrices(rng), nil
	case "air_quality":
		return airQuality(rng), nil
	case "sales_data":
		return salesData(rng), nil
	}
	return nil, fmt.Errorf("%w: sample dataset %q", models.ErrDatasetNotFound, name)
}

func stockPrices(rng *rand.Rand) []map[string]any {
	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := 730

	walk := func(initial, volatility, drift float64) []float64 {
		prices := make([]float64, days)
		prices[0] = initial
		for i := 1; i < days; i++ {
			change := rng.NormFloat64()*volatility + drift
			prices[i] = prices[i-1] * (1 + change)
		}
		return prices
	}

	aapl := walk(150, 0.02, 0.0003)
	googl := walk(2000, 0.025, 0.0002)
	msft := walk(300, 0.02, 0.0004)

	records := make([]map[string]any, days)
	for i := 0; i < days; i++ {
		records[i] = map[string]any{
			"Date":  start.AddDate(0, 0, i).Format("2006-01-02"),
			"AAPL":  aapl[i],
			"GOOGL": googl[i],
			"MSFT":  msft[i],
		}
	}
	return records
}

func airQuality(rng *rand.Rand) []map[string]any {
	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := 730

	records := make([]map[string]any, days)
	for i := 0; i < days; i++ {
		phase := 2 * math.Pi * float64(i%365) / 365
		pm25 := math.Max(50+20*math.Sin(phase)+rng.NormFloat64()*10, 0)
		pm10 := math.Max(80+30*math.Sin(phase)+rng.NormFloat64()*15, 0)
		no2 := math.Max(40+15*math.Cos(phase)+rng.NormFloat64()*8, 0)
		records[i] = map[string]any{
			"Date":  start.AddDate(0, 0, i).Format("2006-01-02"),
			"PM2.5": pm25,
			"PM10":  pm10,
			"NO2":   no2,
		}
	}
	return records
}

func salesData(rng *rand.Rand) []map[string]any {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	months := 60

	records := make([]map[string]any, months)
	for i := 0; i < months; i++ {
		trend := 1000 + 15*float64(i)
		season := 200 * math.Sin(2*math.Pi*float64(i%12)/12)
		records[i] = map[string]any{
			"Date":  start.AddDate(0, i, 0).Format("2006-01-02"),
			"Sales": trend + season + rng.NormFloat64()*50,
		}
	}
	return records
}

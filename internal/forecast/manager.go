package forecast

import (
	"fmt"
	"sort"
	"time"

	"TSLab/internal/analysis"
	"TSLab/internal/domain/models"
	"TSLab/internal/timeseries"
	"TSLab/pkg/logger"
)

// minSeriesLength is the floor enforced before any fit is attempted.
const minSeriesLength = 10

// Config selects a model and its fit/forecast parameters.
type Config struct {
	ModelType          string         `json:"model_type"`
	Parameters         map[string]any `json:"parameters"`
	ForecastPeriods    int            `json:"forecast_periods"`
	ConfidenceInterval float64        `json:"confidence_interval"`
}

// Capabilities gates the optional model types and the forecast horizon
// ceiling. A MaxForecastPeriods of zero means no ceiling.
type Capabilities struct {
	Prophet            bool
	LSTM               bool
	MaxForecastPeriods int
}

// Manager owns the model registry and the fit-and-forecast pipeline. Model
// instances are created fresh per call, so a single Manager is safe for
// concurrent use.
type Manager struct {
	log  *logger.Logger
	caps Capabilities
}

func NewManager(log *logger.Logger, caps Capabilities) *Manager {
	return &Manager{log: log, caps: caps}
}

// Create instantiates a model variant by registry name.
func (mg *Manager) Create(modelType string, params map[string]any) (Model, error) {
	switch modelType {
	case "arima":
		order := intSlice(params, "order", []int{1, 1, 1})
		if len(order) != 3 {
			return nil, fmt.Errorf("%w: arima order must have 3 elements", models.ErrInvalidParameter)
		}
		return NewARIMA(order[0], order[1], order[2]), nil

	case "sarima":
		order := intSlice(params, "order", []int{1, 1, 1})
		seasonal := intSlice(params, "seasonal_order", []int{1, 1, 1, 12})
		if len(order) != 3 || len(seasonal) != 4 {
			return nil, fmt.Errorf("%w: sarima needs order of 3 and seasonal_order of 4", models.ErrInvalidParameter)
		}
		return NewSARIMA(order[0], order[1], order[2], seasonal[0], seasonal[1], seasonal[2], seasonal[3]), nil

	case "holt-winters", "holt_winters":
		trend := componentType(stringParam(params, "trend", "add"))
		seasonal := componentType(stringParam(params, "seasonal", "add"))
		period := intParam(params, "seasonal_periods", 12)
		return NewHoltWinters(trend, seasonal, period), nil

	case "moving_average":
		return NewMovingAverage(intParam(params, "window", 12)), nil

	case "prophet":
		if !mg.caps.Prophet {
			return nil, fmt.Errorf("%w: prophet support is not enabled", models.ErrUnknownModel)
		}
		return NewProphet(), nil

	case "lstm":
		if !mg.caps.LSTM {
			return nil, fmt.Errorf("%w: lstm support is not enabled", models.ErrUnknownModel)
		}
		net := NewSequenceNetwork()
		if l := intParam(params, "seq_length", 0); l > 0 {
			net.SeqLength = l
		}
		return net, nil
	}
	return nil, fmt.Errorf("%w: %q", models.ErrUnknownModel, modelType)
}

// Validate applies the per-model configuration rules without fitting anything.
func (mg *Manager) Validate(cfg *Config) (bool, string) {
	switch cfg.ModelType {
	case "arima":
		order := intSlice(cfg.Parameters, "order", []int{1, 1, 1})
		if len(order) != 3 {
			return false, "arima order must have exactly 3 elements (p, d, q)"
		}
		for _, v := range order {
			if v < 0 {
				return false, "arima order values must be non-negative"
			}
		}
	case "sarima":
		if len(intSlice(cfg.Parameters, "order", []int{1, 1, 1})) != 3 {
			return false, "sarima order must have exactly 3 elements"
		}
		if len(intSlice(cfg.Parameters, "seasonal_order", []int{1, 1, 1, 12})) != 4 {
			return false, "sarima seasonal_order must have exactly 4 elements"
		}
	case "holt-winters", "holt_winters":
		trend := componentType(stringParam(cfg.Parameters, "trend", "add"))
		if trend != "add" && trend != "mul" && trend != "none" {
			return false, "holt-winters trend must be additive, multiplicative or none"
		}
		seasonal := componentType(stringParam(cfg.Parameters, "seasonal", "add"))
		if seasonal != "add" && seasonal != "mul" {
			return false, "holt-winters seasonal must be additive or multiplicative"
		}
	case "moving_average", "prophet", "lstm":
		// No structural rules beyond registry membership.
	default:
		return false, fmt.Sprintf("unknown model type %q", cfg.ModelType)
	}
	return true, "configuration is valid"
}

// FitAndForecast runs the full pipeline: adapt records into a series, fit the
// configured model, forecast, score the fit, and label the horizon.
func (mg *Manager) FitAndForecast(records []map[string]any, valueColumn, timeColumn string, cfg *Config) (*Result, error) {
	series, err := timeseries.FromRecords(records, valueColumn, timeColumn)
	if err != nil {
		return nil, err
	}
	if series.Len() < minSeriesLength {
		return nil, fmt.Errorf("%w: need at least %d points, have %d",
			models.ErrInsufficientData, minSeriesLength, series.Len())
	}

	periods := cfg.ForecastPeriods
	if periods <= 0 {
		periods = 30
	}
	if mg.caps.MaxForecastPeriods > 0 && periods > mg.caps.MaxForecastPeriods {
		return nil, fmt.Errorf("%w: forecast_periods %d exceeds the limit of %d",
			models.ErrInvalidParameter, periods, mg.caps.MaxForecastPeriods)
	}
	confidence := cfg.ConfidenceInterval
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	model, err := mg.Create(cfg.ModelType, cfg.Parameters)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := model.Fit(series); err != nil {
		return nil, err
	}
	mg.log.Debug("model fit complete",
		logger.String("model_type", cfg.ModelType),
		logger.Int("points", series.Len()),
		logger.Duration("took", time.Since(start)))

	interval, err := model.Forecast(periods, confidence)
	if err != nil {
		return nil, err
	}

	fitted, err := model.FittedValues()
	if err != nil {
		return nil, err
	}

	result := &Result{
		ModelType:     cfg.ModelType,
		FittedValues:  fitted,
		Forecast:      interval.Forecast,
		ForecastLower: interval.Lower,
		ForecastUpper: interval.Upper,
		ForecastDates: series.ForecastLabels(periods),
		Metrics:       ComputeAccuracy(series.Values, fitted),
		ModelInfo:     model.Info(),
		Stationarity:  stationaritySidebar(series),
	}
	return result, nil
}

// stationaritySidebar reports the ADF view of the input and how many rounds
// of differencing (max 2) it takes to reach stationarity.
func stationaritySidebar(s *timeseries.Series) *StationaritySidebar {
	adf, err := analysis.ADFTest(s.Values)
	if err != nil {
		return nil
	}

	sidebar := &StationaritySidebar{
		IsStationary: adf.IsStationary,
		ADFStatistic: adf.Statistic,
		ADFPValue:    adf.PValue,
	}
	if adf.IsStationary {
		return sidebar
	}

	sidebar.NeedsDifferencing = true
	diffed := s
	for i := 1; i <= 2; i++ {
		diffed = diffed.Diff()
		sidebar.NumDifferences = i
		res, err := analysis.ADFTest(diffed.Values)
		if err != nil || res.IsStationary {
			break
		}
	}
	return sidebar
}

// ComparisonEntry is one ranked row of a model comparison.
type ComparisonEntry struct {
	ModelType string  `json:"model_type"`
	RMSE      float64 `json:"rmse"`
	Rank      int     `json:"rank"`
}

// Comparison ranks already-computed results by RMSE.
type Comparison struct {
	Rankings  []ComparisonEntry `json:"rankings"`
	BestModel string            `json:"best_model,omitempty"`
}

// Compare ranks results ascending by RMSE. Results without a valid RMSE are
// excluded; ties keep input order.
func (mg *Manager) Compare(results []*Result) *Comparison {
	var entries []ComparisonEntry
	for _, r := range results {
		if r == nil || r.Metrics == nil || r.Metrics.Error != "" {
			continue
		}
		entries = append(entries, ComparisonEntry{ModelType: r.ModelType, RMSE: r.Metrics.RMSE})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].RMSE < entries[j].RMSE })

	cmp := &Comparison{Rankings: entries}
	for i := range cmp.Rankings {
		cmp.Rankings[i].Rank = i + 1
	}
	if len(cmp.Rankings) > 0 {
		cmp.BestModel = cmp.Rankings[0].ModelType
	}
	return cmp
}

// Selection is the outcome of the length-based auto-select heuristic.
type Selection struct {
	ModelType  string         `json:"model_type"`
	Parameters map[string]any `json:"parameters"`
	Reason     string         `json:"reason"`
}

// AutoSelect picks a model purely from the series length.
func (mg *Manager) AutoSelect(length int) *Selection {
	switch {
	case length < 24:
		return &Selection{
			ModelType:  "arima",
			Parameters: map[string]any{"order": []int{1, 1, 1}},
			Reason:     "insufficient data for seasonal models",
		}
	case length < 50:
		return &Selection{
			ModelType: "holt-winters",
			Parameters: map[string]any{
				"trend": "add", "seasonal": "add", "seasonal_periods": 12,
			},
			Reason: "moderate data length suits exponential smoothing with seasonality",
		}
	default:
		return &Selection{
			ModelType: "sarima",
			Parameters: map[string]any{
				"order": []int{1, 1, 1}, "seasonal_order": []int{1, 1, 1, 12},
			},
			Reason: "sufficient data for seasonal ARIMA",
		}
	}
}

// ModelDescriptor describes one registry entry for the catalog endpoint.
type ModelDescriptor struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters"`
	SuitableFor string   `json:"suitable_for"`
}

// AvailableModels returns the catalog of registered model types.
func (mg *Manager) AvailableModels() []ModelDescriptor {
	catalog := []ModelDescriptor{
		{
			Name:        "arima",
			Description: "Autoregressive integrated moving average",
			Parameters:  []string{"order"},
			SuitableFor: "univariate series with trend, no strong seasonality",
		},
		{
			Name:        "sarima",
			Description: "Seasonal ARIMA",
			Parameters:  []string{"order", "seasonal_order"},
			SuitableFor: "series with both trend and seasonality",
		},
		{
			Name:        "holt-winters",
			Description: "Triple exponential smoothing",
			Parameters:  []string{"trend", "seasonal", "seasonal_periods"},
			SuitableFor: "series with stable trend and seasonal pattern",
		},
		{
			Name:        "moving_average",
			Description: "Constant forecast at the mean of the last window",
			Parameters:  []string{"window"},
			SuitableFor: "short horizons and baseline comparisons",
		},
	}
	if mg.caps.Prophet {
		catalog = append(catalog, ModelDescriptor{
			Name:        "prophet",
			Description: "Additive trend plus Fourier seasonality over a dated index",
			Parameters:  []string{},
			SuitableFor: "daily data with calendar effects",
		})
	}
	if mg.caps.LSTM {
		catalog = append(catalog, ModelDescriptor{
			Name:        "lstm",
			Description: "Recurrent sequence network over sliding windows",
			Parameters:  []string{"seq_length"},
			SuitableFor: "long series with non-linear structure",
		})
	}
	return catalog
}

// componentType normalizes statsmodels-style names to the short forms.
func componentType(v string) string {
	switch v {
	case "additive":
		return "add"
	case "multiplicative":
		return "mul"
	}
	return v
}

func intParam(params map[string]any, key string, def int) int {
	if params == nil {
		return def
	}
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

func stringParam(params map[string]any, key, def string) string {
	if params == nil {
		return def
	}
	if s, ok := params[key].(string); ok && s != "" {
		return s
	}
	return def
}

func intSlice(params map[string]any, key string, def []int) []int {
	if params == nil {
		return def
	}
	switch v := params[key].(type) {
	case []int:
		return v
	case []any:
		out := make([]int, 0, len(v))
		for _, e := range v {
			switch n := e.(type) {
			case int:
				out = append(out, n)
			case float64:
				out = append(out, int(n))
			default:
				return def
			}
		}
		return out
	}
	return def
}

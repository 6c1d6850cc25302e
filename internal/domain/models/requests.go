package models

// DataInput is the record-oriented payload every forecasting and analysis
// endpoint accepts.
type DataInput struct {
	Records     []map[string]any `json:"records" validate:"required,min=1"`
	ValueColumn string           `json:"value_column" validate:"required"`
	TimeColumn  string           `json:"time_column,omitempty"`
}

// ModelConfiguration selects a model and its parameters.
type ModelConfiguration struct {
	ModelType          string         `json:"model_type" validate:"required"`
	Parameters         map[string]any `json:"parameters,omitempty"`
	ForecastPeriods    int            `json:"forecast_periods,omitempty" default:"30" validate:"omitempty,min=1,max=365"`
	ConfidenceInterval float64        `json:"confidence_interval,omitempty" default:"0.95" validate:"omitempty,gt=0,lt=1"`
}

// FitRequest fits one model against one dataset.
type FitRequest struct {
	Data   DataInput          `json:"data" validate:"required"`
	Config ModelConfiguration `json:"model_configuration" validate:"required"`
}

// CompareRequest fits several configurations against the same dataset and
// ranks them.
type CompareRequest struct {
	Data    DataInput            `json:"data" validate:"required"`
	Configs []ModelConfiguration `json:"model_configurations" validate:"required,min=1,max=10,dive"`
}

// ValidateRequest checks a configuration without fitting.
type ValidateRequest struct {
	Config ModelConfiguration `json:"model_configuration" validate:"required"`
}

// AutoSelectRequest picks a model for a dataset by the length heuristic.
type AutoSelectRequest struct {
	Data DataInput `json:"data" validate:"required"`
}

// AnalysisRequest carries a dataset plus the method-specific knobs of the
// diagnostic endpoints.
type AnalysisRequest struct {
	Data   DataInput `json:"data" validate:"required"`
	Method string    `json:"method,omitempty"`
	Window int       `json:"window,omitempty" default:"12" validate:"omitempty,min=2"`
	Lags   int       `json:"lags,omitempty" default:"20" validate:"omitempty,min=1"`
	Period int       `json:"period,omitempty" validate:"omitempty,min=2"`
	Model  string    `json:"model,omitempty" default:"additive" validate:"omitempty,oneof=additive multiplicative"`
}

// ValidationResult is the response of the configuration validator.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

package models

import "errors"

// Error kinds surfaced by the core. Services wrap these with context via
// fmt.Errorf and %w; handlers map them to HTTP statuses with errors.Is.
var (
	// ErrDataFormat marks input without records or a usable value column.
	ErrDataFormat = errors.New("invalid data format")

	// ErrInsufficientData marks a series below the modeling or diagnostic floor.
	ErrInsufficientData = errors.New("insufficient data points")

	// ErrUnknownModel marks a model_type outside the registry.
	ErrUnknownModel = errors.New("unknown model type")

	// ErrInvalidParameter marks a configuration that fails per-variant rules.
	ErrInvalidParameter = errors.New("invalid model parameters")

	// ErrFitting marks a numeric procedure that failed or did not converge.
	ErrFitting = errors.New("model fitting failed")

	// ErrState marks forecast or fitted-value access before a successful fit.
	ErrState = errors.New("model must be fitted first")

	// ErrDatasetNotFound marks a lookup of a dataset name never stored.
	ErrDatasetNotFound = errors.New("dataset not found")
)

package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TSLab/internal/domain/models"
	domrepo "TSLab/internal/domain/repository"
	"TSLab/internal/forecast"
	"TSLab/internal/timeseries"
	pkgcache "TSLab/pkg/cache"
	applogger "TSLab/pkg/logger"
)

// Forecaster is the fit/forecast use case. It fronts the model manager with
// response caching, metrics, and bounded fit concurrency: each fit is
// CPU-bound and unbounded in cost, so admission is a fixed-size semaphore.
type Forecaster struct {
	mgr      *forecast.Manager
	cache    pkgcache.Service
	metrics  domrepo.Metrics
	log      *applogger.Logger
	fitSlots chan struct{}
	cacheTTL time.Duration
}

func NewForecaster(
	mgr *forecast.Manager,
	cache pkgcache.Service,
	metrics domrepo.Metrics,
	log *applogger.Logger,
	maxConcurrentFits int,
	cacheTTL time.Duration,
) *Forecaster {
	if maxConcurrentFits < 1 {
		maxConcurrentFits = 4
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Forecaster{
		mgr:      mgr,
		cache:    cache,
		metrics:  metrics,
		log:      log,
		fitSlots: make(chan struct{}, maxConcurrentFits),
		cacheTTL: cacheTTL,
	}
}

// Fit runs the full fit-and-forecast pipeline for one configuration.
func (f *Forecaster) Fit(ctx context.Context, req *models.FitRequest) (*forecast.Result, error) {
	key := requestKey("fit", req)
	if f.cache != nil {
		var cached forecast.Result
		if err := f.cache.Get(ctx, key, &cached); err == nil {
			f.metrics.RecordCacheLookup("fit", true)
			return &cached, nil
		}
		f.metrics.RecordCacheLookup("fit", false)
	}

	select {
	case f.fitSlots <- struct{}{}:
		defer func() { <-f.fitSlots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	start := time.Now()
	result, err := f.mgr.FitAndForecast(req.Data.Records, req.Data.ValueColumn, req.Data.TimeColumn, &forecast.Config{
		ModelType:          req.Config.ModelType,
		Parameters:         req.Config.Parameters,
		ForecastPeriods:    req.Config.ForecastPeriods,
		ConfidenceInterval: req.Config.ConfidenceInterval,
	})
	f.metrics.RecordFitDuration(req.Config.ModelType, time.Since(start).Seconds())
	if err != nil {
		f.metrics.RecordFit(req.Config.ModelType, "error")
		return nil, err
	}
	f.metrics.RecordFit(req.Config.ModelType, "ok")

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, result, f.cacheTTL); err != nil && f.log != nil {
			f.log.Warn("forecast cache set failed", applogger.Error(err))
		}
	}
	return result, nil
}

// CompareOutcome bundles per-configuration results with the ranking. Failed
// configurations land in Errors instead of aborting the comparison.
type CompareOutcome struct {
	Results    []*forecast.Result   `json:"results"`
	Errors     map[string]string    `json:"errors,omitempty"`
	Comparison *forecast.Comparison `json:"comparison"`
}

// Compare fits every configuration against the same dataset and ranks the
// successful ones by RMSE.
func (f *Forecaster) Compare(ctx context.Context, req *models.CompareRequest) (*CompareOutcome, error) {
	outcome := &CompareOutcome{}
	for _, cfg := range req.Configs {
		res, err := f.Fit(ctx, &models.FitRequest{Data: req.Data, Config: cfg})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if outcome.Errors == nil {
				outcome.Errors = map[string]string{}
			}
			outcome.Errors[cfg.ModelType] = err.Error()
			f.metrics.RecordError("compare_member")
			if f.log != nil {
				f.log.Warn("comparison member failed",
					applogger.String("model_type", cfg.ModelType),
					applogger.Error(err))
			}
			continue
		}
		outcome.Results = append(outcome.Results, res)
	}
	if len(outcome.Results) == 0 {
		return nil, fmt.Errorf("%w: no configuration produced a result", models.ErrFitting)
	}
	outcome.Comparison = f.mgr.Compare(outcome.Results)
	return outcome, nil
}

// AutoSelect adapts the dataset and applies the length-based heuristic.
func (f *Forecaster) AutoSelect(ctx context.Context, req *models.AutoSelectRequest) (*forecast.Selection, error) {
	series, err := timeseries.FromRecords(req.Data.Records, req.Data.ValueColumn, req.Data.TimeColumn)
	if err != nil {
		return nil, err
	}
	return f.mgr.AutoSelect(series.Len()), nil
}

// Validate applies the configuration rule table without fitting.
func (f *Forecaster) Validate(cfg *models.ModelConfiguration) *models.ValidationResult {
	ok, msg := f.mgr.Validate(&forecast.Config{
		ModelType:  cfg.ModelType,
		Parameters: cfg.Parameters,
	})
	return &models.ValidationResult{Valid: ok, Message: msg}
}

// AvailableModels returns the registry catalog.
func (f *Forecaster) AvailableModels() []forecast.ModelDescriptor {
	return f.mgr.AvailableModels()
}

// requestKey derives a deterministic cache key from the request content.
func requestKey(scope string, req any) string {
	b, err := json.Marshal(req)
	if err != nil {
		return pkgcache.GenerateKey(scope, "unkeyed")
	}
	return pkgcache.GenerateKey(scope, pkgcache.HashKey(string(b)))
}

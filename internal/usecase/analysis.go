package usecase

import (
	"context"
	"time"

	"TSLab/internal/analysis"
	"TSLab/internal/domain/models"
	domrepo "TSLab/internal/domain/repository"
	"TSLab/internal/timeseries"
	pkgcache "TSLab/pkg/cache"
	applogger "TSLab/pkg/logger"
)

// Analyzer is the diagnostics use case: adapts record payloads into series
// and dispatches to the statistical routines.
type Analyzer struct {
	cache    pkgcache.Service
	metrics  domrepo.Metrics
	log      *applogger.Logger
	cacheTTL time.Duration
}

func NewAnalyzer(cache pkgcache.Service, metrics domrepo.Metrics, log *applogger.Logger, cacheTTL time.Duration) *Analyzer {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Analyzer{cache: cache, metrics: metrics, log: log, cacheTTL: cacheTTL}
}

func (a *Analyzer) values(req *models.AnalysisRequest) ([]float64, error) {
	series, err := timeseries.FromRecords(req.Data.Records, req.Data.ValueColumn, req.Data.TimeColumn)
	if err != nil {
		a.metrics.RecordError("adapt")
		return nil, err
	}
	return series.Values, nil
}

// Stationarity runs the combined ADF + KPSS verdict.
func (a *Analyzer) Stationarity(ctx context.Context, req *models.AnalysisRequest) (*analysis.StationarityResult, error) {
	values, err := a.values(req)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordAnalysis("stationarity")
	return analysis.CheckStationarity(values)
}

// Seasonality scores the candidate seasonal periods.
func (a *Analyzer) Seasonality(ctx context.Context, req *models.AnalysisRequest) (*analysis.SeasonalityResult, error) {
	values, err := a.values(req)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordAnalysis("seasonality")
	return analysis.DetectSeasonality(values)
}

// Decompose splits the series into trend/seasonal/residual components.
func (a *Analyzer) Decompose(ctx context.Context, req *models.AnalysisRequest) (*analysis.Decomposition, error) {
	values, err := a.values(req)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordAnalysis("decompose")
	return analysis.Decompose(values, req.Period, req.Model)
}

// Autocorrelation computes ACF and PACF with confidence bands.
func (a *Analyzer) Autocorrelation(ctx context.Context, req *models.AnalysisRequest) (*analysis.Correlogram, error) {
	values, err := a.values(req)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordAnalysis("acf_pacf")
	return analysis.Autocorrelation(values, req.Lags)
}

// Rolling computes windowed mean and standard deviation.
func (a *Analyzer) Rolling(ctx context.Context, req *models.AnalysisRequest) (*analysis.RollingStats, error) {
	values, err := a.values(req)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordAnalysis("rolling_stats")
	return analysis.Rolling(values, req.Window)
}

// Outliers flags anomalous points by the requested method.
func (a *Analyzer) Outliers(ctx context.Context, req *models.AnalysisRequest) (*analysis.OutlierResult, error) {
	values, err := a.values(req)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordAnalysis("outliers")
	return analysis.DetectOutliers(values, req.Method)
}

// Suggest proposes model configurations from detected structure.
func (a *Analyzer) Suggest(ctx context.Context, req *models.AnalysisRequest) (*analysis.Suggestion, error) {
	values, err := a.values(req)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordAnalysis("suggest")
	return analysis.SuggestParameters(values)
}

// Comprehensive runs every diagnostic and caches the combined report, since
// it is the most expensive analysis call.
func (a *Analyzer) Comprehensive(ctx context.Context, req *models.AnalysisRequest) (map[string]any, error) {
	values, err := a.values(req)
	if err != nil {
		return nil, err
	}

	key := requestKey("analysis", req)
	if a.cache != nil {
		var cached map[string]any
		if err := a.cache.Get(ctx, key, &cached); err == nil {
			a.metrics.RecordCacheLookup("analysis", true)
			return cached, nil
		}
		a.metrics.RecordCacheLookup("analysis", false)
	}

	a.metrics.RecordAnalysis("comprehensive")
	report := analysis.Comprehensive(values)

	if a.cache != nil {
		if err := a.cache.Set(ctx, key, report, a.cacheTTL); err != nil && a.log != nil {
			a.log.Warn("analysis cache set failed", applogger.Error(err))
		}
	}
	return report, nil
}

package di

import (
	"context"
	"fmt"
	"time"

	"TSLab/internal/dataset"
	domrepo "TSLab/internal/domain/repository"
	"TSLab/internal/forecast"
	"TSLab/internal/handler/api"
	internalrepo "TSLab/internal/repository"
	"TSLab/internal/usecase"
	pkgcache "TSLab/pkg/cache"
	pkgch "TSLab/pkg/clickhouse"
	"TSLab/pkg/config"
	applogger "TSLab/pkg/logger"
	"TSLab/pkg/metrics"
	"TSLab/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the cache backend selected in config. Returns nil
// for backend "none"; callers treat a nil cache as disabled.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	switch cfg.Cache.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return pkgcache.NewMemoryCache(
			pkgcache.WithMemoryMaxSize(cfg.Cache.Memory.MaxSize),
		), nil
	case "redis":
		return pkgcache.NewRedisCache(redisOptions(cfg)...)
	case "layered":
		rc, err := pkgcache.NewRedisCache(redisOptions(cfg)...)
		if err != nil {
			return nil, err
		}
		return pkgcache.NewLayeredCache(rc,
			pkgcache.WithLayeredMemorySize(cfg.Cache.Memory.MaxSize),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

func redisOptions(cfg *config.Config) []pkgcache.RedisOption {
	return []pkgcache.RedisOption{
		pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
		pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPoolSize(cfg.Cache.Redis.PoolSize),
	}
}

// ProvideDatasetStore creates the dataset store selected in config and runs
// its schema initialization.
func ProvideDatasetStore(cfg *config.Config, l *applogger.Logger) (domrepo.DatasetStore, error) {
	if cfg.Storage.Backend != "clickhouse" {
		return internalrepo.NewMemoryDatasetStore(), nil
	}

	ch := cfg.Storage.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	store := internalrepo.NewCHDatasetStore(client, cfg.Storage.Table)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return store, nil
}

// ProvideManager creates the forecast model manager with capabilities from
// config.
func ProvideManager(cfg *config.Config, l *applogger.Logger) *forecast.Manager {
	return forecast.NewManager(l, forecast.Capabilities{
		Prophet:            cfg.Models.EnableProphet,
		LSTM:               cfg.Models.EnableLSTM,
		MaxForecastPeriods: cfg.Models.MaxForecastPeriods,
	})
}

// ProvideForecaster creates the forecasting use case.
func ProvideForecaster(
	mgr *forecast.Manager,
	cache pkgcache.Service,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Forecaster {
	return usecase.NewForecaster(mgr, cache, m, l, cfg.Models.MaxConcurrentFits, cfg.Cache.TTL)
}

// ProvideAnalyzer creates the analysis use case.
func ProvideAnalyzer(
	cache pkgcache.Service,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(cache, m, l, cfg.Cache.TTL)
}

// ProvideDatasetService creates the CSV parsing and inspection service.
func ProvideDatasetService(l *applogger.Logger) *dataset.Service {
	return dataset.NewService(l)
}

// ProvideDatasets creates the dataset management use case.
func ProvideDatasets(svc *dataset.Service, store domrepo.DatasetStore, l *applogger.Logger) *usecase.Datasets {
	return usecase.NewDatasets(svc, store, l)
}

// ProvideRouter aggregates the API handlers and wires the health probe to
// the dataset store.
func ProvideRouter(
	models *api.ModelsHandler,
	analysis *api.AnalysisHandler,
	data *api.DataHandler,
	store domrepo.DatasetStore,
) *api.Router {
	r := api.NewRouter(models, analysis, data)
	r.SetHealthCheck(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return store.Health(ctx)
	})
	return r
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	router *api.Router,
	store domrepo.DatasetStore,
) *server.App {
	return server.New(cfg, l, router, store)
}

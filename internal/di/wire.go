//go:build wireinject
// +build wireinject

package di

import (
	"TSLab/internal/handler/api"
	"TSLab/pkg/config"
	"TSLab/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideDatasetStore,

		// Domain services
		ProvideManager,
		ProvideDatasetService,

		// Use cases
		ProvideForecaster,
		ProvideAnalyzer,
		ProvideDatasets,

		// HTTP handlers
		api.NewModelsHandler,
		api.NewAnalysisHandler,
		api.NewDataHandler,
		ProvideRouter,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

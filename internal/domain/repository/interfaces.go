package repository

import (
	"context"

	"TSLab/internal/domain/models"
)

// DatasetStore persists named datasets uploaded or generated by users.
type DatasetStore interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, ds *models.Dataset) error
	Get(ctx context.Context, name string) (*models.Dataset, error)
	List(ctx context.Context) ([]models.DatasetMeta, error)
	Delete(ctx context.Context, name string) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics records service-level counters and timings.
type Metrics interface {
	RecordFit(modelType, status string)
	RecordFitDuration(modelType string, seconds float64)
	RecordAnalysis(kind string)
	RecordError(kind string)
	RecordCacheLookup(scope string, hit bool)
}

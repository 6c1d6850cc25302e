package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"TSLab/internal/domain/models"
)

// MemoryDatasetStore is the in-process DatasetStore used when ClickHouse is
// not configured.
type MemoryDatasetStore struct {
	mu   sync.RWMutex
	data map[string]*models.Dataset
}

func NewMemoryDatasetStore() *MemoryDatasetStore {
	return &MemoryDatasetStore{data: make(map[string]*models.Dataset)}
}

func (s *MemoryDatasetStore) Init(ctx context.Context) error { return nil }

func (s *MemoryDatasetStore) Save(ctx context.Context, ds *models.Dataset) error {
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = time.Now().UTC()
	}
	cp := *ds
	s.mu.Lock()
	s.data[ds.Name] = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryDatasetStore) Get(ctx context.Context, name string) (*models.Dataset, error) {
	s.mu.RLock()
	ds, ok := s.data[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: dataset %q", models.ErrDatasetNotFound, name)
	}
	cp := *ds
	return &cp, nil
}

func (s *MemoryDatasetStore) List(ctx context.Context) ([]models.DatasetMeta, error) {
	s.mu.RLock()
	out := make([]models.DatasetMeta, 0, len(s.data))
	for _, ds := range s.data {
		out = append(out, models.DatasetMeta{
			Name:      ds.Name,
			RowCount:  ds.RowCount,
			CreatedAt: ds.CreatedAt,
		})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryDatasetStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[name]; !ok {
		return fmt.Errorf("%w: dataset %q", models.ErrDatasetNotFound, name)
	}
	delete(s.data, name)
	return nil
}

func (s *MemoryDatasetStore) Health(ctx context.Context) error { return nil }

func (s *MemoryDatasetStore) Close() error { return nil }

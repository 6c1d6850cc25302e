package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"TSLab/internal/domain/models"
	pkgch "TSLab/pkg/clickhouse"
	applogger "TSLab/pkg/logger"
)

// CHDatasetStore implements DatasetStore backed by ClickHouse. Datasets are
// stored as JSON blobs keyed by name in a ReplacingMergeTree, so re-uploading
// a name supersedes the previous version.
type CHDatasetStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHDatasetStore(ch *pkgch.Client, table string) *CHDatasetStore {
	if table == "" {
		table = "tslab.datasets"
	}
	return &CHDatasetStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHDatasetStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHDatasetStore) Init(ctx context.Context) error {
	stmts := []string{
		"CREATE DATABASE IF NOT EXISTS tslab",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			name String,
			payload String,
			row_count UInt32,
			created_at DateTime
		) ENGINE = ReplacingMergeTree(created_at) ORDER BY name`, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("dataset store init: %w", err)
		}
	}
	return nil
}

func (s *CHDatasetStore) Save(ctx context.Context, ds *models.Dataset) error {
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("dataset marshal: %w", err)
	}

	q := fmt.Sprintf("INSERT INTO %s (name, payload, row_count, created_at) VALUES (?, ?, ?, ?)", s.table)
	if _, err := s.db.ExecContext(ctx, q, ds.Name, string(payload), uint32(ds.RowCount), ds.CreatedAt); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse dataset save error",
				applogger.String("name", ds.Name),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("dataset save: %w", err)
	}
	return nil
}

func (s *CHDatasetStore) Get(ctx context.Context, name string) (*models.Dataset, error) {
	q := fmt.Sprintf("SELECT payload FROM %s FINAL WHERE name = ? LIMIT 1", s.table)

	var payload string
	if err := s.db.QueryRowContext(ctx, q, name).Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: dataset %q", models.ErrDatasetNotFound, name)
		}
		if s.l != nil {
			s.l.Error("clickhouse dataset get error",
				applogger.String("name", name),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("dataset get: %w", err)
	}

	var ds models.Dataset
	if err := json.Unmarshal([]byte(payload), &ds); err != nil {
		return nil, fmt.Errorf("dataset unmarshal: %w", err)
	}
	return &ds, nil
}

func (s *CHDatasetStore) List(ctx context.Context) ([]models.DatasetMeta, error) {
	q := fmt.Sprintf("SELECT name, row_count, created_at FROM %s FINAL ORDER BY created_at DESC", s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse dataset list error", applogger.Error(err))
		}
		return nil, fmt.Errorf("dataset list: %w", err)
	}
	defer rows.Close()

	out := make([]models.DatasetMeta, 0, 16)
	for rows.Next() {
		var m models.DatasetMeta
		var rowCount uint32
		if err := rows.Scan(&m.Name, &rowCount, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("dataset list scan: %w", err)
		}
		m.RowCount = int(rowCount)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *CHDatasetStore) Delete(ctx context.Context, name string) error {
	q := fmt.Sprintf("ALTER TABLE %s DELETE WHERE name = ?", s.table)
	if _, err := s.db.ExecContext(ctx, q, name); err != nil {
		return fmt.Errorf("dataset delete: %w", err)
	}
	return nil
}

func (s *CHDatasetStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHDatasetStore) Close() error { return nil }

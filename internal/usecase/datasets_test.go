package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"TSLab/internal/dataset"
	"TSLab/internal/domain/models"
	"TSLab/internal/repository"
	"TSLab/pkg/logger"
)

func testDatasets(t *testing.T) *Datasets {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewDatasets(dataset.NewService(l), repository.NewMemoryDatasetStore(), l)
}

func TestUploadAndRoundTrip(t *testing.T) {
	d := testDatasets(t)
	ctx := context.Background()

	csvBody := "date,value\n2024-01-01,10\n2024-01-02,11\n2024-01-03,12\n"
	report, err := d.Upload(ctx, "daily", strings.NewReader(csvBody))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if report.RowCount != 3 || report.SuggestedTimeColumn != "date" {
		t.Errorf("report = %+v", report)
	}

	stored, err := d.Get(ctx, "daily")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.RowCount != 3 || len(stored.Records) != 3 {
		t.Errorf("stored = %+v", stored)
	}

	metas, err := d.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 1 || metas[0].Name != "daily" {
		t.Errorf("metas = %+v", metas)
	}

	if err := d.Delete(ctx, "daily"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := d.Get(ctx, "daily"); !errors.Is(err, models.ErrDatasetNotFound) {
		t.Fatalf("Get after delete = %v, want ErrDatasetNotFound", err)
	}
}

func TestUploadRequiresName(t *testing.T) {
	d := testDatasets(t)
	if _, err := d.Upload(context.Background(), "", strings.NewReader("a\n1\n")); !errors.Is(err, models.ErrDataFormat) {
		t.Fatalf("error = %v, want ErrDataFormat", err)
	}
}

func TestUploadFromURLRequiresURL(t *testing.T) {
	d := testDatasets(t)
	if _, err := d.UploadFromURL(context.Background(), "remote", ""); !errors.Is(err, models.ErrDataFormat) {
		t.Fatalf("error = %v, want ErrDataFormat", err)
	}
}

func TestLoadSampleDoesNotPersist(t *testing.T) {
	d := testDatasets(t)
	ctx := context.Background()

	report, err := d.LoadSample(ctx, "sales_data", 0)
	if err != nil {
		t.Fatalf("LoadSample: %v", err)
	}
	if report.RowCount != 60 {
		t.Errorf("rows = %d, want 60", report.RowCount)
	}

	truncated, err := d.LoadSample(ctx, "sales_data", 12)
	if err != nil {
		t.Fatalf("LoadSample with limit: %v", err)
	}
	if truncated.RowCount != 12 {
		t.Errorf("limited rows = %d, want 12", truncated.RowCount)
	}

	metas, err := d.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("sample was persisted: %v", metas)
	}
}

package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"TSLab/internal/dataset"
	"TSLab/internal/domain/models"
	domrepo "TSLab/internal/domain/repository"
	xhttp "TSLab/pkg/http"
	applogger "TSLab/pkg/logger"
)

// Datasets is the dataset management use case: uploads, sample generation,
// and the persistent store.
type Datasets struct {
	svc    *dataset.Service
	store  domrepo.DatasetStore
	client *xhttp.Client
	log    *applogger.Logger
}

func NewDatasets(svc *dataset.Service, store domrepo.DatasetStore, log *applogger.Logger) *Datasets {
	return &Datasets{
		svc:    svc,
		store:  store,
		client: xhttp.NewClient(xhttp.WithTimeout(30 * time.Second)),
		log:    log,
	}
}

// Upload parses a CSV payload, inspects it, and persists it under name.
func (d *Datasets) Upload(ctx context.Context, name string, csvBody io.Reader) (*dataset.UploadReport, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: dataset name is required", models.ErrDataFormat)
	}

	records, err := d.svc.ParseCSV(csvBody)
	if err != nil {
		return nil, err
	}
	report, err := d.svc.Inspect(records)
	if err != nil {
		return nil, err
	}

	ds := &models.Dataset{
		Name:      name,
		Columns:   report.Columns,
		Records:   records,
		RowCount:  report.RowCount,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.store.Save(ctx, ds); err != nil {
		return nil, err
	}

	if d.log != nil {
		d.log.Info("dataset uploaded",
			applogger.String("name", name),
			applogger.Int("rows", report.RowCount))
	}
	return report, nil
}

// UploadFromURL fetches a CSV document over HTTP and stores it under name.
func (d *Datasets) UploadFromURL(ctx context.Context, name, sourceURL string) (*dataset.UploadReport, error) {
	if sourceURL == "" {
		return nil, fmt.Errorf("%w: source url is required", models.ErrDataFormat)
	}

	var body []byte
	err := d.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    sourceURL,
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", models.ErrDataFormat, sourceURL, err)
	}

	return d.Upload(ctx, name, bytes.NewReader(body))
}

// Get loads a stored dataset by name.
func (d *Datasets) Get(ctx context.Context, name string) (*models.Dataset, error) {
	return d.store.Get(ctx, name)
}

// List returns metadata for every stored dataset.
func (d *Datasets) List(ctx context.Context) ([]models.DatasetMeta, error) {
	return d.store.List(ctx)
}

// Delete removes a stored dataset.
func (d *Datasets) Delete(ctx context.Context, name string) error {
	return d.store.Delete(ctx, name)
}

// Samples returns the sample dataset catalog.
func (d *Datasets) Samples() []dataset.SampleInfo {
	return d.svc.SampleCatalog()
}

// LoadSample generates a sample dataset and returns it inspected, without
// persisting it. A positive limit truncates the records to the first rows.
func (d *Datasets) LoadSample(ctx context.Context, name string, limit int) (*dataset.UploadReport, error) {
	records, err := d.svc.GenerateSample(name)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return d.svc.Inspect(records)
}

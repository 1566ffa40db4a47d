package datasets

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"datalens-backend/internal/shared/metrics"
	"datalens-backend/internal/shared/storage/object"
	"datalens-backend/internal/tabular"
)

// Service contains business logic for datasets.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// Upload stores the raw file, parses it to discover the table shape and
// records the dataset.
func (s *Service) Upload(ctx context.Context, name, fileName string, r io.Reader) (Dataset, error) {
	if fileName == "" {
		return Dataset{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if name == "" {
		name = fileName
	}

	storageKey, size, _, err := s.Store.Save(ctx, fileName, r)
	if err != nil {
		return Dataset{}, err
	}

	format := tabular.FormatFromExtension(filepath.Ext(fileName))
	table, err := s.loadTable(ctx, storageKey, format)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ds := Dataset{
		ID:           uuid.NewString(),
		Name:         name,
		FileName:     fileName,
		Format:       string(format),
		SizeBytes:    size,
		StorageKey:   storageKey,
		RowsCount:    table.Rows(),
		ColumnsCount: table.Cols(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, ds); err != nil {
		return Dataset{}, err
	}
	metrics.IncDatasetUploaded()
	return ds, nil
}

// Get returns a dataset record.
func (s *Service) Get(ctx context.Context, id string) (Dataset, error) {
	if id == "" {
		return Dataset{}, fmt.Errorf("%w: dataset id required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns dataset records newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Dataset, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Load reads a dataset back from storage and returns the cleaned table.
func (s *Service) Load(ctx context.Context, id string) (tabular.Table, error) {
	ds, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return tabular.Table{}, err
	}
	table, err := s.loadTable(ctx, ds.StorageKey, tabular.Format(ds.Format))
	if err != nil {
		return tabular.Table{}, err
	}
	return tabular.Clean(table), nil
}

// Preview returns the first limit rows of a cleaned dataset plus its summary.
func (s *Service) Preview(ctx context.Context, id string, limit int) (map[string]any, error) {
	if limit <= 0 {
		limit = 10
	}
	table, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if limit > table.Rows() {
		limit = table.Rows()
	}
	rows := make([]map[string]any, limit)
	for i := 0; i < limit; i++ {
		rows[i] = table.Row(i)
	}

	return map[string]any{
		"columns": table.ColumnNames(),
		"rows":    rows,
		"info":    tabular.Describe(table).Map(),
	}, nil
}

func (s *Service) loadTable(ctx context.Context, storageKey string, format tabular.Format) (tabular.Table, error) {
	rc, err := s.Store.Open(ctx, storageKey)
	if err != nil {
		return tabular.Table{}, fmt.Errorf("open dataset: %w", err)
	}
	defer rc.Close()
	return tabular.Parse(rc, format)
}

package datasets

import (
	"context"
	"errors"
	"strings"
	"testing"

	localstore "datalens-backend/internal/shared/storage/object/local"
	"datalens-backend/internal/tabular"
)

const salesCSV = "region,revenue\nnorth,1200\nsouth,950\neast,1430\n"

func newTestService(t *testing.T) *Service {
	t.Helper()
	return &Service{
		Store: localstore.New(t.TempDir()),
		Repo:  NewMemoryRepo(),
	}
}

func TestUploadDiscoversShape(t *testing.T) {
	svc := newTestService(t)

	ds, err := svc.Upload(context.Background(), "sales", "sales.csv", strings.NewReader(salesCSV))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if ds.ID == "" {
		t.Fatalf("expected dataset id, got empty")
	}
	if ds.Format != "csv" {
		t.Fatalf("expected format csv, got %s", ds.Format)
	}
	if ds.RowsCount != 3 || ds.ColumnsCount != 2 {
		t.Fatalf("expected shape 3x2, got %dx%d", ds.RowsCount, ds.ColumnsCount)
	}
	if ds.SizeBytes != int64(len(salesCSV)) {
		t.Fatalf("expected size %d, got %d", len(salesCSV), ds.SizeBytes)
	}

	got, err := svc.Get(context.Background(), ds.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.StorageKey != ds.StorageKey {
		t.Fatalf("expected storage key %s, got %s", ds.StorageKey, got.StorageKey)
	}
}

func TestUploadDefaultsNameToFileName(t *testing.T) {
	svc := newTestService(t)

	ds, err := svc.Upload(context.Background(), "", "sales.csv", strings.NewReader(salesCSV))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if ds.Name != "sales.csv" {
		t.Fatalf("expected name sales.csv, got %s", ds.Name)
	}
}

func TestUploadRequiresFileName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upload(context.Background(), "sales", "", strings.NewReader(salesCSV))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLoadReturnsCleanedTable(t *testing.T) {
	svc := newTestService(t)

	csvData := "price,label\n\"$1,200\",a\n\"$2,400\",b\n$800,c\n"
	ds, err := svc.Upload(context.Background(), "prices", "prices.csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	table, err := svc.Load(context.Background(), ds.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	col, ok := table.Column("price")
	if !ok {
		t.Fatalf("expected price column")
	}
	if col.Kind != tabular.KindNumeric {
		t.Fatalf("expected price column to be numeric after cleaning, got %s", col.Kind)
	}
	vals := col.NumericValues()
	if vals[0] != 1200 {
		t.Fatalf("expected first price 1200, got %v", vals[0])
	}
}

func TestLoadUnknownDataset(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Load(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPreviewLimitsRows(t *testing.T) {
	svc := newTestService(t)

	ds, err := svc.Upload(context.Background(), "sales", "sales.csv", strings.NewReader(salesCSV))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	preview, err := svc.Preview(context.Background(), ds.ID, 2)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	rows, ok := preview["rows"].([]map[string]any)
	if !ok {
		t.Fatalf("expected rows slice, got %T", preview["rows"])
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 preview rows, got %d", len(rows))
	}
	cols, ok := preview["columns"].([]string)
	if !ok || len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %v", preview["columns"])
	}
	info, ok := preview["info"].(map[string]any)
	if !ok {
		t.Fatalf("expected info map, got %T", preview["info"])
	}
	if info["rows_count"] != 3 {
		t.Fatalf("expected rows_count 3, got %v", info["rows_count"])
	}
}

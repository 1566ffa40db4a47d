package analyses

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"datalens-backend/internal/analysis"
)

func TestPGRepoCreateMarshalsEnvelopes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	a := Analysis{
		ID:        "an-1",
		DatasetID: "ds-1",
		Kind:      analysis.KindDescriptive,
		Status:    StatusCompleted,
		Request:   analysis.Request{Kind: analysis.KindDescriptive},
		Result: analysis.Result{
			Kind:    analysis.KindDescriptive,
			Payload: map[string]any{"rows_count": 3},
		},
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			a.ID,
			a.DatasetID,
			a.Kind,
			a.Status,
			sqlmock.AnyArg(), // request JSONB
			sqlmock.AnyArg(), // result JSONB
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDUnmarshalsEnvelopes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	reqJSON, err := json.Marshal(analysis.Request{Kind: analysis.KindCorrelation, CorrelationMethod: "spearman"})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resJSON, err := json.Marshal(analysis.Result{
		Kind:    analysis.KindCorrelation,
		Payload: map[string]any{"method": "spearman"},
	})
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}

	rows := sqlmock.NewRows([]string{
		"id", "dataset_id", "kind", "status", "request", "result", "created_at",
	}).AddRow("an-1", "ds-1", analysis.KindCorrelation, StatusCompleted, reqJSON, resJSON, created)

	mock.ExpectQuery("SELECT id, dataset_id, kind").
		WithArgs("an-1").
		WillReturnRows(rows)

	a, err := repo.GetByID(context.Background(), "an-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a.Request.CorrelationMethod != "spearman" {
		t.Fatalf("expected correlation method spearman, got %s", a.Request.CorrelationMethod)
	}
	if a.Result.Payload["method"] != "spearman" {
		t.Fatalf("expected payload method spearman, got %v", a.Result.Payload["method"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, dataset_id, kind").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "dataset_id", "kind", "status", "request", "result", "created_at",
		}))

	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoCreateVisualization(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	v := Visualization{
		ID:        "viz-1",
		DatasetID: "ds-1",
		ChartType: "histogram",
		Spec:      map[string]any{"chart_type": "histogram"},
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO visualizations").
		WithArgs(v.ID, v.DatasetID, v.ChartType, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.CreateVisualization(context.Background(), v); err != nil {
		t.Fatalf("CreateVisualization: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

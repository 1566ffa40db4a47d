package analyses

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"datalens-backend/internal/analysis"
	"datalens-backend/internal/datasets"
	"datalens-backend/internal/shared/metrics"
	"datalens-backend/internal/shared/telemetry"
)

// Service runs analyses over stored datasets and persists the outcomes.
type Service struct {
	Repo     Repo
	Datasets *datasets.Service
}

// Run loads the dataset, executes the requested analysis and stores the
// envelope. Pipeline failures are stored as failed runs, not returned as
// errors; only infrastructure problems surface as errors.
func (s *Service) Run(ctx context.Context, datasetID string, req analysis.Request) (Analysis, error) {
	if datasetID == "" {
		return Analysis{}, fmt.Errorf("%w: dataset id required", ErrInvalidInput)
	}
	if req.Kind == "" {
		return Analysis{}, fmt.Errorf("%w: analysis kind required", ErrInvalidInput)
	}

	table, err := s.Datasets.Load(ctx, datasetID)
	if err != nil {
		return Analysis{}, err
	}

	started := time.Now()
	metrics.IncAnalysisStarted()
	result := analysis.Run(table, req)
	status := StatusCompleted
	if !result.OK() {
		status = StatusFailed
		metrics.IncAnalysisFailed()
		telemetry.Warn("analysis.failed", map[string]any{
			"dataset_id": datasetID,
			"kind":       req.Kind,
			"stage":      result.Failure.Stage,
			"reason":     result.Failure.Message,
		})
	} else {
		metrics.IncAnalysisCompleted()
	}
	metrics.ObserveAnalysisDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("analysis.run", map[string]any{
		"dataset_id":  datasetID,
		"kind":        req.Kind,
		"status":      status,
		"duration_ms": time.Since(started).Milliseconds(),
	})

	a := Analysis{
		ID:        uuid.NewString(),
		DatasetID: datasetID,
		Kind:      req.Kind,
		Status:    status,
		Request:   req,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return Analysis{}, err
	}
	return a, nil
}

// Quick runs the exploratory bundle without persisting a record, mirroring
// what an interactive client shows right after upload.
func (s *Service) Quick(ctx context.Context, datasetID string) (analysis.Result, error) {
	if datasetID == "" {
		return analysis.Result{}, fmt.Errorf("%w: dataset id required", ErrInvalidInput)
	}
	table, err := s.Datasets.Load(ctx, datasetID)
	if err != nil {
		return analysis.Result{}, err
	}
	return analysis.Quick(table), nil
}

// Get returns a stored analysis.
func (s *Service) Get(ctx context.Context, id string) (Analysis, error) {
	if id == "" {
		return Analysis{}, fmt.Errorf("%w: analysis id required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns stored analyses, optionally filtered by dataset.
func (s *Service) List(ctx context.Context, datasetID string, limit, offset int) ([]Analysis, error) {
	return s.Repo.ListByDataset(ctx, datasetID, limit, offset)
}

// CreateVisualization builds one chart from a dataset and stores it.
func (s *Service) CreateVisualization(ctx context.Context, datasetID string, req analysis.ChartRequest) (Visualization, error) {
	if datasetID == "" {
		return Visualization{}, fmt.Errorf("%w: dataset id required", ErrInvalidInput)
	}

	table, err := s.Datasets.Load(ctx, datasetID)
	if err != nil {
		return Visualization{}, err
	}

	result := analysis.Visualize(table, req)
	if !result.OK() {
		return Visualization{}, fmt.Errorf("%w: %s", ErrInvalidInput, result.Failure.Message)
	}
	spec, _ := result.Payload["chart"].(map[string]any)

	v := Visualization{
		ID:        uuid.NewString(),
		DatasetID: datasetID,
		ChartType: req.ChartType,
		Spec:      spec,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.CreateVisualization(ctx, v); err != nil {
		return Visualization{}, err
	}
	return v, nil
}

// ListVisualizations returns stored charts for a dataset.
func (s *Service) ListVisualizations(ctx context.Context, datasetID string, limit, offset int) ([]Visualization, error) {
	if datasetID == "" {
		return nil, fmt.Errorf("%w: dataset id required", ErrInvalidInput)
	}
	return s.Repo.ListVisualizations(ctx, datasetID, limit, offset)
}

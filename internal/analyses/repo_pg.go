package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Request and result envelopes are
// stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis record.
func (r *PGRepo) Create(ctx context.Context, a Analysis) error {
	reqJSON, err := json.Marshal(a.Request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	resJSON, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	const query = `
INSERT INTO analyses (
    id,
    dataset_id,
    kind,
    status,
    request,
    result,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.DB.ExecContext(ctx, query, a.ID, a.DatasetID, a.Kind, a.Status, reqJSON, resJSON, a.CreatedAt)
	return err
}

// GetByID fetches an analysis by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Analysis, error) {
	const query = `
SELECT id, dataset_id, kind, status, request, result, created_at
FROM analyses
WHERE id = $1
LIMIT 1`

	var a Analysis
	var reqJSON, resJSON []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.DatasetID,
		&a.Kind,
		&a.Status,
		&reqJSON,
		&resJSON,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	if err := unmarshalEnvelope(reqJSON, resJSON, &a); err != nil {
		return Analysis{}, err
	}
	return a, nil
}

// ListByDataset returns analyses for a dataset, newest first. An empty
// datasetID lists across all datasets.
func (r *PGRepo) ListByDataset(ctx context.Context, datasetID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, dataset_id, kind, status, request, result, created_at
FROM analyses
WHERE ($1 = '' OR dataset_id = $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, datasetID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		var a Analysis
		var reqJSON, resJSON []byte
		if err := rows.Scan(&a.ID, &a.DatasetID, &a.Kind, &a.Status, &reqJSON, &resJSON, &a.CreatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalEnvelope(reqJSON, resJSON, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateVisualization inserts a new chart record.
func (r *PGRepo) CreateVisualization(ctx context.Context, v Visualization) error {
	specJSON, err := json.Marshal(v.Spec)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}

	const query = `
INSERT INTO visualizations (
    id,
    dataset_id,
    chart_type,
    spec,
    created_at
) VALUES ($1, $2, $3, $4, $5)`

	_, err = r.DB.ExecContext(ctx, query, v.ID, v.DatasetID, v.ChartType, specJSON, v.CreatedAt)
	return err
}

// ListVisualizations returns charts for a dataset, newest first.
func (r *PGRepo) ListVisualizations(ctx context.Context, datasetID string, limit, offset int) ([]Visualization, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, dataset_id, chart_type, spec, created_at
FROM visualizations
WHERE dataset_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, datasetID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Visualization
	for rows.Next() {
		var v Visualization
		var specJSON []byte
		if err := rows.Scan(&v.ID, &v.DatasetID, &v.ChartType, &specJSON, &v.CreatedAt); err != nil {
			return nil, err
		}
		if len(specJSON) > 0 {
			if err := json.Unmarshal(specJSON, &v.Spec); err != nil {
				return nil, fmt.Errorf("unmarshal spec: %w", err)
			}
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func unmarshalEnvelope(reqJSON, resJSON []byte, a *Analysis) error {
	if len(reqJSON) > 0 {
		if err := json.Unmarshal(reqJSON, &a.Request); err != nil {
			return fmt.Errorf("unmarshal request: %w", err)
		}
	}
	if len(resJSON) > 0 {
		if err := json.Unmarshal(resJSON, &a.Result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)

package analyses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu       sync.RWMutex
	analyses map[string]Analysis
	charts   map[string][]Visualization // datasetID -> charts
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		analyses: make(map[string]Analysis),
		charts:   make(map[string][]Visualization),
	}
}

// Create stores an analysis record.
func (r *MemoryRepo) Create(ctx context.Context, a Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses[a.ID] = a
	return nil
}

// GetByID returns an analysis by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyses[id]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return a, nil
}

// ListByDataset returns analyses for a dataset, newest first.
func (r *MemoryRepo) ListByDataset(ctx context.Context, datasetID string, limit, offset int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	out := make([]Analysis, 0)
	for _, a := range r.analyses {
		if datasetID == "" || a.DatasetID == datasetID {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []Analysis{}, nil
	}
	end := len(out)
	if offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// CreateVisualization stores a chart record.
func (r *MemoryRepo) CreateVisualization(ctx context.Context, v Visualization) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.charts[v.DatasetID] = append(r.charts[v.DatasetID], v)
	return nil
}

// ListVisualizations returns charts for a dataset, newest first.
func (r *MemoryRepo) ListVisualizations(ctx context.Context, datasetID string, limit, offset int) ([]Visualization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	src := r.charts[datasetID]
	out := make([]Visualization, len(src))
	copy(out, src)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []Visualization{}, nil
	}
	end := len(out)
	if offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)

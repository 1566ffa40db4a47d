package datasets

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo, used when no database is
// configured and in tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Dataset
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Dataset)}
}

// Create stores a dataset record.
func (r *MemoryRepo) Create(ctx context.Context, ds Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[ds.ID] = ds
	return nil
}

// GetByID returns a dataset by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ds, ok := r.data[id]
	if !ok {
		return Dataset{}, ErrNotFound
	}
	return ds, nil
}

// List returns datasets newest-first, honoring limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	out := make([]Dataset, 0, len(r.data))
	for _, ds := range r.data {
		out = append(out, ds)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []Dataset{}, nil
	}
	end := len(out)
	if offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)

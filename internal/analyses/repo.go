package analyses

import "context"

// Repo defines persistence operations for analyses and visualizations.
type Repo interface {
	Create(ctx context.Context, a Analysis) error
	GetByID(ctx context.Context, id string) (Analysis, error)
	ListByDataset(ctx context.Context, datasetID string, limit, offset int) ([]Analysis, error)
	CreateVisualization(ctx context.Context, v Visualization) error
	ListVisualizations(ctx context.Context, datasetID string, limit, offset int) ([]Visualization, error)
}

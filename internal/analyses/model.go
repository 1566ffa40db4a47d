package analyses

import (
	"time"

	"datalens-backend/internal/analysis"
)

// Status of a stored analysis run.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Analysis is one pipeline run over a dataset, stored with its request and
// the full (sanitized) result envelope.
type Analysis struct {
	ID        string
	DatasetID string
	Kind      string
	Status    string
	Request   analysis.Request
	Result    analysis.Result
	CreatedAt time.Time
}

// Visualization is a single stored chart spec built from a dataset.
type Visualization struct {
	ID        string
	DatasetID string
	ChartType string
	Spec      map[string]any
	CreatedAt time.Time
}

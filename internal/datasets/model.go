package datasets

import "time"

// Dataset is an uploaded tabular file plus the shape discovered at upload.
type Dataset struct {
	ID           string
	Name         string
	FileName     string
	Format       string
	SizeBytes    int64
	StorageKey   string
	RowsCount    int
	ColumnsCount int
	CreatedAt    time.Time
}

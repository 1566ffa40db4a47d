package datasets

import "time"

// DatasetResponse is the outward-facing representation of a dataset.
type DatasetResponse struct {
	DatasetID    string    `json:"datasetId"`
	Name         string    `json:"name"`
	FileName     string    `json:"fileName"`
	Format       string    `json:"format"`
	SizeBytes    int64     `json:"sizeBytes"`
	RowsCount    int       `json:"rowsCount"`
	ColumnsCount int       `json:"columnsCount"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func toResponse(ds Dataset) DatasetResponse {
	return DatasetResponse{
		DatasetID:    ds.ID,
		Name:         ds.Name,
		FileName:     ds.FileName,
		Format:       ds.Format,
		SizeBytes:    ds.SizeBytes,
		RowsCount:    ds.RowsCount,
		ColumnsCount: ds.ColumnsCount,
		UploadedAt:   ds.CreatedAt,
	}
}

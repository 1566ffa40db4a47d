package datasets

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new dataset record.
func (r *PGRepo) Create(ctx context.Context, ds Dataset) error {
	const query = `
INSERT INTO datasets (
    id,
    name,
    file_name,
    format,
    size_bytes,
    storage_key,
    rows_count,
    columns_count,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		ds.ID,
		ds.Name,
		ds.FileName,
		ds.Format,
		ds.SizeBytes,
		ds.StorageKey,
		ds.RowsCount,
		ds.ColumnsCount,
		ds.CreatedAt,
	)
	return err
}

// GetByID fetches a dataset by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Dataset, error) {
	const query = `
SELECT id, name, file_name, format, size_bytes, storage_key, rows_count, columns_count, created_at
FROM datasets
WHERE id = $1
LIMIT 1`

	var ds Dataset
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&ds.ID,
		&ds.Name,
		&ds.FileName,
		&ds.Format,
		&ds.SizeBytes,
		&ds.StorageKey,
		&ds.RowsCount,
		&ds.ColumnsCount,
		&ds.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Dataset{}, ErrNotFound
		}
		return Dataset{}, err
	}
	return ds, nil
}

// List returns datasets newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Dataset, error) {
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
SELECT id, name, file_name, format, size_bytes, storage_key, rows_count, columns_count, created_at
FROM datasets
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Dataset
	for rows.Next() {
		var ds Dataset
		if err := rows.Scan(
			&ds.ID,
			&ds.Name,
			&ds.FileName,
			&ds.Format,
			&ds.SizeBytes,
			&ds.StorageKey,
			&ds.RowsCount,
			&ds.ColumnsCount,
			&ds.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)

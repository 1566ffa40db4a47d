package datasets

import "errors"

var (
	ErrNotFound     = errors.New("dataset not found")
	ErrInvalidInput = errors.New("invalid input")
)

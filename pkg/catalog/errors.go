package catalog

import "github.com/pkg/errors"

// Errors returned by the catalog and its datasets.
var (
	ErrDatasetNotFound    = errors.New("dataset not found")
	ErrDatasetExists      = errors.New("dataset already exists")
	ErrDatasetEmpty       = errors.New("dataset has no data")
	ErrUnknownDatasetType = errors.New("unknown dataset type")
	ErrMissingType        = errors.New("dataset type must be set")
	ErrUnsupportedValue   = errors.New("unsupported value")
)

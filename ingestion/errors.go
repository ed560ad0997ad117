package ingestion

import "errors"

var (
	// ErrSectionRepositoryRequired is returned when a section repository is not provided.
	ErrSectionRepositoryRequired = errors.New("section repository required")

	// ErrCheckpointRepositoryRequired is returned when a checkpoint repository is not provided.
	ErrCheckpointRepositoryRequired = errors.New("checkpoint repository required")

	// ErrUnsupportedFormat is returned for catalog files that are neither JSON nor CSV.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")

	// ErrInvalidMaxAttempts is returned when maxAttempts is not positive.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrMalformedCatalog is returned when a catalog file cannot be decoded.
	ErrMalformedCatalog = errors.New("malformed catalog")
)

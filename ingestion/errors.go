package ingestion

import "errors"

var (
	// ErrCollectionRequired is returned when a fragment collection is not provided.
	ErrCollectionRequired = errors.New("fragment collection required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")
)

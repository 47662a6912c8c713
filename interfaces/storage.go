package interfaces

import (
	"context"
	"errors"
)

// StorageBackendLocation is a URI identifying where a configuration document lives,
// e.g. file:///etc/gateway/tlds.json or s3://bucket/tlds.json?region=us-east-1.
type StorageBackendLocation string

// StorageBackend fetches a single configuration document.
type StorageBackend interface {
	// Fetch returns the document contents.
	Fetch(ctx context.Context) ([]byte, error)

	// Available reports whether the backend can currently be reached.
	Available(ctx context.Context) bool

	// Name is a short backend identifier for logs.
	Name() string

	// LocationURI returns the URI this backend was created from, with
	// credentials redacted.
	LocationURI() string
}

// StorageBackendFactory creates storage backends from location URIs.
type StorageBackendFactory interface {
	StorageBackendFor(location StorageBackendLocation) (StorageBackend, error)
	CreateMultiBackend(locations []StorageBackendLocation) (StorageBackend, error)
}

var (
	// ErrContentNotFound is returned when the document does not exist at the location.
	ErrContentNotFound = errors.New("content not found")

	// ErrBackendUnavailable is returned when a storage backend is not accessible.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrInvalidLocationURI is returned when a location URI cannot be parsed.
	ErrInvalidLocationURI = errors.New("invalid location URI")
)

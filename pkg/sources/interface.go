package sources

import (
	"context"
	"errors"
)

// Catalog lists entries of a creature catalog and fetches their metadata records.
type Catalog interface {
	ListEntries(ctx context.Context) ([]string, error)
	GetEntryMetadata(ctx context.Context, name string) (*Metadata, error)
}

var (
	// ErrCatalogUnreachable covers transport faults, server errors and unparseable responses.
	ErrCatalogUnreachable = errors.New("catalog unreachable")
	// ErrEntryNotFound is returned when a metadata lookup answers with a non-200 client status.
	ErrEntryNotFound = errors.New("catalog entry not found")
	// ErrArtworkUnavailable means the entry exists but carries no artwork URL.
	ErrArtworkUnavailable = errors.New("artwork unavailable")
	// ErrInvalidName rejects names that are empty or could escape the cache directory.
	ErrInvalidName = errors.New("invalid entry name")
)

package providers

import (
	"context"
)

// CacheProvider defines the interface for the persisted key-value store.
// Values are opaque strings; an expiration of zero means the entry
// persists until explicitly deleted.
type CacheProvider interface {
	// Get retrieves a value from the store
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from the store
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in the store
	Exists(ctx context.Context, key string) (bool, error)
}

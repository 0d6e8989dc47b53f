// Package metadata stores small named values in the client's local database.
// The auth store keeps the bearer token and cached profile here.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes all given keys in one transaction. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// List returns every pair whose key starts with prefix.
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}

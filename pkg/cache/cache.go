// Package cache provides pluggable caching for retrieved crate records.
//
// The core retrieval path is deliberately cache-free; callers layer
// caching on top. The CLI uses a file-backed cache under the XDG cache
// directory, the serve command can point at Redis for multi-instance
// deployments, and NullCache disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is the interface all cache backends implement.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether
	// the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

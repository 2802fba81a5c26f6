// Package cache stores encoded scene documents between runs.
//
// A run is fully determined by its configuration, its catalog and its seed,
// so the pipeline keys generated scenes by a hash of those three inputs
// (see [Keyer]) and skips placement entirely on a hit.
//
// Backends:
//
//   - [FileCache]: one file per key under a directory, for the CLI
//   - [RedisCache]: a shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// All backends store opaque bytes with an optional TTL.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// SceneTTL bounds how long a generated scene is reused.
	SceneTTL = 7 * 24 * time.Hour
	// LayoutTTL bounds how long a computed tiling is reused.
	LayoutTTL = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

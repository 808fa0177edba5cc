// Package cache stores serialized assignment results and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entry files under a directory, used by the CLI.
//   - [RedisCache]: a shared Redis instance, used by the HTTP server.
//   - [NullCache]: stores nothing, used when caching is disabled.
//
// Keys come from a [Keyer]. The default keyer hashes the network source and
// the run options, so editing a network file or changing the iteration
// count never returns a stale result.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default entry lifetimes.
const (
	TTLResult   = 30 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

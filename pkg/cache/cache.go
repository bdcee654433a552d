// Package cache stores computed layouts and rendered artifacts.
//
// A [Cache] is a byte-oriented key/value store with optional expiry. Three
// backends are provided: [FileCache] for the CLI, [RedisCache] for a shared
// server deployment and [NullCache] to disable caching. Keys are built by a
// [Keyer] from content hashes, so a change to the dataset or to any option
// that affects the output produces a fresh key.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized pipeline results.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (hit == false), not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Default time-to-live per entry kind. Layouts and artifacts are keyed by
// content hash and never go stale; the TTL only bounds disk usage.
const (
	TTLSheet    = 10 * time.Minute
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

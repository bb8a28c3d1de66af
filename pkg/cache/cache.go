// Package cache stores rendered previews so repeated requests for the same
// mode, palette and seed skip composition and finishing.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entries on local disk, the CLI default
//   - [RedisCache]: shared storage for several preview servers
//   - [NullCache]: never stores anything; caching disabled
//
// Keys come from a [Keyer] so every caller derives them the same way.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// TTLPreview bounds how long a rendered preview is served from cache.
// Renders are deterministic, so expiry only reclaims space.
const TTLPreview = 7 * 24 * time.Hour

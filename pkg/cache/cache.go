// Package cache stores rendered frame images keyed by their content.
//
// Rendering a frame through Graphviz is the slowest step of serving a replay,
// while most frames repeat: every client replaying the same query walks
// through the same highlight states. A [Cache] maps a key derived from the
// DOT source and output format to the rendered bytes.
//
// Three implementations are provided:
//   - [Memory]: bounded in-process cache used by the HTTP server
//   - [FileCache]: directory-backed cache used by the CLI render command
//   - [NullCache]: never stores anything
//
// Cached entries are derived output only; dropping any entry is always safe.
package cache

import (
	"context"
	"time"
)

// Cache stores byte values with an optional time-to-live.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

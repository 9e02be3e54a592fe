package cache

import (
	"context"
	"time"
)

// NullCache renders every frame afresh. It backs `render` when --cache is
// off so callers always hold a usable [Cache].
type NullCache struct{}

// NewNullCache returns a cache that keeps nothing.
func NewNullCache() *NullCache { return &NullCache{} }

// Get reports a miss for every key.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}

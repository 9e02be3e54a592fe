package nodelink

import (
	"context"
	"time"

	"github.com/matzehuels/railpath/pkg/cache"
	"github.com/matzehuels/railpath/pkg/render"
)

// RenderCached is Render backed by c. It reports whether the bytes came
// from the cache. Cache failures fall back to rendering and never fail the
// call. DOT output is returned without touching c.
func RenderCached(ctx context.Context, c cache.Cache, dot string, format render.Format, ttl time.Duration) ([]byte, bool, error) {
	if format == render.FormatDOT {
		data, err := Render(ctx, dot, format)
		return data, false, err
	}

	key := cache.FrameKey(dot, string(format))
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	data, err := Render(ctx, dot, format)
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(ctx, key, data, ttl)
	return data, false, nil
}

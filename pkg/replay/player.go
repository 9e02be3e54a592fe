package replay

import (
	"context"
	"time"
)

// DefaultInterval is the delay between replayed events.
const DefaultInterval = 500 * time.Millisecond

// Play applies the session's remaining events to r, one per interval,
// starting immediately. It returns nil once the trace is exhausted and
// ctx.Err() if ctx is cancelled first. A non-positive interval means
// [DefaultInterval].
func Play(ctx context.Context, s *Session, r Renderer, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.Step(ctx, r) || !s.Busy() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

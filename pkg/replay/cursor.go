package replay

import "github.com/matzehuels/railpath/pkg/pathfind"

// Cursor is a read position over a materialized trace.
// The zero value is an empty, exhausted cursor.
type Cursor struct {
	trace []pathfind.Event
	pos   int
}

// NewCursor returns a cursor at the start of trace. The trace is not copied
// and must not be modified while the cursor is in use.
func NewCursor(trace []pathfind.Event) *Cursor {
	return &Cursor{trace: trace}
}

// Next returns the event at the current position and advances past it.
// It returns false once the trace is exhausted.
func (c *Cursor) Next() (pathfind.Event, bool) {
	if c.Done() {
		return pathfind.Event{}, false
	}
	ev := c.trace[c.pos]
	c.pos++
	return ev, true
}

// Pos returns the number of events consumed so far.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the length of the trace.
func (c *Cursor) Len() int { return len(c.trace) }

// Done reports whether every event has been consumed.
func (c *Cursor) Done() bool { return c.pos >= len(c.trace) }

// Remaining returns the number of events not yet consumed.
func (c *Cursor) Remaining() int { return len(c.trace) - c.pos }

// Consumed returns the events already returned by Next, in order.
func (c *Cursor) Consumed() []pathfind.Event { return c.trace[:c.pos] }

// Rewind moves the cursor back to the first event.
func (c *Cursor) Rewind() { c.pos = 0 }

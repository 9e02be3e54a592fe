package cli

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/network"
)

// fakeClock is a manually advanced time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration) (*sessionStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	s := newSessionStore(ttl)
	s.now = clock.now
	return s, clock
}

func TestSessionStoreCreateGet(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	rs := s.Create(network.Compact(), log.Default())

	if rs.ID == "" || rs.Network != network.NameCompact {
		t.Fatalf("created = %+v", rs)
	}
	got, err := s.Get(rs.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != rs {
		t.Error("Get returned a different session")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	rs := s.Create(network.Compact(), log.Default())

	clock.advance(50 * time.Second)
	if _, err := s.Get(rs.ID); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}
	if want := clock.t.Add(time.Minute); !s.ExpiresAt(rs).Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v (access should extend the lifetime)", s.ExpiresAt(rs), want)
	}

	clock.advance(61 * time.Second)
	_, err := s.Get(rs.ID)
	if !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("Get after expiry: err = %v, want SESSION_NOT_FOUND", err)
	}
	if s.Len() != 0 {
		t.Errorf("expired session should be removed, Len = %d", s.Len())
	}
}

func TestSessionStoreCleanup(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	old := s.Create(network.Compact(), log.Default())
	clock.advance(45 * time.Second)
	fresh := s.Create(network.Compact(), log.Default())
	clock.advance(30 * time.Second)

	if n := s.Cleanup(); n != 1 {
		t.Errorf("Cleanup = %d, want 1", n)
	}
	if _, err := s.Get(old.ID); err == nil {
		t.Error("old session should be gone")
	}
	if _, err := s.Get(fresh.ID); err != nil {
		t.Errorf("fresh session: %v", err)
	}
}

func TestSessionStoreDelete(t *testing.T) {
	s, _ := newTestStore(0)
	if s.ttl != defaultSessionTTL {
		t.Errorf("ttl = %v, want default %v", s.ttl, defaultSessionTTL)
	}

	rs := s.Create(network.Compact(), log.Default())
	if err := s.Delete(rs.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(rs.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("second Delete: err = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestSessionStoreInvalidID(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	for _, id := range []string{"", "abc", "../etc/passwd"} {
		if _, err := s.Get(id); !errors.Is(err, errors.ErrCodeSessionNotFound) {
			t.Errorf("Get(%q): err = %v, want SESSION_NOT_FOUND", id, err)
		}
	}
}

func TestSessionStoreIndependentReplays(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	a := s.Create(network.Compact(), log.Default())
	b := s.Create(network.Compact(), log.Default())
	ctx := context.Background()

	if _, err := a.Session.Search(ctx, "北京", "深圳"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Session.Search(ctx, "深圳", "北京"); err != nil {
		t.Fatal(err)
	}
	a.Session.Step(ctx, a.Frame)
	a.Session.Step(ctx, a.Frame)

	if pos, _ := a.Session.Progress(); pos != 2 {
		t.Errorf("a position = %d, want 2", pos)
	}
	if pos, _ := b.Session.Progress(); pos != 0 {
		t.Errorf("b position = %d, want 0", pos)
	}
	if b.Frame.Steps() != 0 {
		t.Errorf("b frame should be untouched, Steps = %d", b.Frame.Steps())
	}
}

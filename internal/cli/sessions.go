package cli

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/network"
	"github.com/matzehuels/railpath/pkg/render/nodelink"
	"github.com/matzehuels/railpath/pkg/replay"
)

// defaultSessionTTL is how long an untouched replay session is kept.
const defaultSessionTTL = 30 * time.Minute

// replaySession is one client's replay: a session over a network and the
// frame its steps are applied to.
type replaySession struct {
	ID        string
	Network   string
	CreatedAt time.Time

	// mu serializes stepping and frame rendering.
	mu        sync.Mutex
	Session   *replay.Session
	Frame     *nodelink.Frame
	expiresAt time.Time
}

// sessionStore keeps replay sessions in memory. Sessions expire after a
// period without access.
type sessionStore struct {
	mu    sync.Mutex
	items map[string]*replaySession
	ttl   time.Duration
	now   func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{
		items: make(map[string]*replaySession),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create registers a new session over n.
func (s *sessionStore) Create(n network.Network, logger *log.Logger) *replaySession {
	now := s.now()
	rs := &replaySession{
		ID:        uuid.NewString(),
		Network:   n.Name,
		CreatedAt: now,
		Session:   replay.NewSession(n, logger),
		Frame:     nodelink.NewFrame(),
		expiresAt: now.Add(s.ttl),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rs.ID] = rs
	return rs
}

// Get returns the session with id and extends its lifetime.
func (s *sessionStore) Get(id string) (*replaySession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.items[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	now := s.now()
	if now.After(rs.expiresAt) {
		delete(s.items, id)
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q expired", id)
	}
	rs.expiresAt = now.Add(s.ttl)
	return rs, nil
}

// ExpiresAt returns when rs will expire if left untouched.
func (s *sessionStore) ExpiresAt(rs *replaySession) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rs.expiresAt
}

// Delete removes the session with id.
func (s *sessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	delete(s.items, id)
	return nil
}

// Cleanup removes expired sessions and returns how many were removed.
func (s *sessionStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, rs := range s.items {
		if now.After(rs.expiresAt) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired or not.
func (s *sessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

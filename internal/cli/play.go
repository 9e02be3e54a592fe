package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/pathfind"
	"github.com/matzehuels/railpath/pkg/replay"
)

const (
	// minPlayInterval bounds how fast a client may ask events to be pushed.
	minPlayInterval  = time.Millisecond
	playWriteTimeout = 5 * time.Second
)

// PlayMessage is one replayed event pushed over the play websocket.
type PlayMessage struct {
	Position int            `json:"position"`
	Total    int            `json:"total"`
	Done     bool           `json:"done"`
	Event    pathfind.Event `json:"event"`
	Summary  string         `json:"summary,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// handlePlay upgrades to a websocket and pushes the session's remaining
// events, one per interval (query parameter, default 500ms). The server
// closes the socket with a normal closure once the trace is exhausted.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	rs, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	interval := replay.DefaultInterval
	if v := r.URL.Query().Get("interval"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < minPlayInterval {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
				"interval must be a duration of at least %s, got %q", minPlayInterval, v))
			return
		}
		interval = d
	}

	// Upgrade writes its own HTTP error on failure.
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read until the client goes away so close frames are handled.
	go func() {
		for {
			if _, _, err := ws.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sent := 0
	for {
		msg, ok := s.stepOnce(ctx, rs)
		if !ok {
			break
		}
		_ = ws.SetWriteDeadline(time.Now().Add(playWriteTimeout))
		if err := ws.WriteJSON(msg); err != nil {
			s.logger.Debug("play stream ended", "id", rs.ID, "sent", sent, "err", err)
			return
		}
		sent++
		if msg.Done {
			break
		}
		select {
		case <-ctx.Done():
			s.logger.Debug("play stream cancelled", "id", rs.ID, "sent", sent)
			return
		case <-ticker.C:
		}
	}

	s.logger.Debug("play stream complete", "id", rs.ID, "sent", sent)
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay complete"),
		time.Now().Add(time.Second))
}

// stepOnce applies one event to the session's frame and describes it.
func (s *Server) stepOnce(ctx context.Context, rs *replaySession) (PlayMessage, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Session.Step(ctx, rs.Frame) {
		return PlayMessage{}, false
	}
	pos, total := rs.Session.Progress()
	msg := PlayMessage{
		Position: pos,
		Total:    total,
		Done:     pos == total,
	}
	if res := rs.Session.Result(); res != nil {
		msg.Event = res.Trace[pos-1]
	}
	if msg.Done {
		msg.Summary = rs.Frame.Summary()
	}
	return msg, true
}

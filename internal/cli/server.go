package cli

import (
	"encoding/json"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/matzehuels/railpath/pkg/buildinfo"
	"github.com/matzehuels/railpath/pkg/cache"
	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/network"
	"github.com/matzehuels/railpath/pkg/observability"
	"github.com/matzehuels/railpath/pkg/pathfind"
	"github.com/matzehuels/railpath/pkg/render"
	"github.com/matzehuels/railpath/pkg/render/nodelink"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// =============================================================================
// Wire Types
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NetworkInfo summarizes a network in listings.
type NetworkInfo struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Cities  int    `json:"cities"`
	Links   int    `json:"links"`
	Default bool   `json:"default,omitempty"`
}

// RouteRequest asks for a shortest route.
type RouteRequest struct {
	Network string `json:"network,omitempty" validate:"omitempty,max=64"`
	From    string `json:"from" validate:"required,max=64"`
	To      string `json:"to" validate:"required,max=64"`
	Trace   bool   `json:"trace,omitempty"`
}

// RouteResponse is a computed route. Trace is present only when requested.
type RouteResponse struct {
	Network  string            `json:"network"`
	From     string            `json:"from"`
	To       string            `json:"to"`
	Distance pathfind.Distance `json:"distance"`
	Path     []string          `json:"path"`
	Summary  string            `json:"summary"`
	Steps    int               `json:"steps"`
	Trace    []pathfind.Event  `json:"trace,omitempty"`
}

// SessionRequest starts a replay session.
type SessionRequest struct {
	Network string `json:"network,omitempty" validate:"omitempty,max=64"`
	From    string `json:"from" validate:"required,max=64"`
	To      string `json:"to" validate:"required,max=64"`
}

// SessionResponse describes a replay session.
type SessionResponse struct {
	ID        string            `json:"id"`
	Network   string            `json:"network"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	Distance  pathfind.Distance `json:"distance"`
	Path      []string          `json:"path"`
	Position  int               `json:"position"`
	Total     int               `json:"total"`
	Done      bool              `json:"done"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// StepResponse lists the events applied by one step request.
type StepResponse struct {
	Position int              `json:"position"`
	Total    int              `json:"total"`
	Done     bool             `json:"done"`
	Events   []pathfind.Event `json:"events"`
	Summary  string           `json:"summary,omitempty"`
}

// =============================================================================
// Server
// =============================================================================

// Server serves networks, routes and replay sessions over HTTP.
type Server struct {
	networks       map[string]network.Network
	defaultNetwork string
	sessions       *sessionStore
	frames         cache.Cache
	colors         nodelink.Colors
	logger         *log.Logger

	// metrics, when set, is served at /metrics.
	metrics *metrics
	// limiter, when set, bounds the request rate of the API routes.
	limiter *rate.Limiter
}

// NewServer creates a server for nets. defaultName selects the network used
// when a request names none. If logger is nil, log.Default() is used.
func NewServer(nets []network.Network, defaultName string, colors nodelink.Colors, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	byName := make(map[string]network.Network, len(nets))
	for _, n := range nets {
		byName[n.Name] = n
	}
	return &Server{
		networks:       byName,
		defaultNetwork: defaultName,
		sessions:       newSessionStore(defaultSessionTTL),
		frames:         cache.NewMemory(cache.DefaultMemoryEntries),
		colors:         colors,
		logger:         logger,
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.Route("/api/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limit)
		}
		r.Get("/networks", s.handleListNetworks)
		r.Get("/networks/{name}", s.handleGetNetwork)
		r.Post("/routes", s.handleRoute)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Get("/{id}", s.handleGetSession)
			r.Post("/{id}/step", s.handleStep)
			r.Get("/{id}/frame.svg", s.handleFrame)
			r.Get("/{id}/play", s.handlePlay)
			r.Delete("/{id}", s.handleDeleteSession)
		})
	})
	return r
}

// observe reports requests to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("http",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed)
	})
}

// limit rejects requests beyond the limiter's rate with 429.
func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			s.writeError(w, r, errors.New(errors.ErrCodeRateLimited, "too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// network resolves a network name, falling back to the default.
func (s *Server) network(name string) (network.Network, error) {
	if name == "" {
		name = s.defaultNetwork
	}
	n, ok := s.networks[name]
	if !ok {
		return network.Network{}, errors.New(errors.ErrCodeUnknownNetwork, "unknown network %q", name)
	}
	return n, nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleListNetworks(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.networks))
	for name := range s.networks {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]NetworkInfo, 0, len(names))
	for _, name := range names {
		n := s.networks[name]
		out = append(out, NetworkInfo{
			Name:    n.Name,
			Title:   n.Title,
			Cities:  n.Graph.NodeCount(),
			Links:   n.Graph.EdgeCount(),
			Default: name == s.defaultNetwork,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	n, err := s.network(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, network.ToFile(n))
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validateEndpoints(req.From, req.To); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.network(req.Network)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := pathfind.FindShortestPath(n.Graph, req.From, req.To)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := RouteResponse{
		Network:  n.Name,
		From:     res.Start,
		To:       res.End,
		Distance: res.Distance,
		Path:     res.Path,
		Summary:  res.Summary().String(),
		Steps:    len(res.Trace),
	}
	if req.Trace {
		resp.Trace = res.Trace
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.network(req.Network)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rs := s.sessions.Create(n, s.logger)
	if _, err := rs.Session.Search(r.Context(), req.From, req.To); err != nil {
		_ = s.sessions.Delete(rs.ID)
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("session created", "id", rs.ID, "network", n.Name, "from", req.From, "to", req.To)

	w.Header().Set("Location", "/api/v1/sessions/"+rs.ID)
	writeJSON(w, http.StatusCreated, s.describe(rs))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	rs, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.describe(rs))
}

// handleStep applies the next n events (query parameter, default 1).
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	rs, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n := 1
	if v := r.URL.Query().Get("n"); v != "" {
		n, err = strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "n must be a positive integer, got %q", v))
			return
		}
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	before, _ := rs.Session.Progress()
	for range n {
		if !rs.Session.Step(r.Context(), rs.Frame) {
			break
		}
	}
	pos, total := rs.Session.Progress()

	events := []pathfind.Event{}
	if res := rs.Session.Result(); res != nil {
		events = res.Trace[before:pos]
	}
	writeJSON(w, http.StatusOK, StepResponse{
		Position: pos,
		Total:    total,
		Done:     pos == total,
		Events:   events,
		Summary:  rs.Frame.Summary(),
	})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	rs, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.network(rs.Network)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rs.mu.Lock()
	dot := nodelink.ToDOT(n, rs.Frame, nodelink.Options{Colors: s.colors})
	rs.mu.Unlock()

	svg, hit, err := nodelink.RenderCached(r.Context(), s.frames, dot, render.FormatSVG, s.sessions.ttl)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.FormatSVG.ContentType())
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) describe(rs *replaySession) SessionResponse {
	res := rs.Session.Result()
	pos, total := rs.Session.Progress()
	resp := SessionResponse{
		ID:        rs.ID,
		Network:   rs.Network,
		Position:  pos,
		Total:     total,
		Done:      pos == total,
		ExpiresAt: s.sessions.ExpiresAt(rs),
	}
	if res != nil {
		resp.From, resp.To = res.Start, res.End
		resp.Distance, resp.Path = res.Distance, res.Path
	}
	return resp
}

// =============================================================================
// Encoding
// =============================================================================

// requestValidate checks decoded request bodies against their validate
// tags. Field names in messages use the JSON names.
var requestValidate = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON decodes a request body into v and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid request body")
	}
	return validateRequest(v)
}

func validateRequest(v any) error {
	err := requestValidate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInternal, err, "validate request")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fe.Field()+" must be at most "+fe.Param()+" characters")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "%s", strings.Join(msgs, "; "))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error code to an HTTP status and writes ErrorResponse.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Code: string(code)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath,
		errors.ErrCodeSameEndpoints, errors.ErrCodeUnknownNode, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeUnknownNetwork, errors.ErrCodeSessionNotFound,
		errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeReplayInProgress:
		return http.StatusConflict
	case errors.ErrCodeInvalidGraph:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

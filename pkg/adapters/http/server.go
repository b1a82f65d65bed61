package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/workplane"
	"github.com/aretw0/workplane/internal/logging"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes bounds command argument payloads.
const maxBodyBytes = 64 << 10

// Controller is the part of workplane.Controller the HTTP surface needs.
type Controller interface {
	Dispatch(ctx context.Context, cmd domain.Command) (*domain.PanelState, error)
	Panel(ctx context.Context) (*domain.PanelState, error)
	DocumentID() string
}

// Server serves one controller over HTTP.
type Server struct {
	Controller Controller
	Streams    *StreamManager
	metrics    http.Handler
	logger     *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h (usually promhttp.HandlerFor) at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithStreams shares a StreamManager whose Hooks are registered on the controller.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// NewHandler creates the HTTP handler for the controller.
func NewHandler(ctrl Controller, opts ...Option) http.Handler {
	s := &Server{Controller: ctrl}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/state", s.GetState)
	r.Get("/commands", s.ListCommands)
	r.Post("/commands/{name}", s.RunCommand)
	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps controller errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoActiveObject),
		errors.Is(err, domain.ErrNameMismatch),
		errors.Is(err, domain.ErrNoStrokes),
		errors.Is(err, domain.ErrNoWorkplane),
		errors.Is(err, domain.ErrNotDrawable),
		errors.Is(err, domain.ErrObjectNotFound):
		return http.StatusConflict
	case errors.Is(err, workplane.ErrInvalidArgs),
		errors.Is(err, domain.ErrInvalidAxis),
		errors.Is(err, domain.ErrInvalidGrid),
		errors.Is(err, domain.ErrDegenerateGeometry),
		errors.Is(err, domain.ErrEmptySelection):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":      "workplane-http",
		"version":  strings.TrimSpace(workplane.Version),
		"document": s.Controller.DocumentID(),
	})
}

// GetState handles GET /state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	panel, err := s.Controller.Panel(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, panel)
}

// ListCommands handles GET /commands.
func (s *Server) ListCommands(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, workplane.Catalog())
}

// RunCommand handles POST /commands/{name}. The optional body is a JSON object of arguments.
func (s *Server) RunCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var args map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("RunCommand: Invalid request body", "command", name, "err", err)
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	panel, err := s.Controller.Dispatch(r.Context(), domain.Command{Name: name, Args: args})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, panel)
}

// StreamManager fans session diffs out to SSE subscribers, keyed by document.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for documentID. The returned func unsubscribes.
func (sm *StreamManager) Subscribe(documentID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[documentID]; !ok {
		sm.subscribers[documentID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[documentID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[documentID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, documentID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of documentID. Slow clients drop messages.
func (sm *StreamManager) Broadcast(documentID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[documentID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message", "document", documentID)
		}
	}
}

// Hooks broadcasts every session diff as JSON.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateChange: func(ctx context.Context, d *domain.SessionDiff) {
			data, err := json.Marshal(d)
			if err != nil {
				sm.logger.Error("SSE: Diff encode failed", "err", err)
				return
			}
			sm.Broadcast(d.DocumentID, string(data))
		},
	}
}

// watchFields maps the "watch" filter names to the diff fields they select.
var watchFields = map[string]func(*domain.SessionDiff) bool{
	"active":  func(d *domain.SessionDiff) bool { return d.ActiveDrawable != nil },
	"plane":   func(d *domain.SessionDiff) bool { return d.PlaneLocation != nil || d.PlaneOffset != nil },
	"grid":    func(d *domain.SessionDiff) bool { return d.Grid != nil },
	"picking": func(d *domain.SessionDiff) bool { return d.Picking != nil },
	"panel": func(d *domain.SessionDiff) bool {
		return d.AutoDeleteStroke != nil || d.ExpandSystem != nil || d.ExpandGrid != nil
	},
}

// SubscribeEvents handles GET /events (SSE). Query: document (defaults to the controller's),
// watch (comma separated: active, plane, grid, picking, panel).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	documentID := r.URL.Query().Get("document")
	if documentID == "" {
		documentID = s.Controller.DocumentID()
	}
	var watch []string
	if raw := r.URL.Query().Get("watch"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			if _, ok := watchFields[field]; !ok {
				s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("unknown watch field %q", field)})
				return
			}
			watch = append(watch, field)
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(documentID)
	defer cancel()
	s.logger.Info("SSE: Subscribed", "document", documentID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "document", documentID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !matches(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func matches(msg string, watch []string) bool {
	var diff domain.SessionDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watch {
		if watchFields[field](&diff) {
			return true
		}
	}
	return false
}

// Package server exposes the chat pipeline over HTTP. Handlers are thin:
// they decode a request body, delegate to the core, and encode the outcome.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chiheye/LLMGraphChat/internal/chat"
	"github.com/chiheye/LLMGraphChat/internal/graphdb"
	"github.com/chiheye/LLMGraphChat/internal/schema"
)

// Config holds the HTTP listener settings.
type Config struct {
	Port int
	Bind string
}

// TurnFunc handles one chat turn.
type TurnFunc func(ctx context.Context, req chat.TurnRequest) (*chat.TurnResponse, error)

// SchemaRequest carries the credentials for a schema introspection call.
type SchemaRequest struct {
	DBURI      string `json:"dbUri"`
	DBUsername string `json:"dbUsername"`
	DBPassword string `json:"dbPassword"`
}

// Server is the HTTP front end. It is safe for concurrent use.
type Server struct {
	mu       sync.RWMutex
	config   Config
	router   *chi.Mux
	server   *http.Server
	logger   *slog.Logger
	turnFunc TurnFunc
	manager  *graphdb.Manager
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the HTTP server over the given turn handler and
// connection manager.
func NewServer(config Config, turnFunc TurnFunc, manager *graphdb.Manager, opts ...Option) *Server {
	s := &Server{
		config:   config,
		router:   chi.NewRouter(),
		logger:   slog.Default(),
		turnFunc: turnFunc,
		manager:  manager,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(s.requestLogger)
	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Post("/api/schema", s.handleSchema)
}

// Handler returns the HTTP handler for testing purposes.
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.router
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// handleHealthz handles the liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// handleChat handles one chat turn. Missing credentials are the only input
// rejected with a 4xx; every later failure arrives as a 200 whose reply text
// explains the problem.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req chat.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.turnFunc(r.Context(), req)
	if err != nil {
		var vErr *chat.ValidationError
		if errors.As(err, &vErr) {
			writeJSONError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// handleSchema returns the introspected schema for the given database.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req SchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch {
	case req.DBURI == "":
		writeJSONError(w, http.StatusBadRequest, `missing required field "dbUri"`)
		return
	case req.DBUsername == "":
		writeJSONError(w, http.StatusBadRequest, `missing required field "dbUsername"`)
		return
	case req.DBPassword == "":
		writeJSONError(w, http.StatusBadRequest, `missing required field "dbPassword"`)
		return
	}

	runner := s.manager.Runner(graphdb.Config{
		URI:      req.DBURI,
		Username: req.DBUsername,
		Password: req.DBPassword,
	})
	introspector := schema.NewIntrospector(runner, schema.WithLogger(s.logger))

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(introspector.GetSchema(r.Context()))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// Start starts the HTTP server and blocks until it is stopped.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)

	s.mu.Lock()
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}
	server := s.server
	s.mu.Unlock()

	s.logger.Info("http server listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error; %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	server := s.server
	s.mu.RUnlock()

	if server == nil {
		return nil
	}
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server; %w", err)
	}
	return nil
}

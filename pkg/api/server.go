package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rubiojr/qboard/pkg/board"
	"github.com/rubiojr/qboard/pkg/core"
	"github.com/rubiojr/qboard/pkg/log"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

type Server struct {
	board    *board.Service
	auth     Authenticator
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader
	log      *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAuthenticator replaces the default header based authenticator.
func WithAuthenticator(a Authenticator) Option {
	return func(s *Server) { s.auth = a }
}

// WithGatherer sets the registry served at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

func NewServer(svc *board.Service, opts ...Option) *Server {
	s := &Server{
		board:    svc,
		auth:     NewHeaderAuthenticator(svc),
		gatherer: prometheus.DefaultGatherer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log.ForService("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Error encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

// writeServiceError maps board errors to HTTP statuses. Store failures are
// logged and reported without driver details.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, core.ErrInvalidArgument):
		s.writeError(w, http.StatusBadRequest, "Invalid argument", err.Error())
	default:
		s.log.Errorf("request failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "Internal error", core.ErrStoreUnavailable.Error())
	}
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+UserHeader)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware echoes the caller's X-Request-ID or assigns a new one.
func RequestIDMiddleware(next http.Handler) http.Handler {
	logger := log.ForService("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		logger.Debugf("%s %s id=%s", r.Method, r.URL.Path, id)
		next.ServeHTTP(w, r)
	})
}

// Package server provides the HTTP server for the sareefit virtual try-on service.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/sareefit/internal/app"
	"github.com/ayusman/sareefit/internal/logging"
	"github.com/ayusman/sareefit/internal/server/api"
	"github.com/ayusman/sareefit/internal/store"
)

// RequestIDHeader carries the per-request ID on responses.
const RequestIDHeader = "X-Request-ID"

// Config holds the server configuration.
type Config struct {
	StaticDir string
	App       *app.App
	Store     *store.Store
	Logger    *logrus.Logger
}

// Server represents the HTTP server for the sareefit application.
type Server struct {
	config  Config
	mux     *http.ServeMux
	handler http.Handler
	log     *logrus.Logger
	start   time.Time
	http    *http.Server
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		log:    logger,
		start:  time.Now(),
	}
	s.setupRoutes()
	s.handler = s.logRequests(s.mux)
	s.http = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.App != nil {
		s.mux.Handle("/api/measure", api.NewMeasureHandler(s.config.App, s.log))
		s.mux.Handle("/api/detect", api.NewDetectHandler(s.config.App, s.log))
		s.mux.Handle("/api/overlay", api.NewOverlayHandler(s.config.App, s.log))
		s.mux.Handle("/api/live", NewLiveHandler(s.config.App, s.log))
	}

	// Session resources need both the app and its store
	if s.config.App != nil && s.config.Store != nil {
		sessions := api.NewSessionHandler(s.config.App, s.config.Store, s.log)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	status := http.StatusOK
	if s.config.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.config.Store.Ping(ctx); err != nil {
			response["status"] = "degraded"
			response["database"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			response["database"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.WithField("error", err.Error()).Error("Failed to encode health response")
	}
}

// statusRecorder captures the status code and size written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Hijack hands the connection to the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// logRequests tags each request with an ID and logs its outcome.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		fields := logging.Fields{
			"request_id":    requestID,
			"method":        r.Method,
			"path":          r.URL.Path,
			"status":        rec.status,
			"latency_ms":    time.Since(start).Milliseconds(),
			"ip":            r.RemoteAddr,
			"user_agent":    r.UserAgent(),
			"response_size": rec.size,
		}

		entry := s.log.WithFields(fields)
		switch {
		case rec.status >= 500:
			entry.Error("Server error")
		case rec.status >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Success")
		}
	})
}

// ListenAndServe starts the HTTP server on the given address and blocks until
// it fails or Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	s.http.Addr = addr
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops a server started with ListenAndServe.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

package web

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/justestif/go-song-cluster-explorer/internal/render"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

const sweepInterval = 10 * time.Minute

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr        string
	Data        Dashboard
	Layout      render.Layout
	SessionTTL  time.Duration
	TemplatesFS fs.FS
	StaticFS    fs.FS
}

// Server is the HTTP server for the web application.
type Server struct {
	router    chi.Router
	server    *http.Server
	templates *Templates
	sessions  *SessionStore
	handlers  *Handlers
	logger    *log.Entry
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	sessions := NewSessionStore(cfg.SessionTTL)
	handlers := NewHandlers(cfg.Data, sessions, templates, cfg.Layout)
	router := chi.NewRouter()

	s := &Server{
		router:    router,
		templates: templates,
		sessions:  sessions,
		handlers:  handlers,
		logger: log.WithFields(log.Fields{
			"module": "server",
		}),
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.RequestLogger(&requestLogFormatter{logger: s.logger}))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(staticFS fs.FS) {
	// Static files
	fileServer := http.FileServer(http.FS(staticFS))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/", s.handlers.Home)
	s.router.Get("/healthz", s.handlers.Health)

	s.router.Post("/cluster/{id}", s.handlers.SelectCluster)
	s.router.Post("/filters", s.handlers.Filters)
	s.router.Post("/reset", s.handlers.Reset)
	s.router.Get("/controls/{kind}", s.handlers.Controls)

	s.router.Get("/api/snapshot", s.handlers.Snapshot)
	s.router.Get("/export/features.png", s.handlers.ExportFeatures)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Infof("Starting server at http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	// Channel to receive shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sweepDone := make(chan struct{})
	defer close(sweepDone)
	go s.sweepSessions(sweepDone)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}

func (s *Server) sweepSessions(done <-chan struct{}) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.logger.Debugf("Expired %d sessions", n)
			}
		case <-done:
			return
		}
	}
}

// requestLogFormatter logs one line per request through logrus.
type requestLogFormatter struct {
	logger *log.Entry
}

func (f *requestLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &requestLogEntry{
		logger: f.logger.WithFields(log.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"remote":     r.RemoteAddr,
		}),
	}
}

type requestLogEntry struct {
	logger *log.Entry
}

func (e *requestLogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ any) {
	entry := e.logger.WithFields(log.Fields{
		"status":  status,
		"bytes":   bytes,
		"elapsed": elapsed.Round(time.Microsecond).String(),
	})
	if status >= http.StatusInternalServerError {
		entry.Warn("Request failed")
		return
	}
	entry.Debug("Request served")
}

func (e *requestLogEntry) Panic(v any, stack []byte) {
	e.logger.WithField("stack", string(stack)).Errorf("Panic: %v", v)
}

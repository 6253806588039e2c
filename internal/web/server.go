// Package web serves the prediction forms as server-rendered HTML pages plus a small JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	nethttp "net/http"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/sirupsen/logrus"
)

// Server timeouts. WriteTimeout covers the slowest prediction call plus rendering.
const (
	readTimeout     = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server wraps an HTTP server and route handlers.
type Server struct {
	httpServer *nethttp.Server
	logger     *logrus.Logger
}

// deps are shared by every handler. Nothing in here is mutated per request.
type deps struct {
	cfg     *contract.Config
	client  contract.PredictionClient
	mgr     contract.CacheManager
	logger  *logrus.Logger
	pages   map[string]*template.Template
	version string
}

// Option customizes a Server.
type Option func(*deps)

// WithVersion sets the version reported by the status endpoint.
func WithVersion(version string) Option {
	return func(d *deps) { d.version = version }
}

// NewServer creates a configured HTTP server for the forms and the v1 API.
func NewServer(cfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager, logger *logrus.Logger, opts ...Option) (*Server, error) {
	if client == nil {
		return nil, errors.New("a prediction client is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	pages, err := loadPages()
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	d := &deps{cfg: cfg, client: client, mgr: mgr, logger: logger, pages: pages, version: "dev"}
	for _, opt := range opts {
		opt(d)
	}

	httpServer := &nethttp.Server{
		Addr:         cfg.Listen,
		Handler:      newHandler(d),
		ReadTimeout:  readTimeout,
		WriteTimeout: cfg.Timeout + readTimeout,
	}
	return &Server{httpServer: httpServer, logger: logger}, nil
}

// newHandler registers every route and wraps the mux with the middleware chain.
func newHandler(d *deps) nethttp.Handler {
	mux := nethttp.NewServeMux()

	mux.HandleFunc("GET /{$}", indexHandler(d))
	mux.HandleFunc("GET /favicon.ico", faviconHandler)
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /ready", readyHandler(d))
	mux.HandleFunc("/series", seriesHandler(d))
	mux.HandleFunc("/recommendations", recommendationsHandler(d))
	mux.HandleFunc("/classifier", classifierHandler(d))
	mux.HandleFunc("POST /api/v1/chart", chartAPIHandler(d))
	mux.HandleFunc("POST /api/v1/forecast", forecastAPIHandler(d))
	mux.HandleFunc("GET /api/v1/status", statusHandler(d))

	return loggingMiddleware(d.logger, recoveryMiddleware(d.logger, mux))
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() nethttp.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe starts the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("storecast web server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Run serves until ctx is canceled, then shuts down within shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down web server: %w", err)
		}
		return <-errCh
	}
}

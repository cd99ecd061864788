// Package server exposes one reconciliation session over HTTP: uploads into
// the two input slots, mapping management, combined reads, and exports.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dbsyncr/dbsyncr"
	"github.com/dbsyncr/dbsyncr/pkg/logging"
)

// Config holds server configuration.
type Config struct {
	Addr string

	// MaxUploadBytes caps the request body of dataset uploads.
	MaxUploadBytes int64

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:           "localhost:8080",
		MaxUploadBytes: 100 * 1024 * 1024,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
	}
}

// Server holds the HTTP server state and its session.
type Server struct {
	syncr     dbsyncr.Syncr
	config    Config
	http      *http.Server
	startTime time.Time
}

// New creates a server around an existing session.
func New(sx dbsyncr.Syncr, cfg Config) *Server {
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = DefaultConfig().MaxUploadBytes
	}

	s := &Server{
		syncr:     sx,
		config:    cfg,
		startTime: time.Now(),
	}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Router builds the chi route tree. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/upload/{slot}", s.handleUpload)
	r.Get("/mappings", s.handleGetMappings)
	r.Put("/mappings", s.handlePutMappings)
	r.Get("/datasets/{slot}", s.handleDataset)
	r.Get("/export/{slot}", s.handleExport)
	r.Get("/summary", s.handleSummary)
	r.Get("/unmatched", s.handleUnmatched)
	r.Get("/health", s.handleHealth)

	return r
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully. A background sweep evicts expired datasets.
func (s *Server) ListenAndServe(ctx context.Context, evictionInterval time.Duration) error {
	go s.evictLoop(ctx, evictionInterval)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.config.Addr).Msg("HTTP server listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// evictLoop periodically removes expired datasets from the session.
func (s *Server) evictLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := s.syncr.EvictExpired(); len(evicted) > 0 {
				logging.Debug().Int("slots", len(evicted)).Msg("Eviction sweep removed datasets")
			}
		}
	}
}

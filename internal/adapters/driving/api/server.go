package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driving"
	"github.com/custodia-labs/ocrtables/internal/logger"
)

// Default configuration values.
const (
	DefaultMaxUploadBytes = 50 << 20
	DefaultShutdownGrace  = 5 * time.Second
)

// ErrMissingExtractionService is returned when no extraction service is provided.
var ErrMissingExtractionService = errors.New("api: extraction service is required")

// Config holds HTTP API configuration.
type Config struct {
	// Addr is the listen address (default: :8000).
	Addr string

	// UploadDir holds uploads while they are processed (default: os.TempDir()).
	UploadDir string

	// MaxUploadBytes bounds the request body of /upload (default: 50 MiB).
	MaxUploadBytes int64
}

// Server serves the extraction pipeline over HTTP.
type Server struct {
	extraction driving.ExtractionService
	config     Config
	mux        *http.ServeMux
}

// NewServer creates a new HTTP API server.
func NewServer(extraction driving.ExtractionService, cfg Config) (*Server, error) {
	if extraction == nil {
		return nil, ErrMissingExtractionService
	}
	if cfg.Addr == "" {
		cfg.Addr = domain.DefaultServerAddr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}

	s := &Server{
		extraction: extraction,
		config:     cfg,
		mux:        http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.config.Addr
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("POST /upload", s.handleUpload)
	s.mux.HandleFunc("GET /extractions", s.handleList)
	s.mux.HandleFunc("GET /extractions/{id}", s.handleGet)
	s.mux.HandleFunc("DELETE /extractions/{id}", s.handleDelete)
	s.mux.HandleFunc("GET /extractions/{id}/archive", s.handleArchive)
	s.mux.HandleFunc("GET /extractions/{id}/files/{name}", s.handleFile)
}

// Handler returns the root handler with logging and CORS applied.
func (s *Server) Handler() http.Handler {
	return withLogging(withCORS(s.mux))
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("api: shutdown: %v", err)
		}
	}()

	logger.Info("api: listening on %s", s.config.Addr)

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// Package server provides the HTTP interface: an upload form, rendered
// scorecards and a small JSON API over the same analyses.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/spigell/ats-matcher/internal/analysis"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	defaultListen         = ":8080"
	defaultMaxUploadBytes = 10 << 20
	defaultRequestTimeout = 2 * time.Minute
	shutdownTimeout       = 30 * time.Second
)

// Analyzer runs the two analyses offered by the server.
type Analyzer interface {
	AnalyzeJob(ctx context.Context, resume analysis.Document, jobDescription string) *analysis.Report
	CompareResumes(ctx context.Context, first, second analysis.Document) *analysis.Report
}

// JobFetcher downloads a job posting by URL.
type JobFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Config holds server configuration
type Config struct {
	Listen         string
	MaxUploadBytes int64
	RequestTimeout time.Duration
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	analyzer   Analyzer
	fetcher    JobFetcher
	logger     *zap.Logger
	templates  *template.Template
	cfg        Config
}

// New creates a new server instance. fetcher may be nil, in which case job
// posting URLs are rejected.
func New(cfg Config, analyzer Analyzer, fetcher JobFetcher, logger *zap.Logger) (*Server, error) {
	if analyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Listen == "" {
		cfg.Listen = defaultListen
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		analyzer:  analyzer,
		fetcher:   fetcher,
		logger:    logger,
		templates: tmpl,
		cfg:       cfg,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:       time.Minute,
	}

	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /compare", s.handleCompare)
	mux.HandleFunc("POST /api/v1/analyze", s.handleAPIAnalyze)
	mux.HandleFunc("POST /api/v1/compare", s.handleAPICompare)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withRequestID(s.withLogging(s.withRecover(mux)))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

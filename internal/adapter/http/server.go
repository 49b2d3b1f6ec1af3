package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/bird-observations-service/internal/catalog"
	"github.com/couchcryptid/bird-observations-service/internal/query"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Catalog is the loaded observation data as seen by the handlers.
type Catalog interface {
	sharedobs.ReadinessChecker
	Snapshot() *catalog.Snapshot
	Err() *catalog.LoadError
}

// Asker answers a question about the loaded CSV.
type Asker interface {
	Ask(ctx context.Context, req query.Request) (query.Result, error)
}

// Renderer converts a Markdown answer to HTML.
type Renderer interface {
	ToHTML(src string) string
}

// Options configures the listener. WriteTimeout must cover a full model API
// round trip.
type Options struct {
	Addr         string
	WriteTimeout time.Duration
}

// Server serves the observation page, its JSON API, exports, and the
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	catalog    Catalog
	asker      Asker
	markdown   Renderer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the page, API, export, and health routes.
func NewServer(opts Options, cat Catalog, asker Asker, md Renderer, logger *slog.Logger) *Server {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
		catalog:  cat,
		asker:    asker,
		markdown: md,
		logger:   logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /{$}", s.handlePageQuery)
	mux.HandleFunc("GET /api/observations", s.handleObservations)
	mux.HandleFunc("POST /api/query", s.handleQuery)
	mux.HandleFunc("GET /observations.csv", s.handleCSV)
	mux.HandleFunc("GET /observations.xlsx", s.handleXLSX)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(cat))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

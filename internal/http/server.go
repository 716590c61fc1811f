// Package http serves the dashboard page and the JSON API the charts
// are drawn from.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"brewboard/internal/backend"
	"brewboard/internal/cache"
	"brewboard/internal/config"
	applog "brewboard/internal/log"
	"brewboard/web"
)

// Server owns the HTTP surface: router, templates, and the per-chart
// result caches.
type Server struct {
	httpServer   *http.Server
	cfg          *config.Config
	source       backend.Source
	logger       *applog.Logger
	templates    *template.Template
	chartCache   *cache.LRU[ChartResponse]
	metricsCache *cache.LRU[MetricsResponse]
	janitor      *cache.Janitor

	// now is the reference clock for preset resolution.
	now func() time.Time
}

// NewServer wires routes, templates and caches. It does not listen yet.
func NewServer(cfg *config.Config, source backend.Source, logger *applog.Logger) (*Server, error) {
	templates, err := template.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		cfg:          cfg,
		source:       source,
		logger:       logger.WithComponent(applog.ComponentHTTP),
		templates:    templates,
		chartCache:   cache.NewLRU[ChartResponse](cfg.CacheSize, cfg.CacheTTL),
		metricsCache: cache.NewLRU[MetricsResponse](cfg.CacheSize, cfg.CacheTTL),
		janitor:      cache.NewJanitor(),
		now:          time.Now,
	}
	s.janitor.Register(s.chartCache)
	s.janitor.Register(s.metricsCache)

	s.httpServer = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        s.routes(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))

	r.Get("/", s.handleDashboard)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/filters", s.handleFilters)
		r.Get("/metrics", s.handleMetrics)
		r.Get("/charts/{chart}", s.handleChart)
		r.Post("/refresh", s.handleRefresh)
	})

	static, err := fs.Sub(web.Static, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start runs the cache janitor and blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	s.janitor.Start(time.Minute)
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the janitor.
func (s *Server) Shutdown(ctx context.Context) error {
	s.janitor.Stop()
	return s.httpServer.Shutdown(ctx)
}

// InvalidateData drops the memoized dataset and every cached aggregate.
// Called on explicit refresh and on dataset-refresh events.
func (s *Server) InvalidateData() {
	s.source.Invalidate()
	s.chartCache.Flush()
	s.metricsCache.Flush()
	s.logger.Info("Dataset caches flushed", applog.FieldOperation, applog.OpRefresh)
}

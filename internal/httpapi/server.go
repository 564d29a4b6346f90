// Package httpapi serves the sales analyses as a read-only JSON API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/huangsam/salespulse/core"
	"github.com/huangsam/salespulse/internal/contract"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	readHeaderTimeout = 5 * time.Second
	requestTimeout    = 30 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server exposes the analyses over HTTP.
type Server struct {
	baseCfg  *contract.Config
	src      contract.SalesSource
	validate *validator.Validate
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *Metrics
}

// NewServer wires a server around src. Results are cached through mgr when it has a store.
func NewServer(baseCfg *contract.Config, src contract.SalesSource, mgr contract.CacheManager, logger zerolog.Logger) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		baseCfg:  baseCfg,
		src:      core.NewCachedSource(src, mgr, baseCfg.CacheTTL),
		validate: newValidator(),
		logger:   logger,
		registry: reg,
		metrics:  NewMetrics(reg),
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(cacheControl)

		r.Get("/branches", s.handleBranches)
		r.Get("/compare", s.analysis(s.compare))
		r.Get("/trend", s.analysis(s.trend))
		r.Get("/pareto", s.analysis(s.pareto))
		r.Get("/growth", s.analysis(s.growth))
		r.Get("/summary", s.analysis(s.summary))
		r.Get("/report", s.analysis(s.report))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// cacheControl honors "Cache-Control: no-cache" by skipping the result cache.
func cacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cache-Control") == "no-cache" {
			r = r.WithContext(core.WithCacheBypass(r.Context()))
		}
		next.ServeHTTP(w, r)
	})
}

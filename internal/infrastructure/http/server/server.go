package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"3tcapital/nfe_dados/internal/infrastructure/config"
	"3tcapital/nfe_dados/internal/infrastructure/http/middleware"
)

// Handlers groups the route handlers mounted on the router.
type Handlers struct {
	Health        http.HandlerFunc
	ProcessarLote http.HandlerFunc
	ExportarLote  http.HandlerFunc
}

// Server wraps the HTTP server and its routing.
type Server struct {
	log             *slog.Logger
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// New builds the router and the underlying http.Server.
// The server-level write timeout is the extended one: the batch route
// holds the connection open for the whole paced run.
func New(cfg config.AppConfig, log *slog.Logger, auth *middleware.JWTAuthenticator, h Handlers) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	if auth != nil {
		r.Use(auth.Middleware)
	}

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/nfe/lotes", func(r chi.Router) {
		r.With(middleware.ExtendedTimeout(cfg.HTTP)).Post("/", h.ProcessarLote)
		r.Post("/exportar", h.ExportarLote)
	})

	return &Server{
		log:             log,
		shutdownTimeout: cfg.HTTP.ShutdownTimeout,
		httpServer: &http.Server{
			Addr:         cfg.HTTP.Address(),
			Handler:      r,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeoutLote,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

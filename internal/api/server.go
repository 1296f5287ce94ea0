// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/staybook/internal/auth"
	"github.com/taibuivan/staybook/internal/platform/config"
	"github.com/taibuivan/staybook/internal/platform/constants"
	"github.com/taibuivan/staybook/internal/platform/middleware"
	"github.com/taibuivan/staybook/internal/users/account"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler, 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles login, token validation and logout.
	Auth *auth.Handler

	// Users handles registration and the current-user profile.
	Users *account.Handler

	// Metrics exposes Prometheus collectors. Optional.
	Metrics http.Handler
}

// Guards holds the request-level protections shared by every route.
type Guards struct {
	Origins     middleware.OriginPolicy
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.Metrics
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, guards Guards, h Handlers) *Server {
	r := NewRouter(cfg, log, guards, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routing tree without binding a listener.
func NewRouter(cfg *config.Config, log *slog.Logger, guards Guards, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(guards.Metrics.Handler)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(guards.Origins))
	r.Use(chimw.CleanPath)
	r.Use(chimw.Compress(5))

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	// # Application API
	r.Route("/api", func(api chi.Router) {
		if guards.RateLimiter != nil {
			api.Use(guards.RateLimiter.Handler)
		}

		api.Get("/health", h.Liveness)
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Users.Routes())
	})

	return r
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}

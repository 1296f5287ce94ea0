// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Staybook HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (aborts without JWT_SECRET).
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when token revocation is enabled.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/staybook/internal/api"
	"github.com/taibuivan/staybook/internal/auth"
	"github.com/taibuivan/staybook/internal/platform/config"
	"github.com/taibuivan/staybook/internal/platform/constants"
	"github.com/taibuivan/staybook/internal/platform/middleware"
	"github.com/taibuivan/staybook/internal/platform/migration"
	pgstore "github.com/taibuivan/staybook/internal/platform/postgres"
	redisstore "github.com/taibuivan/staybook/internal/platform/redis"
	"github.com/taibuivan/staybook/internal/platform/sec"
	"github.com/taibuivan/staybook/internal/platform/session"
	"github.com/taibuivan/staybook/internal/users/account"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("token_revocation", cfg.RevocationEnabled()),
	)

	// Root context for background workers, cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Use a 30s deadline so misconfiguration is caught quickly rather than
	// hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	healthChecks := []api.HealthCheck{
		{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
	}

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var authOptions []auth.ServiceOption
	var authnOptions []middleware.AuthOption

	if cfg.RevocationEnabled() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_error", slog.Any("error", cerr))
			}
		}()

		revocations := auth.NewRevocationStore(rdb)
		authOptions = append(authOptions, auth.WithRevocationStore(revocations))
		authnOptions = append(authnOptions, middleware.WithRevocationCheck(revocations))

		healthChecks = append(healthChecks, api.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService([]byte(cfg.JWTSecret), constants.AuthIssuer, constants.SessionTokenTTL)
	must(log, err, "initialize token service")

	policy := session.NewPolicy(session.Options{
		Domain: cfg.CookieDomain,
		Secure: cfg.IsProduction(),
	})

	// ── 7. Observability ──────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)
	authnOptions = append(authnOptions, middleware.WithAuthMetrics(metrics))

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	authenticate := middleware.Authenticate(tokens, policy, authnOptions...)

	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, tokens, sec.NewPasswordHasher(bcrypt.DefaultCost), authOptions...)
	accountService := account.NewService(userRepository)

	liveness, readiness := api.NewHealthHandlers(healthChecks, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	guards := api.Guards{
		Origins:     middleware.NewOriginPolicy(cfg.Origins(), cfg.TrustedOriginSuffix, cfg.IsDevelopment()),
		RateLimiter: middleware.NewRateLimiter(rootCtx, cfg.RateLimitRequests, cfg.RateLimitWindow),
		Metrics:     metrics,
	}

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, policy, authenticate),
		Users:     account.NewHandler(accountService, authService, policy, authenticate),
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	}

	server := api.NewServer(cfg, log, guards, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		rootCancel()
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger with the global app attribute.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

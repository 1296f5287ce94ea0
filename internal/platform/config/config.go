// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to the token service, session policy and CORS layer via constructors.
  - Zero Hidden State: No global variables are used to store config.

A missing JWT_SECRET fails [Load], which aborts startup before any traffic is accepted.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/staybook/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the Staybook API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"7002"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Optional; only needed for token revocation.
	RedisURL        string `env:"REDIS_URL"`
	TokenRevocation bool   `env:"TOKEN_REVOCATION" envDefault:"false"`

	// Signing secret for session tokens
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	// CookieDomain is written as the explicit Domain attribute of the auth cookie.
	CookieDomain string `env:"COOKIE_DOMAIN" envDefault:"localhost"`

	// Cross-Origin Resource Sharing
	FrontendURL         string   `env:"FRONTEND_URL"`
	AllowedOrigins      []string `env:"CORS_ALLOWED_ORIGINS"  envSeparator:"," envDefault:"http://localhost:5173,http://localhost:5174"`
	TrustedOriginSuffix []string `env:"CORS_TRUSTED_SUFFIXES" envSeparator:"," envDefault:".netlify.app"`

	// Rate limiting per client IP
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"200"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW"   envDefault:"15m"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = constants.DefaultRateLimitRequests
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = constants.DefaultRateLimitWindow
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the exact-match CORS allow-list, including FrontendURL when set.
func (c *Config) Origins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	return append(origins, c.AllowedOrigins...)
}

// RevocationEnabled reports whether logout should record revoked token ids in Redis.
func (c *Config) RevocationEnabled() bool {
	return c.TokenRevocation && c.RedisURL != ""
}

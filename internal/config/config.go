// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost    string `env:"RDECK_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"RDECK_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"RDECK_ENV" envDefault:"development"`
	SessionSecret string `env:"RDECK_SESSION_SECRET,required"`
	LogLevel      string `env:"RDECK_LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"RDECK_LOG_FORMAT" envDefault:"text"` // text or json

	// Cache configuration
	RedisURL    string        `env:"RDECK_REDIS_URL"` // optional, enables Redis-backed snapshot cache
	CachePrefix string        `env:"RDECK_CACHE_PREFIX" envDefault:"rdeck:"`
	CacheTTL    time.Duration `env:"RDECK_CACHE_TTL" envDefault:"1m"`

	// Dashboard snapshot refresh interval. Also the snapshot TTL.
	StatsRefreshInterval time.Duration `env:"RDECK_STATS_REFRESH_INTERVAL" envDefault:"30s"`

	// Rate limiting
	GlobalRateLimit float64 `env:"RDECK_RATE_LIMIT" envDefault:"20"` // requests per second per IP
	GlobalRateBurst int     `env:"RDECK_RATE_BURST" envDefault:"40"`

	// GeoIP configuration
	GeoIPDBPath string `env:"RDECK_GEOIP_DB_PATH"` // path to GeoLite2-Country.mmdb

	// Seeding configuration
	DoSeed bool `env:"RDECK_DO_SEED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinSessionSecretLength is the minimum required length for the session
// secret. The CSRF layer derives an AES-256 key from it.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("RDECK_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("RDECK_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("RDECK_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.StatsRefreshInterval <= 0 {
		return nil, fmt.Errorf("RDECK_STATS_REFRESH_INTERVAL must be positive, got %s", cfg.StatsRefreshInterval)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config selects and configures the cache backend.
type Config struct {
	// Type is "memory" or "redis".
	Type string

	// RedisURL is the connection URL when Type is "redis".
	RedisURL string

	// Prefix namespaces Redis keys.
	Prefix string

	// DefaultTTL applies when a Set passes a zero TTL.
	DefaultTTL time.Duration

	// CleanupInterval is the memory backend's expired-entry sweep interval.
	CleanupInterval time.Duration
}

// DefaultConfig returns the stock memory-backend configuration.
func DefaultConfig() Config {
	return Config{
		Type:            "memory",
		Prefix:          "rdeck:",
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute,
	}
}

// New builds a cache for the configuration. An unreachable Redis is not
// fatal: the dashboard can always serve from local memory, so the factory
// logs the failure and falls back.
func New(cfg Config) Cache {
	if cfg.Type == "redis" && cfg.RedisURL != "" {
		c, err := NewRedisCache(RedisCacheOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			slog.Info("cache backend ready", "type", "redis")
			return c
		}
		slog.Warn("redis cache unavailable, falling back to memory", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		CleanupInterval: cfg.CleanupInterval,
	})
}

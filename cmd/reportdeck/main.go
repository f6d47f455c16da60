// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/reportdeck/reportdeck/internal/cache"
	"github.com/reportdeck/reportdeck/internal/config"
	"github.com/reportdeck/reportdeck/internal/directory"
	"github.com/reportdeck/reportdeck/internal/geoip"
	"github.com/reportdeck/reportdeck/internal/handler"
	"github.com/reportdeck/reportdeck/internal/logging"
	"github.com/reportdeck/reportdeck/internal/middleware"
	"github.com/reportdeck/reportdeck/internal/rbac"
	"github.com/reportdeck/reportdeck/internal/scheduler"
	"github.com/reportdeck/reportdeck/internal/service"
	"github.com/reportdeck/reportdeck/internal/session"
	"github.com/reportdeck/reportdeck/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "ReportDeck - internal reporting dashboard\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RDECK_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RDECK_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RDECK_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RDECK_REDIS_URL        Redis URL for the snapshot cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RDECK_GEOIP_DB_PATH    Path to GeoLite2-Country.mmdb (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RDECK_DO_SEED          Seed demo users and pages (default: true)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("reportdeck %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	ctx := context.Background()

	// Initialize the in-memory directory
	store := directory.New()
	if cfg.DoSeed {
		if err := store.Seed(ctx); err != nil {
			return fmt.Errorf("seeding directory: %w", err)
		}
		slog.Info("directory seeded with demo users and pages")
	}

	registry := rbac.NewRegistry()
	slog.Info("rbac registry initialized", "roles", len(registry.Roles()), "permissions", len(registry.Permissions()))

	sessionManager := session.New(cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Snapshot cache, Redis when configured
	cacheConfig := cache.Config{
		Type:            "memory",
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTL,
		CleanupInterval: time.Minute,
	}
	if cfg.UseRedisCache() {
		cacheConfig.Type = "redis"
	}
	snapshotCache := cache.New(cacheConfig)
	defer func() {
		if err := snapshotCache.Close(); err != nil {
			slog.Error("closing cache", "error", err)
		}
	}()
	slog.Info("snapshot cache initialized", "backend", cacheConfig.Type)

	// Optional GeoIP enrichment for the activity log
	geo := geoip.NewLookup()
	if cfg.GeoIPEnabled() {
		if err := geo.Init(cfg.GeoIPDBPath); err != nil {
			slog.Warn("geoip disabled", "error", err)
		} else {
			slog.Info("geoip database loaded", "path", cfg.GeoIPDBPath)
		}
	}
	defer func() {
		if err := geo.Close(); err != nil {
			slog.Error("closing geoip database", "error", err)
		}
	}()

	recorder := service.NewActivityRecorder(store, geo)
	editSessions := service.NewEditSessions(store)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	apiRateLimiter := middleware.NewGlobalRateLimiter(cfg.GlobalRateLimit, cfg.GlobalRateBurst)

	// Periodic dashboard snapshot refresh
	refresher := scheduler.New(store, snapshotCache, handler.StatsCacheKey, cfg.StatsRefreshInterval, slog.Default())
	if err := refresher.Start(); err != nil {
		return fmt.Errorf("starting stats refresher: %w", err)
	}
	defer refresher.Stop()

	// Handlers
	authHandler := handler.NewAuthHandler(store, sessionManager, loginProtection)
	userHandler := handler.NewUserHandler(store)
	pageHandler := handler.NewPageHandler(store, recorder)
	editorHandler := handler.NewEditorHandler(store, editSessions)
	roleHandler := handler.NewRoleHandler(registry)
	activityHandler := handler.NewActivityHandler(store)
	dashboardHandler := handler.NewDashboardHandler(store, snapshotCache)
	healthHandler := handler.NewHealthHandler(versionInfo, registry)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)

	// Health check routes (admins get runtime details)
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadUser(sessionManager, store))
		r.Get("/health", healthHandler.Health)
	})
	r.Get("/health/live", healthHandler.Liveness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiRateLimiter.Middleware())
		r.Use(csrfMiddleware)

		// Login is the only unauthenticated endpoint
		r.With(loginProtection.Middleware()).Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessionManager))
			r.Use(middleware.LoadUser(sessionManager, store))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Get("/dashboard", dashboardHandler.Dashboard)

			r.With(middleware.RequirePermission(registry, rbac.PermAnalyticsView)).
				Get("/stats", dashboardHandler.Stats)
			r.With(middleware.RequirePermission(registry, rbac.PermSystemLogs)).
				Get("/activity", activityHandler.List)

			// Pages: listing and viewing apply the visibility filter internally
			r.Route("/pages", func(r chi.Router) {
				r.Get("/", pageHandler.List)
				r.Get("/subtypes", pageHandler.SubTypes)
				r.With(middleware.RequirePermission(registry, rbac.PermPagesCreate)).
					Post("/", pageHandler.Create)
				r.Get("/{pageID}", pageHandler.Get)
				r.Get("/{pageID}/view", pageHandler.View)
				r.With(middleware.RequirePermission(registry, rbac.PermPagesEdit)).
					Put("/{pageID}", pageHandler.Update)
				r.With(middleware.RequirePermission(registry, rbac.PermPagesDelete)).
					Delete("/{pageID}", pageHandler.Delete)

				// Section editor sessions with debounced autosave
				r.Route("/{pageID}/editor", func(r chi.Router) {
					r.Use(middleware.RequirePermission(registry, rbac.PermPagesEdit))
					r.Post("/", editorHandler.Open)
					r.Get("/", editorHandler.State)
					r.Delete("/", editorHandler.Close)
					r.Post("/sections", editorHandler.AddSection)
					r.Put("/sections/{sectionID}", editorHandler.UpdateSection)
					r.Delete("/sections/{sectionID}", editorHandler.DeleteSection)
					r.Post("/sections/{sectionID}/select", editorHandler.SelectSection)
					r.Put("/layout", editorHandler.SetLayout)
					r.Post("/undo", editorHandler.Undo)
					r.Post("/redo", editorHandler.Redo)
					r.Post("/save", editorHandler.Save)
				})
			})

			// User management
			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequirePermission(registry, rbac.PermUsersView)).
					Get("/", userHandler.List)
				r.With(middleware.RequirePermission(registry, rbac.PermUsersCreate)).
					Post("/", userHandler.Create)
				r.With(middleware.RequirePermission(registry, rbac.PermUsersView)).
					Get("/{userID}", userHandler.Get)
				r.With(middleware.RequirePermission(registry, rbac.PermUsersEdit)).
					Put("/{userID}", userHandler.Update)
				r.With(middleware.RequirePermission(registry, rbac.PermUsersDelete)).
					Delete("/{userID}", userHandler.Delete)
				r.With(middleware.RequirePermission(registry, rbac.PermUsersEdit)).
					Post("/{userID}/active", userHandler.SetActive)
				r.With(middleware.RequirePermission(registry, rbac.PermUsersEdit)).
					Post("/{userID}/pages", userHandler.AssignPages)
			})

			// Role management is admin territory
			r.Route("/roles", func(r chi.Router) {
				r.Use(middleware.RequirePermission(registry, rbac.PermUsersManageRole))
				r.Get("/", roleHandler.List)
				r.Post("/", roleHandler.Create)
				r.Put("/{roleID}", roleHandler.Update)
				r.Delete("/{roleID}", roleHandler.Delete)
			})
		})
	})
	slog.Info("REST API v1 mounted at /api/v1")

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/reportdeck/reportdeck/internal/cache"
	"github.com/reportdeck/reportdeck/internal/directory"
	"github.com/reportdeck/reportdeck/internal/middleware"
	"github.com/reportdeck/reportdeck/internal/model"
	"github.com/reportdeck/reportdeck/internal/rbac"
)

// StatsCacheKey is the cache key for the dashboard stats snapshot, shared
// with the refresh scheduler.
const StatsCacheKey = "dashboard:stats"

// DashboardHandler serves dashboard stats and the combined dashboard view.
type DashboardHandler struct {
	store *directory.Store
	cache cache.Cache
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(store *directory.Store, c cache.Cache) *DashboardHandler {
	return &DashboardHandler{store: store, cache: c}
}

// Stats handles GET /api/v1/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSONSuccess(w, map[string]any{"stats": h.stats(r)})
}

// Dashboard handles GET /api/v1/dashboard: the stats snapshot plus the
// caller's visible pages in one response.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	writeJSONSuccess(w, map[string]any{
		"stats": h.stats(r),
		"pages": rbac.VisiblePages(user, h.store.ListPages(r.Context())),
	})
}

// stats reads the snapshot through the cache, computing directly on a miss.
func (h *DashboardHandler) stats(r *http.Request) model.DashboardStats {
	if h.cache != nil {
		if raw, err := h.cache.Get(r.Context(), StatsCacheKey); err == nil {
			var stats model.DashboardStats
			if err := json.Unmarshal(raw, &stats); err == nil {
				return stats
			}
			slog.Warn("discarding malformed stats snapshot", "error", err)
		}
	}

	stats := h.store.Stats(r.Context())
	if h.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := h.cache.Set(r.Context(), StatsCacheKey, raw, 0); err != nil {
				slog.Warn("caching stats snapshot", "error", err)
			}
		}
	}
	return stats
}

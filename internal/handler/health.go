// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/reportdeck/reportdeck/internal/middleware"
	"github.com/reportdeck/reportdeck/internal/rbac"
	"github.com/reportdeck/reportdeck/internal/version"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	versionInfo version.Info
	registry    *rbac.Registry
	startTime   time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(info version.Info, registry *rbac.Registry) *HealthHandler {
	return &HealthHandler{
		versionInfo: info,
		registry:    registry,
		startTime:   time.Now(),
	}
}

// healthStatus is the health response. System fields appear only for admins.
type healthStatus struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime,omitempty"`
	Version      string `json:"version,omitempty"`
	GoVersion    string `json:"go_version,omitempty"`
	NumGoroutine int    `json:"num_goroutines,omitempty"`
}

// Health handles GET /health. Anonymous callers get the bare status;
// callers whose role carries system.settings get uptime and runtime details.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{Status: "healthy"}

	if user := middleware.GetUser(r); user != nil && h.registry.HasPermission(user.Role, rbac.PermSystemSettings) {
		status.Uptime = time.Since(h.startTime).Round(time.Second).String()
		status.Version = h.versionInfo.Version
		status.GoVersion = runtime.Version()
		status.NumGoroutine = runtime.NumGoroutine()
	}

	writeJSON(w, http.StatusOK, status)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

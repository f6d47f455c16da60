// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reportdeck/reportdeck/internal/model"
	"github.com/reportdeck/reportdeck/internal/rbac"
	"github.com/reportdeck/reportdeck/internal/version"
)

func healthBody(t *testing.T, h *HealthHandler, user *model.User) map[string]any {
	t.Helper()
	r := httptest.NewRequest("GET", "/health", nil)
	if user != nil {
		r = asUser(r, *user)
	}
	rec := httptest.NewRecorder()
	h.Health(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestHealthAnonymousGetsBareStatus(t *testing.T) {
	h := NewHealthHandler(version.Info{Version: "1.2.3"}, rbac.NewRegistry())

	body := healthBody(t, h, nil)
	if body["status"] != "healthy" {
		t.Errorf("status = %v", body["status"])
	}
	if _, ok := body["version"]; ok {
		t.Error("version leaked to anonymous caller")
	}
	if _, ok := body["uptime"]; ok {
		t.Error("uptime leaked to anonymous caller")
	}
}

func TestHealthSystemSettingsPermissionGetsDetails(t *testing.T) {
	h := NewHealthHandler(version.Info{Version: "1.2.3"}, rbac.NewRegistry())

	admin := model.User{ID: "a1", Role: model.RoleAdmin, IsActive: true}
	body := healthBody(t, h, &admin)
	if body["version"] != "1.2.3" {
		t.Errorf("version = %v, want 1.2.3", body["version"])
	}
	if _, ok := body["uptime"]; !ok {
		t.Error("uptime missing for admin")
	}
}

func TestHealthEditorGetsBareStatus(t *testing.T) {
	h := NewHealthHandler(version.Info{Version: "1.2.3"}, rbac.NewRegistry())

	// Editors lack system.settings, so they see only the bare status.
	editor := model.User{ID: "e1", Role: model.RoleEditor, IsActive: true}
	body := healthBody(t, h, &editor)
	if body["status"] != "healthy" {
		t.Errorf("status = %v", body["status"])
	}
	if _, ok := body["version"]; ok {
		t.Error("version leaked to editor")
	}
}

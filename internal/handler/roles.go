// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reportdeck/reportdeck/internal/model"
	"github.com/reportdeck/reportdeck/internal/rbac"
)

// RoleHandler handles role and permission management routes.
type RoleHandler struct {
	registry *rbac.Registry
}

// NewRoleHandler creates a RoleHandler.
func NewRoleHandler(registry *rbac.Registry) *RoleHandler {
	return &RoleHandler{registry: registry}
}

// List handles GET /api/v1/roles.
func (h *RoleHandler) List(w http.ResponseWriter, _ *http.Request) {
	writeJSONSuccess(w, map[string]any{
		"roles":       h.registry.Roles(),
		"permissions": h.registry.Permissions(),
	})
}

type roleRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// Create handles POST /api/v1/roles.
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == "" || req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "Role id and name are required")
		return
	}

	err := h.registry.CreateRole(model.Role{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	role, err := h.registry.Role(req.ID)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"role": role})
}

// Update handles PUT /api/v1/roles/{roleID}. System roles reject updates.
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	roleID := chi.URLParam(r, "roleID")
	if err := h.registry.UpdateRole(roleID, req.Name, req.Description, req.Permissions); err != nil {
		h.writeRegistryError(w, err)
		return
	}
	role, err := h.registry.Role(roleID)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"role": role})
}

// Delete handles DELETE /api/v1/roles/{roleID}. System roles reject deletion.
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.DeleteRole(chi.URLParam(r, "roleID")); err != nil {
		h.writeRegistryError(w, err)
		return
	}
	writeJSONSuccess(w, nil)
}

func (h *RoleHandler) writeRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rbac.ErrRoleNotFound):
		writeJSONError(w, http.StatusNotFound, "Role not found")
	case errors.Is(err, rbac.ErrSystemRole):
		writeJSONError(w, http.StatusForbidden, "System roles cannot be modified")
	case errors.Is(err, rbac.ErrDuplicateRole):
		writeJSONError(w, http.StatusConflict, "Role already exists")
	default:
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reportdeck/reportdeck/internal/directory"
)

// UserHandler handles user management routes.
type UserHandler struct {
	store *directory.Store
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(store *directory.Store) *UserHandler {
	return &UserHandler{store: store}
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSONSuccess(w, map[string]any{"users": h.store.ListUsers(r.Context())})
}

type createUserRequest struct {
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	Role          string   `json:"role"`
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	AssignedPages []string `json:"assignedPages"`
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" || req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "Username, password and name are required")
		return
	}

	user, err := h.store.CreateUser(r.Context(), directory.CreateUserParams{
		Username:      req.Username,
		Password:      req.Password,
		Role:          req.Role,
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		AssignedPages: req.AssignedPages,
	})
	if err != nil {
		if errors.Is(err, directory.ErrDuplicateUsername) {
			writeJSONError(w, http.StatusConflict, "Username already exists")
			return
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSONSuccess(w, map[string]any{"user": user})
}

// Get handles GET /api/v1/users/{userID}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeStoreError(w, err, "User not found")
		return
	}
	writeJSONSuccess(w, map[string]any{"user": user})
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

// Update handles PUT /api/v1/users/{userID}. Absent fields are left as is.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := chi.URLParam(r, "userID")
	err := h.store.UpdateUser(r.Context(), id, directory.UpdateUserParams{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, directory.ErrDuplicateUsername) {
			writeJSONError(w, http.StatusConflict, "Username already exists")
			return
		}
		writeStoreError(w, err, "User not found")
		return
	}

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "User not found")
		return
	}
	writeJSONSuccess(w, map[string]any{"user": user})
}

// Delete handles DELETE /api/v1/users/{userID}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteUser(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeStoreError(w, err, "User not found")
		return
	}
	writeJSONSuccess(w, nil)
}

type setActiveRequest struct {
	IsActive bool `json:"isActive"`
}

// SetActive handles POST /api/v1/users/{userID}/active.
func (h *UserHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.store.SetUserActive(r.Context(), chi.URLParam(r, "userID"), req.IsActive); err != nil {
		writeStoreError(w, err, "User not found")
		return
	}
	writeJSONSuccess(w, nil)
}

type assignPagesRequest struct {
	PageIDs []string `json:"pageIds"`
}

// AssignPages handles POST /api/v1/users/{userID}/pages, replacing the
// user's page assignments. Unknown page IDs are rejected.
func (h *UserHandler) AssignPages(w http.ResponseWriter, r *http.Request) {
	var req assignPagesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	for _, pageID := range req.PageIDs {
		if _, err := h.store.GetPage(r.Context(), pageID); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Unknown page: "+pageID)
			return
		}
	}

	if err := h.store.AssignPages(r.Context(), chi.URLParam(r, "userID"), req.PageIDs); err != nil {
		writeStoreError(w, err, "User not found")
		return
	}
	writeJSONSuccess(w, nil)
}

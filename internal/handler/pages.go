// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reportdeck/reportdeck/internal/directory"
	"github.com/reportdeck/reportdeck/internal/middleware"
	"github.com/reportdeck/reportdeck/internal/model"
	"github.com/reportdeck/reportdeck/internal/rbac"
	"github.com/reportdeck/reportdeck/internal/render"
	"github.com/reportdeck/reportdeck/internal/service"
)

// PageHandler handles report page routes.
type PageHandler struct {
	store    *directory.Store
	recorder *service.ActivityRecorder
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(store *directory.Store, recorder *service.ActivityRecorder) *PageHandler {
	return &PageHandler{store: store, recorder: recorder}
}

// List handles GET /api/v1/pages, returning only the pages visible to the
// current user.
func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	pages := rbac.VisiblePages(user, h.store.ListPages(r.Context()))
	writeJSONSuccess(w, map[string]any{"pages": pages})
}

// SubTypes handles GET /api/v1/pages/subtypes, returning the sub-types
// available per page type for the page creation form.
func (h *PageHandler) SubTypes(w http.ResponseWriter, _ *http.Request) {
	subTypes := make(map[string][]string)
	for _, t := range []string{model.PageTypePowerBI, model.PageTypeSpreadsheet, model.PageTypeHTML} {
		subTypes[t] = model.PageSubTypes(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"subTypes": subTypes})
}

type createPageRequest struct {
	Title        string             `json:"title"`
	Type         string             `json:"type"`
	SubType      string             `json:"subType"`
	Description  string             `json:"description"`
	Content      *model.PageContent `json:"content"`
	EmbedURL     string             `json:"embedUrl"`
	HTMLContent  string             `json:"htmlContent"`
	AllowedRoles []string           `json:"allowedRoles"`
}

// Create handles POST /api/v1/pages.
func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		writeJSONError(w, http.StatusBadRequest, "Title is required")
		return
	}

	page, err := h.store.CreatePage(r.Context(), directory.CreatePageParams{
		Title:        req.Title,
		Type:         req.Type,
		SubType:      req.SubType,
		Description:  req.Description,
		Content:      req.Content,
		EmbedURL:     req.EmbedURL,
		HTMLContent:  req.HTMLContent,
		CreatedBy:    middleware.GetUserID(r),
		AllowedRoles: req.AllowedRoles,
	})
	if err != nil {
		if errors.Is(err, directory.ErrInvalidPage) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSONSuccess(w, map[string]any{"page": page})
}

// Get handles GET /api/v1/pages/{pageID}.
func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	page, ok := h.visiblePage(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"page": page})
}

type updatePageRequest struct {
	Title   *string            `json:"title"`
	Content *model.PageContent `json:"content"`
	UserID  string             `json:"userId"`
}

// Update handles PUT /api/v1/pages/{pageID}: the autosave endpoint behind
// the content editor.
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pageID := chi.URLParam(r, "pageID")
	updatedBy := req.UserID
	if updatedBy == "" {
		updatedBy = middleware.GetUserID(r)
	}

	err := h.store.UpdatePage(r.Context(), pageID, directory.UpdatePageParams{
		Title:     req.Title,
		Content:   req.Content,
		UpdatedBy: updatedBy,
	})
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Page not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "Failed to update page")
		return
	}

	page, err := h.store.GetPage(r.Context(), pageID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to update page")
		return
	}
	writeJSONSuccess(w, map[string]any{"page": page})
}

// Delete handles DELETE /api/v1/pages/{pageID}.
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeletePage(r.Context(), chi.URLParam(r, "pageID"), middleware.GetUserID(r))
	if err != nil {
		writeStoreError(w, err, "Page not found")
		return
	}
	writeJSONSuccess(w, nil)
}

// View handles GET /api/v1/pages/{pageID}/view, returning the sanitized
// viewer HTML and logging a page view.
func (h *PageHandler) View(w http.ResponseWriter, r *http.Request) {
	page, ok := h.visiblePage(w, r)
	if !ok {
		return
	}

	html, err := render.Page(page)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if h.recorder != nil {
		h.recorder.Record(r, middleware.GetUserID(r), model.ActionPageView, "Viewed page: "+page.Title)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// visiblePage fetches the requested page and enforces the visibility
// predicate. It writes the error response itself when the page is missing
// or off-limits.
func (h *PageHandler) visiblePage(w http.ResponseWriter, r *http.Request) (*model.Page, bool) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	page, err := h.store.GetPage(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "Page not found")
		return nil, false
	}
	if !rbac.CanSeePage(user, page) {
		writeJSONError(w, http.StatusForbidden, "Forbidden")
		return nil, false
	}
	return page, true
}

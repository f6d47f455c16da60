// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"

	"github.com/reportdeck/reportdeck/internal/directory"
)

// ActivityHandler serves the activity log.
type ActivityHandler struct {
	store *directory.Store
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(store *directory.Store) *ActivityHandler {
	return &ActivityHandler{store: store}
}

// List handles GET /api/v1/activity?limit=N, newest entries first.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSONError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}
	writeJSONSuccess(w, map[string]any{"activity": h.store.ListActivity(r.Context(), limit)})
}

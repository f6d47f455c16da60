// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the JSON API and the page viewer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/reportdeck/reportdeck/internal/directory"
)

// writeJSONError writes a JSON error response in the API wire format.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSONSuccess writes a JSON success response with a success flag.
func writeJSONSuccess(w http.ResponseWriter, data map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	if data == nil {
		data = make(map[string]any)
	}
	data["success"] = true
	_ = json.NewEncoder(w).Encode(data)
}

// writeJSON writes a plain JSON response without the success envelope.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes a request body, limited to 1 MB.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v)
}

// writeStoreError maps directory errors to HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, directory.ErrDuplicateUsername):
		writeJSONError(w, http.StatusConflict, "Username already exists")
	case errors.Is(err, directory.ErrInvalidPage):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}

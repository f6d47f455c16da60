// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/reportdeck/reportdeck/internal/directory"
	"github.com/reportdeck/reportdeck/internal/middleware"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	store           *directory.Store
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(store *directory.Store, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		store:           store,
		sessionManager:  sm,
		loginProtection: lp,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login. Deactivated accounts cannot log in
// even with the right password, and lockout applies before the password is
// checked so a locked account leaks nothing about credential validity.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(req.Username); locked {
			writeJSONError(w, http.StatusTooManyRequests,
				fmt.Sprintf("Account locked. Try again in %s", remaining.Round(time.Second)))
			return
		}
	}

	user, err := h.store.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if h.loginProtection != nil && errors.Is(err, directory.ErrInvalidCredentials) {
			h.loginProtection.RecordFailedAttempt(req.Username)
		}
		writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(req.Username)
	}

	// Rotate the session token on privilege change.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("renewing session token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	writeJSONSuccess(w, map[string]any{"user": user})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("destroying session", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSONSuccess(w, nil)
}

// Me handles GET /api/v1/auth/me, returning the session's user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSONSuccess(w, map[string]any{"user": user})
}

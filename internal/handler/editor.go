// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reportdeck/reportdeck/internal/content"
	"github.com/reportdeck/reportdeck/internal/directory"
	"github.com/reportdeck/reportdeck/internal/middleware"
	"github.com/reportdeck/reportdeck/internal/model"
	"github.com/reportdeck/reportdeck/internal/rbac"
	"github.com/reportdeck/reportdeck/internal/service"
)

// EditorHandler exposes the section editor over HTTP. Each user editing a
// page gets a server-side session holding the editor state and the
// debounced autosave pipeline; mutations apply to the session and schedule
// a write back to the directory.
type EditorHandler struct {
	store    *directory.Store
	sessions *service.EditSessions
}

// NewEditorHandler creates an EditorHandler.
func NewEditorHandler(store *directory.Store, sessions *service.EditSessions) *EditorHandler {
	return &EditorHandler{store: store, sessions: sessions}
}

// editorState is the response body for every editor operation.
type editorState struct {
	Content   *model.PageContent `json:"content"`
	Selected  string             `json:"selected,omitempty"`
	CanUndo   bool               `json:"canUndo"`
	CanRedo   bool               `json:"canRedo"`
	SaveState content.SaveState  `json:"saveState"`
	SaveError string             `json:"saveError,omitempty"`
}

func writeEditorState(w http.ResponseWriter, es *service.EditSession) {
	saveState, saveErr := es.SaveState()
	state := editorState{
		Content:   es.Editor.Content(),
		Selected:  es.Editor.Selected(),
		CanUndo:   es.Editor.CanUndo(),
		CanRedo:   es.Editor.CanRedo(),
		SaveState: saveState,
	}
	if saveErr != nil {
		state.SaveError = saveErr.Error()
	}
	writeJSON(w, http.StatusOK, state)
}

// Open handles POST /api/v1/pages/{pageID}/editor, starting (or resuming)
// an editing session over the page's content model.
func (h *EditorHandler) Open(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	pageID := chi.URLParam(r, "pageID")
	page, err := h.store.GetPage(r.Context(), pageID)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "Page not found")
		return
	}
	if !rbac.CanSeePage(user, page) {
		writeJSONError(w, http.StatusForbidden, "Forbidden")
		return
	}

	es, err := h.sessions.Open(r.Context(), pageID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotEditable) {
			writeJSONError(w, http.StatusBadRequest, "Page is not editable")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeEditorState(w, es)
}

// State handles GET /api/v1/pages/{pageID}/editor.
func (h *EditorHandler) State(w http.ResponseWriter, r *http.Request) {
	es, ok := h.session(w, r)
	if !ok {
		return
	}
	writeEditorState(w, es)
}

// Close handles DELETE /api/v1/pages/{pageID}/editor: pending edits are
// flushed and the session ends.
func (h *EditorHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(r.Context(), chi.URLParam(r, "pageID"), middleware.GetUserID(r))
	writeJSONSuccess(w, nil)
}

type addSectionRequest struct {
	Type string `json:"type"`
}

// AddSection handles POST /api/v1/pages/{pageID}/editor/sections.
func (h *EditorHandler) AddSection(w http.ResponseWriter, r *http.Request) {
	es, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := es.Editor.AddSection(req.Type); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Unknown section type")
		return
	}
	h.scheduleSave(r, es)
	writeEditorState(w, es)
}

type updateSectionRequest struct {
	Content json.RawMessage   `json:"content"`
	Styles  map[string]string `json:"styles"`
}

// UpdateSection handles PUT /api/v1/pages/{pageID}/editor/sections/{sectionID}.
// The content payload is decoded against the section's existing type.
func (h *EditorHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	es, ok := h.session(w, r)
	if !ok {
		return
	}

	var req updateSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sectionID := chi.URLParam(r, "sectionID")
	patch := content.SectionPatch{Styles: req.Styles}
	if len(req.Content) > 0 {
		sectionType, found := sectionTypeOf(es.Editor.Content(), sectionID)
		if !found {
			writeJSONError(w, http.StatusNotFound, "Section not found")
			return
		}
		decoded, err := model.DecodeSectionContent(sectionType, req.Content)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid section content")
			return
		}
		patch.Content = decoded
	}

	if err := es.Editor.UpdateSection(sectionID, patch); err != nil {
		writeJSONError(w, http.StatusNotFound, "Section not found")
		return
	}
	h.scheduleSave(r, es)
	writeEditorState(w, es)
}

// DeleteSection handles DELETE /api/v1/pages/{pageID}/editor/sections/{sectionID}.
func (h *EditorHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	es, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := es.Editor.DeleteSection(chi.URLParam(r, "sectionID")); err != nil {
		writeJSONError(w, http.StatusNotFound, "Section not found")
		return
	}
	h.scheduleSave(r, es)
	writeEditorState(w, es)
}

// SelectSection handles POST /api/v1/pages/{pageID}/editor/sections/{sectionID}/select.
// Selection is editor state only; it does not touch the content model or
// schedule a save.
func (h *EditorHandler) SelectSection(w http.ResponseWriter, r *http.Request) {
	es, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := es.Editor.Select(chi.URLParam(r, "sectionID")); err != nil {
		writeJSONError(w, http.StatusNotFound, "Section not found")
		return
	}
	writeEditorState(w, es)
}

type setLayoutRequest struct {
	Layout string `json:"layout"`
}

// SetLayout handles PUT /api/v1/pages/{pageID}/editor/layout.
func (h *EditorHandler) SetLayout(w http.ResponseWriter, r *http.Request) {
	es, ok := h.session(w, r)
	if !ok {
		return
	}

	var req setLayoutRequest
	if err := decodeJSON(r, &req); err != nil || req.Layout == "" {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	es.Editor.SetLayout(req.Layout)
	h.scheduleSave(r, es)
	writeEditorState(w, es)
}

// Undo handles POST /api/v1/pages/{pageID}/editor/undo.
func (h *EditorHandler) Undo(w http.ResponseWriter, r *http.Request) {
	es, ok := h.session(w, r)
	if !ok {
		return
	}

	if es.Editor.Undo() {
		h.scheduleSave(r, es)
	}
	writeEditorState(w, es)
}

// Redo handles POST /api/v1/pages/{pageID}/editor/redo.
func (h *EditorHandler) Redo(w http.ResponseWriter, r *http.Request) {
	es, ok := h.session(w, r)
	if !ok {
		return
	}

	if es.Editor.Redo() {
		h.scheduleSave(r, es)
	}
	writeEditorState(w, es)
}

// Save handles POST /api/v1/pages/{pageID}/editor/save, persisting the
// current state immediately instead of waiting out the quiet window.
func (h *EditorHandler) Save(w http.ResponseWriter, r *http.Request) {
	es, ok := h.session(w, r)
	if !ok {
		return
	}

	es.Save(context.WithoutCancel(r.Context()))
	writeEditorState(w, es)
}

// session resolves the caller's open editing session, writing a 404 when
// none exists.
func (h *EditorHandler) session(w http.ResponseWriter, r *http.Request) (*service.EditSession, bool) {
	es, ok := h.sessions.Get(chi.URLParam(r, "pageID"), middleware.GetUserID(r))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "No editing session")
		return nil, false
	}
	return es, true
}

// scheduleSave queues a debounced persist. The request context is detached
// so the write still lands after the response is sent.
func (h *EditorHandler) scheduleSave(r *http.Request, es *service.EditSession) {
	es.ScheduleSave(context.WithoutCancel(r.Context()))
}

// sectionTypeOf returns the type of the section with the given ID.
func sectionTypeOf(c *model.PageContent, id string) (string, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s.Type, true
		}
	}
	return "", false
}

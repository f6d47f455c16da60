// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reportdeck/reportdeck/internal/content"
	"github.com/reportdeck/reportdeck/internal/directory"
	"github.com/reportdeck/reportdeck/internal/model"
	"github.com/reportdeck/reportdeck/internal/service"
)

func newEditorTestRouter(t *testing.T, opts ...content.DebouncerOption) (*chi.Mux, *directory.Store, *model.Page) {
	t.Helper()
	store := directory.New()
	page, err := store.CreatePage(context.Background(), directory.CreatePageParams{
		Title:   "Ops Overview",
		Type:    model.PageTypeHTML,
		SubType: "custom",
		Content: &model.PageContent{Layout: "grid"},
	})
	if err != nil {
		t.Fatal(err)
	}

	h := NewEditorHandler(store, service.NewEditSessions(store, opts...))

	r := chi.NewRouter()
	r.Route("/api/v1/pages/{pageID}/editor", func(r chi.Router) {
		r.Post("/", h.Open)
		r.Get("/", h.State)
		r.Delete("/", h.Close)
		r.Post("/sections", h.AddSection)
		r.Put("/sections/{sectionID}", h.UpdateSection)
		r.Delete("/sections/{sectionID}", h.DeleteSection)
		r.Post("/sections/{sectionID}/select", h.SelectSection)
		r.Put("/layout", h.SetLayout)
		r.Post("/undo", h.Undo)
		r.Post("/redo", h.Redo)
		r.Post("/save", h.Save)
	})
	return r, store, page
}

type editorStateBody struct {
	Content   *model.PageContent `json:"content"`
	Selected  string             `json:"selected"`
	CanUndo   bool               `json:"canUndo"`
	CanRedo   bool               `json:"canRedo"`
	SaveState string             `json:"saveState"`
}

func editorDo(t *testing.T, router http.Handler, method, url, body string) (*httptest.ResponseRecorder, editorStateBody) {
	t.Helper()
	r := asUser(httptest.NewRequest(method, url, strings.NewReader(body)), testAdmin)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	var state editorStateBody
	_ = json.Unmarshal(rec.Body.Bytes(), &state)
	return rec, state
}

func TestEditorOpenAndAddSection(t *testing.T) {
	router, _, page := newEditorTestRouter(t)
	base := "/api/v1/pages/" + page.ID + "/editor"

	rec, state := editorDo(t, router, "POST", base, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("open status = %d; body: %s", rec.Code, rec.Body)
	}
	if state.CanUndo {
		t.Error("fresh session claims undo is possible")
	}

	rec, state = editorDo(t, router, "POST", base+"/sections", `{"type":"text"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d; body: %s", rec.Code, rec.Body)
	}
	if len(state.Content.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(state.Content.Sections))
	}
	if state.Selected != state.Content.Sections[0].ID {
		t.Errorf("new section not selected: %q", state.Selected)
	}
	if !state.CanUndo {
		t.Error("edit not undoable")
	}
}

func TestEditorOpenMissingAndNotEditable(t *testing.T) {
	router, store, _ := newEditorTestRouter(t)

	rec, _ := editorDo(t, router, "POST", "/api/v1/pages/missing/editor", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	embed, err := store.CreatePage(context.Background(), directory.CreatePageParams{
		Title: "Sales", Type: model.PageTypePowerBI, SubType: "dashboard",
		EmbedURL: "https://app.powerbi.com/embed/x",
	})
	if err != nil {
		t.Fatal(err)
	}
	rec, _ = editorDo(t, router, "POST", "/api/v1/pages/"+embed.ID+"/editor", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for embed page", rec.Code)
	}
}

func TestEditorStateWithoutSession(t *testing.T) {
	router, _, page := newEditorTestRouter(t)

	rec, _ := editorDo(t, router, "GET", "/api/v1/pages/"+page.ID+"/editor", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestEditorUpdateSectionAndSaveHitsDirectory(t *testing.T) {
	router, store, page := newEditorTestRouter(t, content.WithQuietWindow(time.Hour))
	base := "/api/v1/pages/" + page.ID + "/editor"

	editorDo(t, router, "POST", base, "")
	_, state := editorDo(t, router, "POST", base+"/sections", `{"type":"text"}`)
	sectionID := state.Content.Sections[0].ID

	rec, state := editorDo(t, router, "PUT", base+"/sections/"+sectionID,
		`{"content":"updated copy","styles":{"color":"#000000"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d; body: %s", rec.Code, rec.Body)
	}
	if tc, ok := state.Content.Sections[0].Content.(model.TextContent); !ok || tc.Text != "updated copy" {
		t.Errorf("section content = %#v", state.Content.Sections[0].Content)
	}
	if state.Content.Sections[0].Styles["color"] != "#000000" {
		t.Errorf("styles not merged: %v", state.Content.Sections[0].Styles)
	}

	// Nothing persisted yet: the quiet window is an hour.
	fresh, err := store.GetPage(context.Background(), page.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh.Content.Sections) != 0 {
		t.Fatalf("persisted before save: %+v", fresh.Content)
	}

	rec, state = editorDo(t, router, "POST", base+"/save", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d", rec.Code)
	}
	if state.SaveState != string(content.SaveSaved) {
		t.Errorf("saveState = %q, want saved", state.SaveState)
	}

	fresh, err = store.GetPage(context.Background(), page.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh.Content.Sections) != 1 {
		t.Fatalf("save did not reach the directory: %+v", fresh.Content)
	}
	if tc, ok := fresh.Content.Sections[0].Content.(model.TextContent); !ok || tc.Text != "updated copy" {
		t.Errorf("persisted content = %#v", fresh.Content.Sections[0].Content)
	}
}

func TestEditorAutosaveAfterQuietWindow(t *testing.T) {
	router, store, page := newEditorTestRouter(t, content.WithQuietWindow(30*time.Millisecond))
	base := "/api/v1/pages/" + page.ID + "/editor"

	editorDo(t, router, "POST", base, "")
	editorDo(t, router, "POST", base+"/sections", `{"type":"stats"}`)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		fresh, err := store.GetPage(context.Background(), page.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(fresh.Content.Sections) == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("autosave never reached the directory")
}

func TestEditorUndoRedoEndpoints(t *testing.T) {
	router, _, page := newEditorTestRouter(t, content.WithQuietWindow(time.Hour))
	base := "/api/v1/pages/" + page.ID + "/editor"

	editorDo(t, router, "POST", base, "")
	editorDo(t, router, "POST", base+"/sections", `{"type":"text"}`)
	editorDo(t, router, "POST", base+"/sections", `{"type":"chart"}`)

	_, state := editorDo(t, router, "POST", base+"/undo", "")
	if len(state.Content.Sections) != 1 {
		t.Fatalf("after undo sections = %d, want 1", len(state.Content.Sections))
	}
	if !state.CanRedo {
		t.Error("undo did not open a redo step")
	}

	_, state = editorDo(t, router, "POST", base+"/redo", "")
	if len(state.Content.Sections) != 2 {
		t.Fatalf("after redo sections = %d, want 2", len(state.Content.Sections))
	}
}

func TestEditorDeleteAndSelectMissingSection(t *testing.T) {
	router, _, page := newEditorTestRouter(t, content.WithQuietWindow(time.Hour))
	base := "/api/v1/pages/" + page.ID + "/editor"

	editorDo(t, router, "POST", base, "")

	rec, _ := editorDo(t, router, "DELETE", base+"/sections/section-9", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete status = %d, want 404", rec.Code)
	}
	rec, _ = editorDo(t, router, "POST", base+"/sections/section-9/select", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("select status = %d, want 404", rec.Code)
	}
}

func TestEditorCloseFlushesPendingEdit(t *testing.T) {
	router, store, page := newEditorTestRouter(t, content.WithQuietWindow(time.Hour))
	base := "/api/v1/pages/" + page.ID + "/editor"

	editorDo(t, router, "POST", base, "")
	editorDo(t, router, "POST", base+"/sections", `{"type":"text"}`)

	rec, _ := editorDo(t, router, "DELETE", base, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("close status = %d", rec.Code)
	}

	fresh, err := store.GetPage(context.Background(), page.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh.Content.Sections) != 1 {
		t.Fatalf("pending edit lost on close: %+v", fresh.Content)
	}

	rec, _ = editorDo(t, router, "GET", base, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("state after close = %d, want 404", rec.Code)
	}
}

func TestEditorVisibilityForbidden(t *testing.T) {
	router, store, _ := newEditorTestRouter(t)

	restricted, err := store.CreatePage(context.Background(), directory.CreatePageParams{
		Title: "Restricted", Type: model.PageTypeHTML, SubType: "custom",
		Content:      &model.PageContent{Layout: "grid"},
		AllowedRoles: []string{model.RoleUser},
	})
	if err != nil {
		t.Fatal(err)
	}

	// testAdmin passes the assignment gate but the allow-list excludes admin.
	rec, _ := editorDo(t, router, "POST", "/api/v1/pages/"+restricted.ID+"/editor", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

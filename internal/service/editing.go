// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/reportdeck/reportdeck/internal/content"
	"github.com/reportdeck/reportdeck/internal/directory"
	"github.com/reportdeck/reportdeck/internal/model"
)

// ErrNotEditable is returned when an editing session is opened on a page
// without an editable content model (embed pages carry only a URL).
var ErrNotEditable = errors.New("service: page has no editable content model")

// PagePersister returns a persister that writes a content model back to the
// page through the directory. This is the write path behind the editor's
// debounced autosave.
func PagePersister(store *directory.Store, pageID, userID string) content.PersisterFunc {
	return func(ctx context.Context, c *model.PageContent) error {
		if err := store.UpdatePage(ctx, pageID, directory.UpdatePageParams{
			Content:   c,
			UpdatedBy: userID,
		}); err != nil {
			return fmt.Errorf("persisting page content: %w", err)
		}
		return nil
	}
}

// EditSession owns the editor and autosave pipeline for one user editing
// one page. Edits go through Editor; ScheduleSave feeds the current state
// into the debouncer, which writes it back to the directory after the
// quiet window.
type EditSession struct {
	PageID string
	UserID string
	Editor *content.Editor

	saver *content.Debouncer
}

// ScheduleSave registers the current editor state for debounced persistence.
func (es *EditSession) ScheduleSave(ctx context.Context) {
	es.saver.Schedule(ctx, es.Editor.Content())
}

// Save persists the current editor state immediately, short-circuiting any
// pending quiet window.
func (es *EditSession) Save(ctx context.Context) {
	es.saver.Flush(ctx, es.Editor.Content())
}

// SaveState returns the autosave indicator state.
func (es *EditSession) SaveState() (content.SaveState, error) {
	return es.saver.State()
}

// EditSessions manages open editing sessions, one per page and user.
type EditSessions struct {
	store *directory.Store
	opts  []content.DebouncerOption

	mu       sync.Mutex
	sessions map[string]*EditSession
}

// NewEditSessions creates a session manager. Debouncer options apply to
// every session's autosave pipeline.
func NewEditSessions(store *directory.Store, opts ...content.DebouncerOption) *EditSessions {
	return &EditSessions{
		store:    store,
		opts:     opts,
		sessions: make(map[string]*EditSession),
	}
}

func sessionKey(pageID, userID string) string {
	return pageID + "\x00" + userID
}

// Open starts an editing session over the page's current content model, or
// returns the already-open session for this page and user. Only html pages
// are editable.
func (s *EditSessions) Open(ctx context.Context, pageID, userID string) (*EditSession, error) {
	page, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if page.Type != model.PageTypeHTML {
		return nil, ErrNotEditable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(pageID, userID)
	if es, ok := s.sessions[key]; ok {
		return es, nil
	}

	es := &EditSession{
		PageID: pageID,
		UserID: userID,
		Editor: content.NewEditor(page.Content),
		saver:  content.NewDebouncer(PagePersister(s.store, pageID, userID), s.opts...),
	}
	s.sessions[key] = es
	return es, nil
}

// Get returns the open session for this page and user, if any.
func (s *EditSessions) Get(pageID, userID string) (*EditSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	es, ok := s.sessions[sessionKey(pageID, userID)]
	return es, ok
}

// Close ends the session: any pending edit is flushed to the directory and
// the autosave pipeline stops. Closing an unknown session is a no-op.
func (s *EditSessions) Close(ctx context.Context, pageID, userID string) {
	s.mu.Lock()
	key := sessionKey(pageID, userID)
	es, ok := s.sessions[key]
	delete(s.sessions, key)
	s.mu.Unlock()

	if !ok {
		return
	}
	es.Save(ctx)
	es.saver.Stop()
}

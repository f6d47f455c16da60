// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"sync"
	"time"

	"github.com/reportdeck/reportdeck/internal/model"
)

// Persister writes a content model to durable storage. The debouncer calls
// it once per quiet window with the latest scheduled content.
type Persister interface {
	Persist(ctx context.Context, content *model.PageContent) error
}

// PersisterFunc adapts a function to the Persister interface.
type PersisterFunc func(ctx context.Context, content *model.PageContent) error

// Persist calls f.
func (f PersisterFunc) Persist(ctx context.Context, content *model.PageContent) error {
	return f(ctx, content)
}

// SaveState is the autosave indicator state.
type SaveState string

// Save indicator states. A save moves idle→saving, then to saved or error,
// and decays back to idle after a display timeout.
const (
	SaveIdle   SaveState = "idle"
	SaveSaving SaveState = "saving"
	SaveSaved  SaveState = "saved"
	SaveError  SaveState = "error"
)

const (
	defaultQuietWindow  = 2 * time.Second
	defaultSavedDisplay = 2 * time.Second
	defaultErrorDisplay = 3 * time.Second
)

// Debouncer coalesces a burst of edits into a single persist. Each Schedule
// call cancels the pending timer and starts a fresh quiet window; only the
// content from the last call in the burst is written. Persist failures are
// surfaced through the save state and not retried; the next edit schedules
// a fresh attempt.
type Debouncer struct {
	persister Persister
	quiet     time.Duration
	savedFor  time.Duration
	errorFor  time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	state   SaveState
	lastErr error
	gen     int
	stopped bool

	// persistMu serializes persist calls so a slow write never overlaps
	// the next window's write.
	persistMu sync.Mutex
}

// DebouncerOption configures a Debouncer.
type DebouncerOption func(*Debouncer)

// WithQuietWindow overrides the debounce quiet window.
func WithQuietWindow(d time.Duration) DebouncerOption {
	return func(db *Debouncer) { db.quiet = d }
}

// WithDisplayTimeouts overrides how long the saved and error states are
// held before decaying back to idle.
func WithDisplayTimeouts(saved, errored time.Duration) DebouncerOption {
	return func(db *Debouncer) {
		db.savedFor = saved
		db.errorFor = errored
	}
}

// NewDebouncer creates a debouncer writing through p.
func NewDebouncer(p Persister, opts ...DebouncerOption) *Debouncer {
	db := &Debouncer{
		persister: p,
		quiet:     defaultQuietWindow,
		savedFor:  defaultSavedDisplay,
		errorFor:  defaultErrorDisplay,
		state:     SaveIdle,
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Schedule registers an edit: the pending timer, if any, is cancelled and
// the quiet window restarts with the given content snapshot.
func (db *Debouncer) Schedule(ctx context.Context, content *model.PageContent) {
	snapshot := content.Clone()

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.stopped {
		return
	}
	if db.timer != nil {
		db.timer.Stop()
	}
	db.timer = time.AfterFunc(db.quiet, func() {
		db.fire(ctx, snapshot)
	})
}

// Flush persists any pending content immediately instead of waiting out the
// quiet window. It is a no-op when no save is pending.
func (db *Debouncer) Flush(ctx context.Context, content *model.PageContent) {
	db.mu.Lock()
	if db.stopped || db.timer == nil {
		db.mu.Unlock()
		return
	}
	db.timer.Stop()
	db.timer = nil
	db.mu.Unlock()

	db.fire(ctx, content.Clone())
}

// Stop cancels any pending save. The debouncer must not be scheduled again.
func (db *Debouncer) Stop() {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.stopped = true
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
}

// State returns the current save indicator state and, when in the error
// state, the error that put it there.
func (db *Debouncer) State() (SaveState, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state, db.lastErr
}

// fire runs one persist. persistMu keeps writes sequential even when a
// persist outlasts the next quiet window.
func (db *Debouncer) fire(ctx context.Context, snapshot *model.PageContent) {
	db.persistMu.Lock()
	defer db.persistMu.Unlock()

	db.setState(SaveSaving, nil)

	err := db.persister.Persist(ctx, snapshot)

	db.mu.Lock()
	db.gen++
	gen := db.gen
	var decay time.Duration
	if err != nil {
		db.state = SaveError
		db.lastErr = err
		decay = db.errorFor
	} else {
		db.state = SaveSaved
		db.lastErr = nil
		decay = db.savedFor
	}
	db.mu.Unlock()

	// Decay back to idle unless a newer save has moved the state on.
	time.AfterFunc(decay, func() {
		db.mu.Lock()
		defer db.mu.Unlock()
		if db.gen == gen && (db.state == SaveSaved || db.state == SaveError) {
			db.state = SaveIdle
			db.lastErr = nil
		}
	})
}

func (db *Debouncer) setState(s SaveState, err error) {
	db.mu.Lock()
	db.state = s
	db.lastErr = err
	db.mu.Unlock()
}

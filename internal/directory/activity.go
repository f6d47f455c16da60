// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package directory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/reportdeck/reportdeck/internal/model"
)

// activityTable is the append-only activity log, newest first, capped at
// model.MaxActivityEntries. Entries are never mutated after insertion.
type activityTable struct {
	mu      sync.RWMutex
	entries []model.Activity
}

// LogActivity prepends an entry to the activity log, assigning an ID and
// timestamp when absent, and trims the oldest entries past the cap.
func (s *Store) LogActivity(_ context.Context, entry model.Activity) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	s.activity.mu.Lock()
	defer s.activity.mu.Unlock()

	s.activity.entries = append([]model.Activity{entry}, s.activity.entries...)
	if len(s.activity.entries) > model.MaxActivityEntries {
		s.activity.entries = s.activity.entries[:model.MaxActivityEntries]
	}
}

// ListActivity returns the newest entries first, truncated to limit.
// A non-positive limit returns everything.
func (s *Store) ListActivity(_ context.Context, limit int) []model.Activity {
	s.activity.mu.RLock()
	defer s.activity.mu.RUnlock()

	n := len(s.activity.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.Activity, n)
	copy(out, s.activity.entries[:n])
	return out
}

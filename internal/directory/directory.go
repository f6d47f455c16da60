// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package directory implements the authoritative in-memory store for users,
// pages, and the activity log. A Store is constructed at process start and
// injected into handlers; tests build fresh instances for isolation.
//
// Each table is guarded by its own RWMutex so mutating calls serialize per
// table. Lookups that miss return ErrNotFound, never panic.
package directory

import (
	"errors"
	"time"
)

// Errors returned by the store.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPage        = errors.New("invalid page")
)

// Store holds the user, page, and activity tables.
type Store struct {
	users    userTable
	pages    pageTable
	activity activityTable

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the store's time source. Used by tests to pin
// timestamps and by the stats window calculations.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	s.users.byID = make(map[string]*userRecord)
	s.users.byUsername = make(map[string]*userRecord)
	s.pages.byID = make(map[string]*pageRecord)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

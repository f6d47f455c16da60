// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/reportdeck/reportdeck/internal/auth"
	"github.com/reportdeck/reportdeck/internal/model"
)

// userTable is the in-memory users table. byUsername indexes the same
// records as byID; order preserves insertion for listing.
type userTable struct {
	mu         sync.RWMutex
	byID       map[string]*userRecord
	byUsername map[string]*userRecord
	order      []string
}

type userRecord struct {
	user model.User
}

// CreateUserParams carries the fields for a new user.
type CreateUserParams struct {
	Username      string
	Password      string
	Role          string
	Name          string
	Phone         string
	Email         string
	AssignedPages []string
}

// UpdateUserParams carries a partial user update; nil fields are left as is.
type UpdateUserParams struct {
	Username *string
	Password *string
	Role     *string
	Name     *string
	Phone    *string
	Email    *string
}

// Authenticate looks up a user by username and verifies the password.
// On success it updates LastLogin, appends a login activity entry, and
// returns a copy of the user with the password hash stripped. A bad username
// or password returns ErrInvalidCredentials and leaves LastLogin untouched.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	s.users.mu.Lock()
	rec, ok := s.users.byUsername[username]
	if !ok {
		s.users.mu.Unlock()
		return nil, ErrInvalidCredentials
	}

	match, err := auth.CheckPassword(password, rec.user.PasswordHash)
	if err != nil || !match {
		s.users.mu.Unlock()
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	rec.user.LastLogin = &now
	out := copyUser(&rec.user)
	s.users.mu.Unlock()

	s.LogActivity(ctx, model.Activity{
		UserID:  out.ID,
		Action:  model.ActionLogin,
		Details: fmt.Sprintf("%s logged in", out.Name),
	})
	return out, nil
}

// CreateUser inserts a new user. The duplicate-username check happens under
// the table lock, atomically with the insert.
func (s *Store) CreateUser(ctx context.Context, params CreateUserParams) (*model.User, error) {
	if !model.ValidRole(params.Role) {
		return nil, fmt.Errorf("invalid role %q", params.Role)
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := model.User{
		ID:            uuid.NewString(),
		Username:      params.Username,
		PasswordHash:  hash,
		Role:          params.Role,
		Name:          params.Name,
		Phone:         params.Phone,
		Email:         params.Email,
		AssignedPages: append([]string{}, params.AssignedPages...),
		IsActive:      true,
		CreatedAt:     s.now(),
	}

	s.users.mu.Lock()
	if _, exists := s.users.byUsername[params.Username]; exists {
		s.users.mu.Unlock()
		return nil, ErrDuplicateUsername
	}
	rec := &userRecord{user: user}
	s.users.byID[user.ID] = rec
	s.users.byUsername[user.Username] = rec
	s.users.order = append(s.users.order, user.ID)
	s.users.mu.Unlock()

	s.LogActivity(ctx, model.Activity{
		UserID:  user.ID,
		Action:  model.ActionUserCreate,
		Details: fmt.Sprintf("New user %s created with role %s", user.Name, user.Role),
	})
	out := copyUser(&user)
	return out, nil
}

// GetUser returns a copy of the user by ID with the password hash stripped.
func (s *Store) GetUser(_ context.Context, id string) (*model.User, error) {
	s.users.mu.RLock()
	defer s.users.mu.RUnlock()

	rec, ok := s.users.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(&rec.user), nil
}

// GetUserByUsername returns a copy of the user by username with the password
// hash stripped.
func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.users.mu.RLock()
	defer s.users.mu.RUnlock()

	rec, ok := s.users.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(&rec.user), nil
}

// ListUsers returns all users in insertion order, password hashes stripped.
func (s *Store) ListUsers(_ context.Context) []model.User {
	s.users.mu.RLock()
	defer s.users.mu.RUnlock()

	out := make([]model.User, 0, len(s.users.order))
	for _, id := range s.users.order {
		out = append(out, *copyUser(&s.users.byID[id].user))
	}
	return out
}

// UpdateUser applies a partial update to the user. Changing the username to
// one already taken fails with ErrDuplicateUsername.
func (s *Store) UpdateUser(ctx context.Context, id string, params UpdateUserParams) error {
	if params.Role != nil && !model.ValidRole(*params.Role) {
		return fmt.Errorf("invalid role %q", *params.Role)
	}

	var hash string
	if params.Password != nil {
		h, err := auth.HashPassword(*params.Password)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		hash = h
	}

	s.users.mu.Lock()
	rec, ok := s.users.byID[id]
	if !ok {
		s.users.mu.Unlock()
		return ErrNotFound
	}

	if params.Username != nil && *params.Username != rec.user.Username {
		if _, taken := s.users.byUsername[*params.Username]; taken {
			s.users.mu.Unlock()
			return ErrDuplicateUsername
		}
		delete(s.users.byUsername, rec.user.Username)
		rec.user.Username = *params.Username
		s.users.byUsername[rec.user.Username] = rec
	}
	if params.Password != nil {
		rec.user.PasswordHash = hash
	}
	if params.Role != nil {
		rec.user.Role = *params.Role
	}
	if params.Name != nil {
		rec.user.Name = *params.Name
	}
	if params.Phone != nil {
		rec.user.Phone = *params.Phone
	}
	if params.Email != nil {
		rec.user.Email = *params.Email
	}
	name := rec.user.Name
	s.users.mu.Unlock()

	s.LogActivity(ctx, model.Activity{
		UserID:  id,
		Action:  model.ActionUserUpdate,
		Details: fmt.Sprintf("User %s updated", name),
	})
	return nil
}

// DeleteUser removes the user by ID.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.users.mu.Lock()
	rec, ok := s.users.byID[id]
	if !ok {
		s.users.mu.Unlock()
		return ErrNotFound
	}
	delete(s.users.byID, id)
	delete(s.users.byUsername, rec.user.Username)
	for i, uid := range s.users.order {
		if uid == id {
			s.users.order = append(s.users.order[:i], s.users.order[i+1:]...)
			break
		}
	}
	name := rec.user.Name
	s.users.mu.Unlock()

	s.LogActivity(ctx, model.Activity{
		UserID:  id,
		Action:  model.ActionUserDelete,
		Details: fmt.Sprintf("User %s deleted", name),
	})
	return nil
}

// SetUserActive toggles the user's active flag.
func (s *Store) SetUserActive(ctx context.Context, id string, active bool) error {
	s.users.mu.Lock()
	rec, ok := s.users.byID[id]
	if !ok {
		s.users.mu.Unlock()
		return ErrNotFound
	}
	rec.user.IsActive = active
	s.users.mu.Unlock()

	status := "inactive"
	if active {
		status = "active"
	}
	s.LogActivity(ctx, model.Activity{
		UserID:  id,
		Action:  model.ActionStatusChange,
		Details: fmt.Sprintf("User status changed to %s", status),
	})
	return nil
}

// AssignPages replaces the user's assigned page list.
func (s *Store) AssignPages(ctx context.Context, id string, pageIDs []string) error {
	s.users.mu.Lock()
	rec, ok := s.users.byID[id]
	if !ok {
		s.users.mu.Unlock()
		return ErrNotFound
	}
	rec.user.AssignedPages = append([]string{}, pageIDs...)
	s.users.mu.Unlock()

	s.LogActivity(ctx, model.Activity{
		UserID:  id,
		Action:  model.ActionPageAssignment,
		Details: fmt.Sprintf("Pages assigned: %d page(s)", len(pageIDs)),
	})
	return nil
}

// copyUser returns a detached copy with the password hash stripped.
func copyUser(u *model.User) *model.User {
	out := *u
	out.PasswordHash = ""
	out.AssignedPages = append([]string{}, u.AssignedPages...)
	if u.LastLogin != nil {
		t := *u.LastLogin
		out.LastLogin = &t
	}
	return &out
}

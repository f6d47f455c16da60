// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application
// including User, Page, Activity, and role structures.
package model

import (
	"time"
)

// User roles.
const (
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
	RoleEditor    = "editor"
	RoleUser      = "user"
)

// User represents a dashboard account.
type User struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	PasswordHash  string     `json:"-"` // Never expose in JSON
	Role          string     `json:"role"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone,omitempty"`
	Email         string     `json:"email,omitempty"`
	AssignedPages []string   `json:"assigned_pages"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
}

// SeesAllPages returns true if the user's role bypasses page assignment.
// Admins and developers see every active page without an explicit grant.
func (u *User) SeesAllPages() bool {
	return u.Role == RoleAdmin || u.Role == RoleDeveloper
}

// HasAssignedPage returns true if the page ID is in the user's assignment list.
func (u *User) HasAssignedPage(pageID string) bool {
	for _, id := range u.AssignedPages {
		if id == pageID {
			return true
		}
	}
	return false
}

// ValidRole returns true if role is one of the built-in user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDeveloper, RoleEditor, RoleUser:
		return true
	}
	return false
}

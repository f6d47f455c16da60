// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rbac centralizes role and permission logic: the static permission
// catalog, the role table, and the page-visibility filter. Handlers must not
// branch on role names directly; this package is the single source of truth.
package rbac

import (
	"errors"
	"sync"

	"github.com/reportdeck/reportdeck/internal/model"
)

// Errors returned by the registry.
var (
	ErrRoleNotFound  = errors.New("role not found")
	ErrSystemRole    = errors.New("system roles cannot be modified")
	ErrDuplicateRole = errors.New("role id already exists")
)

// Permission IDs.
const (
	PermUsersView       = "users.view"
	PermUsersCreate     = "users.create"
	PermUsersEdit       = "users.edit"
	PermUsersDelete     = "users.delete"
	PermUsersManageRole = "users.manage_roles"
	PermPagesView       = "pages.view"
	PermPagesCreate     = "pages.create"
	PermPagesEdit       = "pages.edit"
	PermPagesDelete     = "pages.delete"
	PermAnalyticsView   = "analytics.view"
	PermSystemLogs      = "system.logs"
	PermSystemSettings  = "system.settings"
)

// permissions is the static catalog of all known permissions.
var permissions = []model.Permission{
	{ID: PermUsersView, Name: "View Users", Description: "Can view user list and details", Category: "Users"},
	{ID: PermUsersCreate, Name: "Create Users", Description: "Can create new users", Category: "Users"},
	{ID: PermUsersEdit, Name: "Edit Users", Description: "Can modify user information", Category: "Users"},
	{ID: PermUsersDelete, Name: "Delete Users", Description: "Can delete users", Category: "Users"},
	{ID: PermUsersManageRole, Name: "Manage Roles", Description: "Can assign and modify user roles", Category: "Users"},
	{ID: PermPagesView, Name: "View Pages", Description: "Can view pages", Category: "Pages"},
	{ID: PermPagesCreate, Name: "Create Pages", Description: "Can create new pages", Category: "Pages"},
	{ID: PermPagesEdit, Name: "Edit Pages", Description: "Can modify page content and settings", Category: "Pages"},
	{ID: PermPagesDelete, Name: "Delete Pages", Description: "Can delete pages", Category: "Pages"},
	{ID: PermAnalyticsView, Name: "View Analytics", Description: "Can view analytics dashboards", Category: "Analytics"},
	{ID: PermSystemLogs, Name: "System Logs", Description: "Can view system logs", Category: "System"},
	{ID: PermSystemSettings, Name: "System Settings", Description: "Can modify system settings", Category: "System"},
}

// systemRoles returns fresh copies of the built-in roles.
func systemRoles() []model.Role {
	return []model.Role{
		{
			ID: model.RoleAdmin, Name: "Administrator", IsSystem: true,
			Description: "Full system access with all permissions",
			Permissions: []string{
				PermUsersView, PermUsersCreate, PermUsersEdit, PermUsersDelete, PermUsersManageRole,
				PermPagesView, PermPagesCreate, PermPagesEdit, PermPagesDelete,
				PermAnalyticsView, PermSystemLogs, PermSystemSettings,
			},
		},
		{
			ID: model.RoleDeveloper, Name: "Developer", IsSystem: true,
			Description: "Development access with user and page management",
			Permissions: []string{
				PermUsersView, PermUsersCreate, PermUsersEdit, PermUsersDelete,
				PermPagesView, PermPagesCreate, PermPagesEdit, PermPagesDelete,
				PermAnalyticsView,
			},
		},
		{
			ID: model.RoleEditor, Name: "Content Editor", IsSystem: true,
			Description: "Content editing access for assigned pages",
			Permissions: []string{PermPagesView, PermPagesEdit},
		},
		{
			ID: model.RoleUser, Name: "Standard User", IsSystem: true,
			Description: "View-only access to assigned pages",
			Permissions: []string{PermPagesView},
		},
	}
}

// Registry holds the role table. Built-in roles are immutable; custom roles
// can be created, edited, and deleted. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	roles map[string]*model.Role
	order []string
}

// NewRegistry creates a registry seeded with the built-in system roles.
func NewRegistry() *Registry {
	r := &Registry{roles: make(map[string]*model.Role)}
	for _, role := range systemRoles() {
		rc := role
		r.roles[role.ID] = &rc
		r.order = append(r.order, role.ID)
	}
	return r
}

// Permissions returns the static permission catalog.
func (r *Registry) Permissions() []model.Permission {
	out := make([]model.Permission, len(permissions))
	copy(out, permissions)
	return out
}

// Role returns a copy of the role with the given ID.
func (r *Registry) Role(id string) (model.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return model.Role{}, ErrRoleNotFound
	}
	return copyRole(role), nil
}

// Roles returns all roles in registration order.
func (r *Registry) Roles() []model.Role {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Role, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyRole(r.roles[id]))
	}
	return out
}

// HasPermission reports whether the role holds the given permission.
// Unknown roles hold no permissions.
func (r *Registry) HasPermission(roleID, permID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[roleID]
	if !ok {
		return false
	}
	return role.HasPermission(permID)
}

// CanAccessPage reports whether the role satisfies a page's required
// permissions. The list is an allow-list of required capabilities: every
// entry must be held. An empty list grants access.
func (r *Registry) CanAccessPage(roleID string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, perm := range required {
		if !r.HasPermission(roleID, perm) {
			return false
		}
	}
	return true
}

// CreateRole adds a custom role. Fails if the ID is taken.
func (r *Registry) CreateRole(role model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roles[role.ID]; ok {
		return ErrDuplicateRole
	}
	role.IsSystem = false
	rc := copyRole(&role)
	r.roles[role.ID] = &rc
	r.order = append(r.order, role.ID)
	return nil
}

// UpdateRole replaces a custom role's name, description, and permissions.
// System roles reject edits.
func (r *Registry) UpdateRole(id string, name, description string, perms []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[id]
	if !ok {
		return ErrRoleNotFound
	}
	if role.IsSystem {
		return ErrSystemRole
	}

	if name != "" {
		role.Name = name
	}
	if description != "" {
		role.Description = description
	}
	if perms != nil {
		role.Permissions = append([]string(nil), perms...)
	}
	return nil
}

// DeleteRole removes a custom role. System roles reject deletion.
func (r *Registry) DeleteRole(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[id]
	if !ok {
		return ErrRoleNotFound
	}
	if role.IsSystem {
		return ErrSystemRole
	}

	delete(r.roles, id)
	for i, rid := range r.order {
		if rid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func copyRole(role *model.Role) model.Role {
	out := *role
	out.Permissions = append([]string(nil), role.Permissions...)
	return out
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rbac

import (
	"github.com/reportdeck/reportdeck/internal/model"
)

// VisiblePages returns the subset of pages the user may see, preserving the
// directory's listing order.
//
// A page is visible iff it is active, the user either has a role that sees
// all pages (admin/developer) or carries an explicit assignment, and the
// page's allowed-roles list (when present) admits the user's role. Assignment
// and the allow-list are both required: an assigned page whose allow-list
// excludes the user's role stays hidden.
func VisiblePages(user *model.User, pages []model.Page) []model.Page {
	if user == nil {
		return nil
	}

	var visible []model.Page
	for _, p := range pages {
		if !p.IsActive {
			continue
		}
		if !user.SeesAllPages() && !user.HasAssignedPage(p.ID) {
			continue
		}
		if !p.AllowsRole(user.Role) {
			continue
		}
		visible = append(visible, p)
	}
	return visible
}

// CanSeePage reports whether a single page passes the visibility filter for
// the user.
func CanSeePage(user *model.User, p *model.Page) bool {
	if user == nil || p == nil || !p.IsActive {
		return false
	}
	if !user.SeesAllPages() && !user.HasAssignedPage(p.ID) {
		return false
	}
	return p.AllowsRole(user.Role)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// Page types.
const (
	PageTypePowerBI     = "powerbi"
	PageTypeSpreadsheet = "spreadsheet"
	PageTypeHTML        = "html"
)

// Page represents an embedded report page shown on the dashboard.
type Page struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Type         string       `json:"type"`
	SubType      string       `json:"sub_type,omitempty"`
	Description  string       `json:"description,omitempty"`
	Content      *PageContent `json:"content,omitempty"`
	EmbedURL     string       `json:"embed_url,omitempty"`
	HTMLContent  string       `json:"html_content,omitempty"`
	CreatedBy    string       `json:"created_by"`
	IsActive     bool         `json:"is_active"`
	AllowedRoles []string     `json:"allowed_roles,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// AllowsRole returns true if the page's allow-list admits the role.
// An empty allow-list means all roles are admitted.
func (p *Page) AllowsRole(role string) bool {
	if len(p.AllowedRoles) == 0 {
		return true
	}
	for _, r := range p.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// pageSubTypes maps each page type to its valid sub-types.
var pageSubTypes = map[string][]string{
	PageTypePowerBI:     {"dashboard", "report", "analytics"},
	PageTypeSpreadsheet: {"report", "analytics", "data-entry"},
	PageTypeHTML:        {"custom", "widget", "form", "landing"},
}

// ValidPageType returns true if t is a known page type.
func ValidPageType(t string) bool {
	_, ok := pageSubTypes[t]
	return ok
}

// ValidPageSubType returns true if sub is valid for page type t.
// An empty sub-type is always valid.
func ValidPageSubType(t, sub string) bool {
	if sub == "" {
		return true
	}
	for _, s := range pageSubTypes[t] {
		if s == sub {
			return true
		}
	}
	return false
}

// PageSubTypes returns the sub-types available for page type t. The slice
// is a copy; callers may keep or reorder it.
func PageSubTypes(t string) []string {
	return append([]string(nil), pageSubTypes[t]...)
}

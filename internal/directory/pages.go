// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/reportdeck/reportdeck/internal/model"
)

// pageTable is the in-memory pages table; order preserves insertion.
type pageTable struct {
	mu    sync.RWMutex
	byID  map[string]*pageRecord
	order []string
}

type pageRecord struct {
	page model.Page
}

// CreatePageParams carries the fields for a new page.
type CreatePageParams struct {
	Title        string
	Type         string
	SubType      string
	Description  string
	Content      *model.PageContent
	EmbedURL     string
	HTMLContent  string
	CreatedBy    string
	AllowedRoles []string
}

// UpdatePageParams carries a partial page update; nil fields are left as is.
type UpdatePageParams struct {
	Title        *string
	SubType      *string
	Description  *string
	Content      *model.PageContent
	EmbedURL     *string
	HTMLContent  *string
	IsActive     *bool
	AllowedRoles *[]string
	UpdatedBy    string
}

// validatePageShape enforces the type/content contract: html pages carry
// inline HTML or a content model, embed pages carry an embed URL.
func validatePageShape(pageType, subType, embedURL, htmlContent string, content *model.PageContent) error {
	if !model.ValidPageType(pageType) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidPage, pageType)
	}
	if !model.ValidPageSubType(pageType, subType) {
		return fmt.Errorf("%w: sub-type %q not valid for %q", ErrInvalidPage, subType, pageType)
	}
	switch pageType {
	case model.PageTypeHTML:
		if htmlContent == "" && content == nil {
			return fmt.Errorf("%w: html pages require html content or a content model", ErrInvalidPage)
		}
	default:
		if embedURL == "" {
			return fmt.Errorf("%w: %s pages require an embed URL", ErrInvalidPage, pageType)
		}
	}
	return nil
}

// CreatePage inserts a new page and returns it.
func (s *Store) CreatePage(ctx context.Context, params CreatePageParams) (*model.Page, error) {
	if err := validatePageShape(params.Type, params.SubType, params.EmbedURL, params.HTMLContent, params.Content); err != nil {
		return nil, err
	}

	now := s.now()
	page := model.Page{
		ID:           uuid.NewString(),
		Title:        params.Title,
		Type:         params.Type,
		SubType:      params.SubType,
		Description:  params.Description,
		Content:      params.Content.Clone(),
		EmbedURL:     params.EmbedURL,
		HTMLContent:  params.HTMLContent,
		CreatedBy:    params.CreatedBy,
		IsActive:     true,
		AllowedRoles: append([]string(nil), params.AllowedRoles...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.pages.mu.Lock()
	s.pages.byID[page.ID] = &pageRecord{page: page}
	s.pages.order = append(s.pages.order, page.ID)
	s.pages.mu.Unlock()

	s.LogActivity(ctx, model.Activity{
		UserID:  params.CreatedBy,
		Action:  model.ActionPageCreate,
		Details: fmt.Sprintf("Created page: %s", page.Title),
	})
	out := copyPage(&page)
	return out, nil
}

// GetPage returns a copy of the page by ID.
func (s *Store) GetPage(_ context.Context, id string) (*model.Page, error) {
	s.pages.mu.RLock()
	defer s.pages.mu.RUnlock()

	rec, ok := s.pages.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyPage(&rec.page), nil
}

// ListPages returns all pages in insertion order.
func (s *Store) ListPages(_ context.Context) []model.Page {
	s.pages.mu.RLock()
	defer s.pages.mu.RUnlock()

	out := make([]model.Page, 0, len(s.pages.order))
	for _, id := range s.pages.order {
		out = append(out, *copyPage(&s.pages.byID[id].page))
	}
	return out
}

// UpdatePage applies a partial update and refreshes UpdatedAt.
func (s *Store) UpdatePage(ctx context.Context, id string, params UpdatePageParams) error {
	s.pages.mu.Lock()
	rec, ok := s.pages.byID[id]
	if !ok {
		s.pages.mu.Unlock()
		return ErrNotFound
	}

	if params.Title != nil {
		rec.page.Title = *params.Title
	}
	if params.SubType != nil {
		if !model.ValidPageSubType(rec.page.Type, *params.SubType) {
			s.pages.mu.Unlock()
			return fmt.Errorf("%w: sub-type %q not valid for %q", ErrInvalidPage, *params.SubType, rec.page.Type)
		}
		rec.page.SubType = *params.SubType
	}
	if params.Description != nil {
		rec.page.Description = *params.Description
	}
	if params.Content != nil {
		rec.page.Content = params.Content.Clone()
	}
	if params.EmbedURL != nil {
		rec.page.EmbedURL = *params.EmbedURL
	}
	if params.HTMLContent != nil {
		rec.page.HTMLContent = *params.HTMLContent
	}
	if params.IsActive != nil {
		rec.page.IsActive = *params.IsActive
	}
	if params.AllowedRoles != nil {
		rec.page.AllowedRoles = append([]string(nil), (*params.AllowedRoles)...)
	}
	rec.page.UpdatedAt = s.now()
	title := rec.page.Title
	s.pages.mu.Unlock()

	userID := params.UpdatedBy
	if userID == "" {
		userID = "system"
	}
	s.LogActivity(ctx, model.Activity{
		UserID:  userID,
		Action:  model.ActionPageUpdate,
		Details: fmt.Sprintf("Updated page: %s", title),
	})
	return nil
}

// DeletePage removes the page by ID, attributing the deletion to byUserID.
func (s *Store) DeletePage(ctx context.Context, id, byUserID string) error {
	s.pages.mu.Lock()
	rec, ok := s.pages.byID[id]
	if !ok {
		s.pages.mu.Unlock()
		return ErrNotFound
	}
	title := rec.page.Title
	delete(s.pages.byID, id)
	for i, pid := range s.pages.order {
		if pid == id {
			s.pages.order = append(s.pages.order[:i], s.pages.order[i+1:]...)
			break
		}
	}
	s.pages.mu.Unlock()

	s.LogActivity(ctx, model.Activity{
		UserID:  byUserID,
		Action:  model.ActionPageDelete,
		Details: fmt.Sprintf("Deleted page: %s", title),
	})
	return nil
}

func copyPage(p *model.Page) *model.Page {
	out := *p
	out.Content = p.Content.Clone()
	out.AllowedRoles = append([]string(nil), p.AllowedRoles...)
	return &out
}

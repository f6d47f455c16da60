// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content implements the section editor behind html dashboard pages:
// typed section insertion, patch-style updates, a linear undo/redo history,
// and debounced autosave.
package content

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/reportdeck/reportdeck/internal/model"
)

var (
	// ErrSectionNotFound is returned when an edit targets a section ID
	// that is not part of the content model.
	ErrSectionNotFound = errors.New("content: section not found")

	// ErrUnknownSectionType is returned by AddSection for an unrecognized type.
	ErrUnknownSectionType = errors.New("content: unknown section type")
)

// Editor manipulates a single page's content model. All edits go through the
// editor so every state the model passes through lands in the history. Safe
// for concurrent use; in practice one editor exists per open editing session.
type Editor struct {
	mu       sync.Mutex
	current  model.PageContent
	history  []model.PageContent
	cursor   int
	nextID   int
	selected string
}

// NewEditor creates an editor over a copy of initial. The starting content
// forms the first history entry, so the first edit can be undone back to it.
// A nil initial starts an empty grid layout.
func NewEditor(initial *model.PageContent) *Editor {
	var current model.PageContent
	if initial != nil {
		current = *initial.Clone()
	} else {
		current = model.PageContent{Layout: "grid"}
	}

	e := &Editor{
		current: current,
		history: []model.PageContent{*current.Clone()},
		nextID:  maxSectionNumber(current.Sections),
	}
	return e
}

// maxSectionNumber scans existing "section-N" IDs so the counter resumes
// past them and newly added sections never collide.
func maxSectionNumber(sections []model.Section) int {
	max := 0
	for _, s := range sections {
		rest, ok := strings.CutPrefix(s.ID, "section-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > max {
			max = n
		}
	}
	return max
}

// SectionPatch is a partial section update. A nil Content keeps the existing
// payload; Styles entries are merged key by key over the existing styles.
type SectionPatch struct {
	Content model.SectionContent
	Styles  map[string]string
}

// AddSection appends a new section of the given type with that type's stock
// content and styling, selects it, and returns a copy.
func (e *Editor) AddSection(sectionType string) (model.Section, error) {
	content, styles, err := sectionDefaults(sectionType)
	if err != nil {
		return model.Section{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	section := model.Section{
		ID:      fmt.Sprintf("section-%d", e.nextID),
		Type:    sectionType,
		Content: content,
		Styles:  styles,
	}
	e.current.Sections = append(e.current.Sections, section)
	e.selected = section.ID
	e.push()
	return section.Clone(), nil
}

// sectionDefaults returns the stock content and styles for a new section.
func sectionDefaults(sectionType string) (model.SectionContent, map[string]string, error) {
	switch sectionType {
	case model.SectionText:
		return model.TextContent{Text: "Enter your text here..."},
			map[string]string{"fontSize": "16px", "color": "#333333", "textAlign": "left"}, nil
	case model.SectionImage:
		return model.ImageContent{Src: "/placeholder.svg", Alt: "Placeholder image"},
			map[string]string{"width": "100%", "borderRadius": "8px"}, nil
	case model.SectionStats:
		return model.StatsContent{Title: "Statistics", Value: "0", Description: "Description"},
			map[string]string{"background": "#f8f9fa", "padding": "1rem", "textAlign": "center"}, nil
	case model.SectionChart:
		return model.ChartContent{Kind: "bar", Data: []float64{}},
			map[string]string{"height": "300px"}, nil
	case model.SectionLayout:
		return model.LayoutContent{Columns: 2, Gap: "1rem"},
			map[string]string{"display": "grid"}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSectionType, sectionType)
	}
}

// UpdateSection applies a patch to the section with the given ID.
func (e *Editor) UpdateSection(id string, patch SectionPatch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}

	section := &e.current.Sections[idx]
	if patch.Content != nil {
		section.Content = patch.Content
	}
	if len(patch.Styles) > 0 {
		if section.Styles == nil {
			section.Styles = make(map[string]string, len(patch.Styles))
		}
		for k, v := range patch.Styles {
			section.Styles[k] = v
		}
	}
	e.push()
	return nil
}

// DeleteSection removes the section with the given ID. Its ID is retired:
// the counter never reissues it. Deleting the selected section clears the
// selection.
func (e *Editor) DeleteSection(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}

	e.current.Sections = append(e.current.Sections[:idx], e.current.Sections[idx+1:]...)
	if e.selected == id {
		e.selected = ""
	}
	e.push()
	return nil
}

// Select marks the section as the current editing target.
func (e *Editor) Select(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	e.selected = id
	return nil
}

// Selected returns the ID of the selected section, or "" when none is.
func (e *Editor) Selected() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// SetLayout changes the content model's layout name.
func (e *Editor) SetLayout(layout string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current.Layout = layout
	e.push()
}

// Content returns a deep copy of the current content model.
func (e *Editor) Content() *model.PageContent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.Clone()
}

// Undo steps the history cursor back one state. It reports whether a step
// was taken; at the initial state there is nothing to undo.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cursor == 0 {
		return false
	}
	e.cursor--
	e.current = *e.history[e.cursor].Clone()
	return true
}

// Redo steps the history cursor forward one state, reversing an Undo.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cursor >= len(e.history)-1 {
		return false
	}
	e.cursor++
	e.current = *e.history[e.cursor].Clone()
	return true
}

// CanUndo reports whether Undo would take a step.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor > 0
}

// CanRedo reports whether Redo would take a step.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor < len(e.history)-1
}

// push records the current state after an edit. Any redo tail past the
// cursor is discarded, so redo never resurrects an abandoned branch.
// Callers hold e.mu.
func (e *Editor) push() {
	e.history = append(e.history[:e.cursor+1], *e.current.Clone())
	e.cursor = len(e.history) - 1
}

// indexOf returns the position of the section with the given ID, or -1.
// Callers hold e.mu.
func (e *Editor) indexOf(id string) int {
	for i, s := range e.current.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

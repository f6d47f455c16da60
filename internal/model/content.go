// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Section types.
const (
	SectionText   = "text"
	SectionImage  = "image"
	SectionStats  = "stats"
	SectionChart  = "chart"
	SectionLayout = "layout"
)

// PageContent is the editable layout of an html page: an ordered list of
// sections under a named layout.
type PageContent struct {
	Layout   string    `json:"layout"`
	Sections []Section `json:"sections"`
}

// Clone returns a deep copy of the content model.
func (c *PageContent) Clone() *PageContent {
	if c == nil {
		return nil
	}
	out := &PageContent{Layout: c.Layout}
	if c.Sections != nil {
		out.Sections = make([]Section, len(c.Sections))
		for i, s := range c.Sections {
			out.Sections[i] = s.Clone()
		}
	}
	return out
}

// SectionContent is the type-dependent payload of a section.
// The concrete type is determined by Section.Type.
type SectionContent interface {
	sectionContent()
}

// TextContent is the payload of a text section.
type TextContent struct {
	Text string `json:"-"`
}

// ImageContent is the payload of an image section.
type ImageContent struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// StatsContent is the payload of a stats section.
type StatsContent struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// ChartContent is the payload of a chart section.
type ChartContent struct {
	Kind string    `json:"type"`
	Data []float64 `json:"data"`
}

// LayoutContent is the payload of a nested layout section.
type LayoutContent struct {
	Columns int    `json:"columns"`
	Gap     string `json:"gap"`
}

func (TextContent) sectionContent()   {}
func (ImageContent) sectionContent()  {}
func (StatsContent) sectionContent()  {}
func (ChartContent) sectionContent()  {}
func (LayoutContent) sectionContent() {}

// Section is one renderable block of a page's content model. The section ID
// is unique within its parent content model.
type Section struct {
	ID      string            `json:"id"`
	Type    string            `json:"type"`
	Content SectionContent    `json:"content"`
	Styles  map[string]string `json:"styles,omitempty"`
}

// Clone returns a copy of the section with its own styles map and, for
// chart sections, its own data slice. Without the latter a clone would
// share the chart's backing array with the original.
func (s Section) Clone() Section {
	out := s
	if cc, ok := s.Content.(ChartContent); ok && cc.Data != nil {
		data := make([]float64, len(cc.Data))
		copy(data, cc.Data)
		cc.Data = data
		out.Content = cc
	}
	if s.Styles != nil {
		out.Styles = make(map[string]string, len(s.Styles))
		for k, v := range s.Styles {
			out.Styles[k] = v
		}
	}
	return out
}

// sectionJSON is the wire shape of a section; content is decoded per type.
type sectionJSON struct {
	ID      string            `json:"id"`
	Type    string            `json:"type"`
	Content json.RawMessage   `json:"content"`
	Styles  map[string]string `json:"styles,omitempty"`
}

// MarshalJSON implements json.Marshaler. Text sections serialize their
// payload as a bare string, matching the editor wire format.
func (s Section) MarshalJSON() ([]byte, error) {
	var content any = s.Content
	if tc, ok := s.Content.(TextContent); ok {
		content = tc.Text
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sectionJSON{
		ID:      s.ID,
		Type:    s.Type,
		Content: raw,
		Styles:  s.Styles,
	})
}

// UnmarshalJSON implements json.Unmarshaler, decoding the content payload
// into the variant selected by the section type.
func (s *Section) UnmarshalJSON(data []byte) error {
	var sj sectionJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return err
	}

	content, err := decodeSectionContent(sj.Type, sj.Content)
	if err != nil {
		return err
	}

	s.ID = sj.ID
	s.Type = sj.Type
	s.Content = content
	s.Styles = sj.Styles
	return nil
}

// DecodeSectionContent decodes a raw content payload into the variant
// selected by the section type. Exposed for handlers that patch a single
// section and must decode the payload against the section's existing type.
func DecodeSectionContent(sectionType string, raw json.RawMessage) (SectionContent, error) {
	return decodeSectionContent(sectionType, raw)
}

// decodeSectionContent decodes a raw content payload for the given section type.
func decodeSectionContent(sectionType string, raw json.RawMessage) (SectionContent, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}

	switch sectionType {
	case SectionText:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("decoding text section content: %w", err)
		}
		return TextContent{Text: text}, nil
	case SectionImage:
		var c ImageContent
		if err := unmarshalStrict(raw, &c); err != nil {
			return nil, fmt.Errorf("decoding image section content: %w", err)
		}
		return c, nil
	case SectionStats:
		var c StatsContent
		if err := unmarshalStrict(raw, &c); err != nil {
			return nil, fmt.Errorf("decoding stats section content: %w", err)
		}
		return c, nil
	case SectionChart:
		var c ChartContent
		if err := unmarshalStrict(raw, &c); err != nil {
			return nil, fmt.Errorf("decoding chart section content: %w", err)
		}
		return c, nil
	case SectionLayout:
		var c LayoutContent
		if err := unmarshalStrict(raw, &c); err != nil {
			return nil, fmt.Errorf("decoding layout section content: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown section type %q", sectionType)
	}
}

// unmarshalStrict decodes JSON rejecting unknown fields, so malformed
// payloads fail at the boundary instead of silently dropping data.
func unmarshalStrict(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

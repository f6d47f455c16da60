// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render produces the sanitized viewer HTML for report pages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/reportdeck/reportdeck/internal/model"
)

// htmlSanitizer is the policy applied to user-authored HTML and rendered
// markdown. UGCPolicy keeps safe user-generated markup and strips scripts,
// event handlers and the like.
var htmlSanitizer = bluemonday.UGCPolicy()

// Page renders a page into viewer HTML. Embed pages become an iframe,
// html pages either their content model or their sanitized inline HTML.
func Page(p *model.Page) (template.HTML, error) {
	switch p.Type {
	case model.PageTypePowerBI, model.PageTypeSpreadsheet:
		return embedFrame(p), nil
	case model.PageTypeHTML:
		if p.Content != nil {
			return contentModel(p.Content)
		}
		return template.HTML(htmlSanitizer.Sanitize(p.HTMLContent)), nil
	default:
		return "", fmt.Errorf("render: unknown page type %q", p.Type)
	}
}

// embedFrame wraps the page's embed URL in a full-size iframe.
func embedFrame(p *model.Page) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<iframe src="%s" title="%s" class="report-embed" allowfullscreen loading="lazy"></iframe>`,
		template.HTMLEscapeString(p.EmbedURL),
		template.HTMLEscapeString(p.Title),
	))
}

// contentModel renders an editable content model section by section.
func contentModel(c *model.PageContent) (template.HTML, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="content-layout content-layout-%s">`,
		template.HTMLEscapeString(c.Layout))
	for _, s := range c.Sections {
		html, err := section(s)
		if err != nil {
			return "", err
		}
		b.WriteString(string(html))
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String()), nil
}

// section renders one section with its inline styles applied to the wrapper.
func section(s model.Section) (template.HTML, error) {
	inner, err := sectionBody(s)
	if err != nil {
		return "", err
	}
	return template.HTML(fmt.Sprintf(
		`<div id="%s" class="section section-%s"%s>%s</div>`,
		template.HTMLEscapeString(s.ID),
		template.HTMLEscapeString(s.Type),
		styleAttr(s.Styles),
		inner,
	)), nil
}

func sectionBody(s model.Section) (string, error) {
	switch c := s.Content.(type) {
	case model.TextContent:
		return markdown(c.Text)
	case model.ImageContent:
		return fmt.Sprintf(`<img src="%s" alt="%s">`,
			template.HTMLEscapeString(c.Src),
			template.HTMLEscapeString(c.Alt)), nil
	case model.StatsContent:
		return fmt.Sprintf(
			`<h3>%s</h3><p class="stats-value">%s</p><p class="stats-description">%s</p>`,
			template.HTMLEscapeString(c.Title),
			template.HTMLEscapeString(c.Value),
			template.HTMLEscapeString(c.Description)), nil
	case model.ChartContent:
		data, err := chartData(c.Data)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(`<div class="chart" data-chart-type="%s" data-chart-values="%s"></div>`,
			template.HTMLEscapeString(c.Kind), data), nil
	case model.LayoutContent:
		return fmt.Sprintf(`<div class="nested-layout" data-columns="%d" data-gap="%s"></div>`,
			c.Columns, template.HTMLEscapeString(c.Gap)), nil
	default:
		return "", fmt.Errorf("render: unknown section content %T", s.Content)
	}
}

// markdown converts section text to HTML and sanitizes the result.
func markdown(text string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("rendering section text: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// chartData joins chart values into a comma-separated attribute payload.
func chartData(values []float64) (string, error) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	}
	return strings.Join(parts, ","), nil
}

// styleAttr builds a style attribute from a section's styles, keys sorted
// so output is stable.
func styleAttr(styles map[string]string) string {
	if len(styles) == 0 {
		return ""
	}
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s",
			template.HTMLEscapeString(cssProperty(k)),
			template.HTMLEscapeString(styles[k])))
	}
	return fmt.Sprintf(` style="%s"`, strings.Join(parts, "; "))
}

// cssProperty converts a camelCase style key to its CSS property name.
func cssProperty(key string) string {
	var b strings.Builder
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

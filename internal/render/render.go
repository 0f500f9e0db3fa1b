// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render produces the public page HTML from embedded templates.
// Pages render to a string so the result can be cached in Valkey and
// written to many responses.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"linkbio/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds everything the public page template needs.
type PageData struct {
	Page  *models.Page
	Links []models.Link
}

// Renderer handles template parsing and execution for public pages.
type Renderer struct {
	page     *template.Template
	notFound *template.Template
}

// New creates a Renderer by parsing the embedded public templates.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		// deref safely dereferences a string pointer for use in templates.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		// themeClass maps a theme name to the page's CSS class. Unknown
		// names fall back to the default theme so a bad row never breaks
		// the render.
		"themeClass": func(name string) string {
			if models.ThemeByName(name) == nil {
				name = models.DefaultTheme
			}
			return "theme-" + name
		},
		// iconGlyph resolves a link's icon tag to its glyph character.
		"iconGlyph": iconGlyph,
	}

	page, err := template.New("page.html").Funcs(funcMap).ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	notFound, err := template.New("not_found.html").ParseFS(templateFS, "templates/not_found.html")
	if err != nil {
		return nil, fmt.Errorf("parse not found template: %w", err)
	}

	return &Renderer{page: page, notFound: notFound}, nil
}

// PublicPage renders a page with its links to an HTML string.
func (rn *Renderer) PublicPage(page *models.Page, links []models.Link) (string, error) {
	var b strings.Builder
	if err := rn.page.ExecuteTemplate(&b, "page.html", &PageData{Page: page, Links: links}); err != nil {
		return "", fmt.Errorf("render page %s: %w", page.Slug, err)
	}
	return b.String(), nil
}

// NotFound renders the 404 page shown for unknown slugs.
func (rn *Renderer) NotFound() (string, error) {
	var b strings.Builder
	if err := rn.notFound.ExecuteTemplate(&b, "not_found.html", nil); err != nil {
		return "", fmt.Errorf("render not found page: %w", err)
	}
	return b.String(), nil
}

// iconGlyphs maps icon tags to the character rendered inside the link
// button. The public page ships no icon font, so plain glyphs keep the
// payload tiny.
var iconGlyphs = map[string]string{
	"github":    "\U0001F419",
	"instagram": "\U0001F4F7",
	"linkedin":  "\U0001F4BC",
	"twitter":   "\U0001F426",
	"youtube":   "▶",
	"tiktok":    "\U0001F3B5",
	"whatsapp":  "\U0001F4AC",
	"mail":      "✉",
	"globe":     "\U0001F310",
	"link":      "\U0001F517",
}

func iconGlyph(l models.Link) string {
	if g, ok := iconGlyphs[l.IconTag()]; ok {
		return g
	}
	return iconGlyphs[models.IconFallback]
}

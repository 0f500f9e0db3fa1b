// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// LinkTypeWebsite is the only link type currently in use. The column
// exists so future link kinds (embed, file, ...) don't need a migration.
const LinkTypeWebsite = "website"

// Defaults applied when a page is created on first sign-in.
const (
	DefaultTitle     = "Minha Página"
	DefaultBio       = "Bem-vindo à minha página! Edite esta bio no painel."
	DefaultLinkTitle = "Meu Site Pessoal"
	DefaultLinkURL   = "https://seusite.com"
	DefaultLinkIcon  = "globe"
)

// Page represents a public link-in-bio page, addressed by its slug.
type Page struct {
	Slug          string    `json:"slug"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Bio           string    `json:"bio"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	BackgroundURL *string   `json:"background_url,omitempty"`
	Theme         string    `json:"theme"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasBackground returns true if a custom background image is set.
// A background visually overrides the theme on the public page.
func (p *Page) HasBackground() bool {
	return p.BackgroundURL != nil && *p.BackgroundURL != ""
}

// Link represents one outbound link on a page. Links carry a stable
// UUID so edits and removals address a specific entry even when two
// entries share the same title and URL.
type Link struct {
	ID        uuid.UUID `json:"id"`
	PageSlug  string    `json:"page_slug"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	Position  int       `json:"position"`
	Icon      *string   `json:"icon,omitempty"`
	Clicks    int64     `json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IconTag returns the link's icon tag, or the generic fallback when the
// tag is absent or unknown.
func (l *Link) IconTag() string {
	if l.Icon == nil {
		return IconFallback
	}
	return NormalizeIcon(*l.Icon)
}

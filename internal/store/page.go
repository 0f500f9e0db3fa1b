// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"linkbio/internal/models"
)

// PageStore handles all page-related database operations.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

const pageColumns = `slug, user_id, title, bio, avatar_url, background_url, theme, created_at, updated_at`

func scanPage(row *sql.Row) (*models.Page, error) {
	p := &models.Page{}
	err := row.Scan(
		&p.Slug, &p.UserID, &p.Title, &p.Bio, &p.AvatarURL,
		&p.BackgroundURL, &p.Theme, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindBySlug retrieves a page by its public slug. Returns nil if not found.
func (s *PageStore) FindBySlug(slug string) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE slug = $1`, slug))
	if err != nil {
		return nil, fmt.Errorf("find page by slug: %w", err)
	}
	return p, nil
}

// FindByOwner retrieves the page belonging to a user. Returns nil if the
// user has no page.
func (s *PageStore) FindByOwner(uid string) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE user_id = $1`, uid))
	if err != nil {
		return nil, fmt.Errorf("find page by owner: %w", err)
	}
	return p, nil
}

// SetProfileText updates the page title and bio.
func (s *PageStore) SetProfileText(slug, title, bio string) error {
	res, err := s.db.Exec(`
		UPDATE pages SET title = $1, bio = $2, updated_at = NOW() WHERE slug = $3
	`, title, bio, slug)
	if err != nil {
		return fmt.Errorf("set profile text: %w", err)
	}
	return requireRow(res, "set profile text", slug)
}

// SetTheme updates the page theme. Plan gating happens at the handler
// level; the store just writes.
func (s *PageStore) SetTheme(slug, theme string) error {
	res, err := s.db.Exec(`
		UPDATE pages SET theme = $1, updated_at = NOW() WHERE slug = $2
	`, theme, slug)
	if err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return requireRow(res, "set theme", slug)
}

// SetAvatar updates the page avatar URL. Pass nil to clear it.
func (s *PageStore) SetAvatar(slug string, url *string) error {
	res, err := s.db.Exec(`
		UPDATE pages SET avatar_url = $1, updated_at = NOW() WHERE slug = $2
	`, url, slug)
	if err != nil {
		return fmt.Errorf("set avatar: %w", err)
	}
	return requireRow(res, "set avatar", slug)
}

// SetBackground updates the page background URL. Pass nil to clear it.
func (s *PageStore) SetBackground(slug string, url *string) error {
	res, err := s.db.Exec(`
		UPDATE pages SET background_url = $1, updated_at = NOW() WHERE slug = $2
	`, url, slug)
	if err != nil {
		return fmt.Errorf("set background: %w", err)
	}
	return requireRow(res, "set background", slug)
}

func requireRow(res sql.Result, op, slug string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: page %s not found", op, slug)
	}
	return nil
}

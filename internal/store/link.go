// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"linkbio/internal/models"
)

// LinkStore handles all link-related database operations.
type LinkStore struct {
	db *sql.DB
}

// NewLinkStore creates a new LinkStore with the given database connection.
func NewLinkStore(db *sql.DB) *LinkStore {
	return &LinkStore{db: db}
}

const linkColumns = `id, page_slug, title, url, link_type, position, icon, clicks, created_at, updated_at`

// ListForPage returns all links of a page ordered by position, then by
// creation time so two links that ever share a position render stably.
func (s *LinkStore) ListForPage(pageSlug string) ([]models.Link, error) {
	rows, err := s.db.Query(`
		SELECT `+linkColumns+`
		FROM links WHERE page_slug = $1
		ORDER BY position ASC, created_at ASC
	`, pageSlug)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(
			&l.ID, &l.PageSlug, &l.Title, &l.URL, &l.Type, &l.Position,
			&l.Icon, &l.Clicks, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// Append inserts a new link at the end of the page's list. The position is
// max+1 computed in the insert itself so concurrent appends cannot race a
// separate read.
func (s *LinkStore) Append(pageSlug, title, url, linkType string, icon *string) (*models.Link, error) {
	l := &models.Link{}
	err := s.db.QueryRow(`
		INSERT INTO links (page_slug, title, url, link_type, position, icon)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM links WHERE page_slug = $1),
			$5)
		RETURNING `+linkColumns+`
	`, pageSlug, title, url, linkType, icon).Scan(
		&l.ID, &l.PageSlug, &l.Title, &l.URL, &l.Type, &l.Position,
		&l.Icon, &l.Clicks, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("append link: %w", err)
	}
	return l, nil
}

// Update changes a link's title, URL, type, and icon. The page slug is part
// of the predicate so a caller can never edit another page's link. Returns
// nil, nil when no such link exists on the page.
func (s *LinkStore) Update(pageSlug string, id uuid.UUID, title, url, linkType string, icon *string) (*models.Link, error) {
	l := &models.Link{}
	err := s.db.QueryRow(`
		UPDATE links SET title = $1, url = $2, link_type = $3, icon = $4, updated_at = NOW()
		WHERE id = $5 AND page_slug = $6
		RETURNING `+linkColumns+`
	`, title, url, linkType, icon, id, pageSlug).Scan(
		&l.ID, &l.PageSlug, &l.Title, &l.URL, &l.Type, &l.Position,
		&l.Icon, &l.Clicks, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update link: %w", err)
	}
	return l, nil
}

// Delete removes a link from a page. Returns false when no such link
// exists on the page.
func (s *LinkStore) Delete(pageSlug string, id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		DELETE FROM links WHERE id = $1 AND page_slug = $2
	`, id, pageSlug)
	if err != nil {
		return false, fmt.Errorf("delete link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete link rows: %w", err)
	}
	return n > 0, nil
}

// Reorder assigns positions 1..n to the given link IDs in order, in a
// single transaction. IDs not belonging to the page are ignored by the
// predicate and reported as an error so a stale client list cannot
// silently scramble the page.
func (s *LinkStore) Reorder(pageSlug string, ids []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE links SET position = $1, updated_at = $2
		WHERE id = $3 AND page_slug = $4`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i, id := range ids {
		res, err := stmt.Exec(i+1, now, id, pageSlug)
		if err != nil {
			return fmt.Errorf("reorder link %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reorder link %s rows: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("reorder: link %s not on page %s", id, pageSlug)
		}
	}

	return tx.Commit()
}

// IncrementClick atomically bumps a link's click counter and returns its
// URL for the redirect. A single UPDATE means concurrent clicks can never
// lose counts. Returns nil, nil when the link does not exist.
func (s *LinkStore) IncrementClick(pageSlug string, id uuid.UUID) (*models.Link, error) {
	l := &models.Link{}
	err := s.db.QueryRow(`
		UPDATE links SET clicks = clicks + 1
		WHERE id = $1 AND page_slug = $2
		RETURNING `+linkColumns+`
	`, id, pageSlug).Scan(
		&l.ID, &l.PageSlug, &l.Title, &l.URL, &l.Type, &l.Position,
		&l.Icon, &l.Clicks, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("increment click: %w", err)
	}
	return l, nil
}

// Package store provides database access methods for all link-page
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"linkbio/internal/models"
	"linkbio/internal/slug"
)

// slugRetries bounds how many times EnsureUser retries a colliding
// page slug before giving up. The suffix space makes a third collision
// for the same display name effectively impossible.
const slugRetries = 3

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByUID retrieves a user by their identity UID. Returns nil if not found.
func (s *UserStore) FindByUID(uid string) (*models.UserProfile, error) {
	u := &models.UserProfile{}
	err := s.db.QueryRow(`
		SELECT uid, email, display_name, page_slug, plan, role, created_at, updated_at
		FROM users WHERE uid = $1
	`, uid).Scan(
		&u.UID, &u.Email, &u.DisplayName, &u.PageSlug, &u.Plan, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by uid: %w", err)
	}
	return u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not
// found. Used by the admin panel to look up accounts for plan changes.
func (s *UserStore) FindByEmail(email string) (*models.UserProfile, error) {
	u := &models.UserProfile{}
	err := s.db.QueryRow(`
		SELECT uid, email, display_name, page_slug, plan, role, created_at, updated_at
		FROM users WHERE email = $1
	`, email).Scan(
		&u.UID, &u.Email, &u.DisplayName, &u.PageSlug, &u.Plan, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// EnsureUser returns the existing profile for uid, or provisions a new
// account: the user row, their page, and the starter link are created in
// one transaction so a crash can never leave a user without a page. The
// identity provider's photo, when present, becomes the initial page
// avatar. Slug collisions are resolved by regenerating the random suffix.
func (s *UserStore) EnsureUser(uid, email, displayName, avatarURL string) (*models.UserProfile, error) {
	if existing, err := s.FindByUID(uid); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	var lastErr error
	for attempt := 0; attempt < slugRetries; attempt++ {
		u, err := s.createUser(uid, email, displayName, avatarURL, slug.ForDisplayName(displayName))
		if err == nil {
			return u, nil
		}
		if !isSlugCollision(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("ensure user %s: slug collisions exhausted: %w", uid, lastErr)
}

func (s *UserStore) createUser(uid, email, displayName, avatarURL, pageSlug string) (*models.UserProfile, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	u := &models.UserProfile{}
	err = tx.QueryRow(`
		INSERT INTO users (uid, email, display_name, page_slug)
		VALUES ($1, $2, $3, $4)
		RETURNING uid, email, display_name, page_slug, plan, role, created_at, updated_at
	`, uid, email, displayName, pageSlug).Scan(
		&u.UID, &u.Email, &u.DisplayName, &u.PageSlug, &u.Plan, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	title := displayName
	if title == "" {
		title = models.DefaultTitle
	}
	_, err = tx.Exec(`
		INSERT INTO pages (slug, user_id, title, bio, theme, avatar_url)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
	`, pageSlug, uid, title, models.DefaultBio, models.DefaultTheme, avatarURL)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO links (page_slug, title, url, link_type, position, icon)
		VALUES ($1, $2, $3, $4, 1, $5)
	`, pageSlug, models.DefaultLinkTitle, models.DefaultLinkURL, models.LinkTypeWebsite, models.DefaultLinkIcon)
	if err != nil {
		return nil, fmt.Errorf("create starter link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit signup: %w", err)
	}
	return u, nil
}

// SetPlan updates a user's subscription plan. Admin-only at the handler
// level; the store just writes.
func (s *UserStore) SetPlan(uid string, plan models.Plan) error {
	res, err := s.db.Exec(`
		UPDATE users SET plan = $1, updated_at = NOW() WHERE uid = $2
	`, plan, uid)
	if err != nil {
		return fmt.Errorf("set plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set plan rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set plan: user %s not found", uid)
	}
	return nil
}

// isSlugCollision reports whether err is a unique constraint violation
// (SQLSTATE 23505) on the pages primary key. Violations on other
// constraints, like a duplicate email, must not trigger a slug retry.
func isSlugCollision(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "pages_pkey"
}

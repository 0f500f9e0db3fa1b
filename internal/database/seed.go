package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: one admin
// user with a ready-made page and the default first link. The uid
// matches the token the dev identity gateway stub accepts.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	const (
		uid   = "dev-admin"
		email = "admin@linkbio.local"
		pSlug = "admin-1000"
	)

	if _, err := tx.Exec(`
		INSERT INTO users (uid, email, display_name, page_slug, plan, role)
		VALUES ($1, $2, $3, $4, 'pro', 'admin')
	`, uid, email, "Admin", pSlug); err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO pages (slug, user_id, title, bio)
		VALUES ($1, $2, $3, $4)
	`, pSlug, uid, "Admin", "Bem-vindo à minha página! Edite esta bio no painel."); err != nil {
		return fmt.Errorf("seed insert page: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO links (page_slug, title, url, position, icon)
		VALUES ($1, 'Meu Site Pessoal', 'https://seusite.com', 1, 'globe')
	`, pSlug); err != nil {
		return fmt.Errorf("seed insert link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default admin user", "email", email, "slug", pSlug)
	return nil
}

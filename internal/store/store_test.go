// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"linkbio/internal/database"
	"linkbio/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "linkbio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "linkbio")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users and their pages by UID. Link rows go with
// the page via ON DELETE CASCADE. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, uids ...string) {
	t.Helper()
	for _, uid := range uids {
		db.Exec("DELETE FROM pages WHERE user_id = $1", uid)
		db.Exec("DELETE FROM users WHERE uid = $1", uid)
	}
}

// signupUser provisions a full test account (user + page + starter link)
// and returns the profile. Fails the test on error.
func signupUser(t *testing.T, db *sql.DB, uid, email, displayName string) *models.UserProfile {
	t.Helper()
	u, err := NewUserStore(db).EnsureUser(uid, email, displayName, "")
	if err != nil {
		t.Fatalf("EnsureUser(%s): %v", uid, err)
	}
	return u
}

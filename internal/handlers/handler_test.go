// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"linkbio/internal/cache"
	"linkbio/internal/database"
	"linkbio/internal/identity"
	"linkbio/internal/middleware"
	"linkbio/internal/models"
	"linkbio/internal/render"
	"linkbio/internal/session"
	"linkbio/internal/store"
)

// testUpgradeURL is the plan-upgrade contact link handed to the
// dashboard handlers under test.
const testUpgradeURL = "mailto:upgrade@handler-test.local"

// mockVerifier implements identity.Verifier for handler tests.
type mockVerifier struct {
	identity *identity.Identity
	err      error
}

func (m *mockVerifier) Verify(_ context.Context, _ string) (*identity.Identity, error) {
	return m.identity, m.err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "linkbio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "linkbio")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and cache keys.
		for _, pattern := range []string{"session:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Renderer  *render.Renderer
	Sessions  *session.Store
	UserStore *store.UserStore
	PageStore *store.PageStore
	LinkStore *store.LinkStore
	PageCache *cache.PageCache
	Verifier  *mockVerifier
	Auth      *Auth
	Dashboard *Dashboard
	Admin     *Admin
	Public    *Public
	Uploads   *Uploads
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk, false)
	userStore := store.NewUserStore(db)
	pageStore := store.NewPageStore(db)
	linkStore := store.NewLinkStore(db)
	pageCache := cache.NewPageCache(vk)

	verifier := &mockVerifier{}
	auth := NewAuth(verifier, sessions, userStore)
	dashboard := NewDashboard(userStore, pageStore, linkStore, pageCache, testUpgradeURL)
	admin := NewAdmin(userStore)
	public := NewPublic(pageStore, linkStore, renderer, pageCache)
	// No S3 in the test environment; only the pre-storage error paths of
	// the upload flow are exercised.
	uploads := NewUploads(userStore, pageStore, nil, pageCache)

	return &testEnv{
		DB:        db,
		Valkey:    vk,
		Renderer:  renderer,
		Sessions:  sessions,
		UserStore: userStore,
		PageStore: pageStore,
		LinkStore: linkStore,
		PageCache: pageCache,
		Verifier:  verifier,
		Auth:      auth,
		Dashboard: dashboard,
		Admin:     admin,
		Public:    public,
		Uploads:   uploads,
	}
}

// signup provisions a test account and registers cleanup.
func (e *testEnv) signup(t *testing.T, uid, email, displayName string) *models.UserProfile {
	t.Helper()
	u, err := e.UserStore.EnsureUser(uid, email, displayName, "")
	if err != nil {
		t.Fatalf("EnsureUser(%s): %v", uid, err)
	}
	t.Cleanup(func() {
		e.DB.Exec("DELETE FROM pages WHERE user_id = $1", uid)
		e.DB.Exec("DELETE FROM users WHERE uid = $1", uid)
	})
	return u
}

// sessionFor builds session data matching a profile.
func sessionFor(u *models.UserProfile) *session.Data {
	return &session.Data{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Plan:        u.Plan,
		PageSlug:    u.PageSlug,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withSession attaches session data to a request.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(ctxWithSession(r.Context(), sess))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

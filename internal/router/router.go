// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains. It
// organizes routes into the public page surface, the JSON API, and the
// admin group with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"linkbio/internal/handlers"
	"linkbio/internal/middleware"
	"linkbio/internal/session"
)

// Handlers bundles the handler groups the router mounts. Uploads may be
// nil when S3 storage is not configured; the media routes are then left
// unmounted.
type Handlers struct {
	Auth      *handlers.Auth
	Dashboard *handlers.Dashboard
	Uploads   *handlers.Uploads
	Admin     *handlers.Admin
	Public    *handlers.Public
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Brute-force and click-spam protection. Sliding windows, keyed by
	// client IP.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	clickLimiter := middleware.NewRateLimiter(120, time.Minute)

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// JSON API — session-aware and CSRF-protected.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LoadSession(sessionStore))
		r.Use(middleware.CSRF)

		r.With(loginLimiter.Middleware).Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/logout", h.Auth.Logout)

			// The signed-in user's own page.
			r.Route("/page", func(r chi.Router) {
				mountPage(r, h)
			})

			// Admin area: user lookup, plan changes, and page editing on
			// behalf of a user through the same page routes.
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/users", h.Admin.FindUser)
				r.Route("/users/{uid}", func(r chi.Router) {
					r.Put("/plan", h.Admin.SetPlan)
					r.Route("/page", func(r chi.Router) {
						mountPage(r, h)
					})
				})
			})
		})
	})

	// Public surface — rendered pages and the click redirect.
	r.With(clickLimiter.Middleware).Get("/r/{slug}/{linkID}", h.Public.ClickRedirect)
	r.Get("/{slug}", h.Public.Page)

	return r
}

// mountPage wires the page editing routes. Mounted twice: once for the
// session user's own page, once under the admin tree where the target
// uid comes from the URL.
func mountPage(r chi.Router, h Handlers) {
	r.Get("/", h.Dashboard.GetPage)
	r.Put("/profile", h.Dashboard.UpdateProfile)
	r.Put("/theme", h.Dashboard.UpdateTheme)

	r.Post("/links", h.Dashboard.CreateLink)
	r.Put("/links/reorder", h.Dashboard.ReorderLinks)
	r.Put("/links/{linkID}", h.Dashboard.UpdateLink)
	r.Delete("/links/{linkID}", h.Dashboard.DeleteLink)

	if h.Uploads != nil {
		r.Post("/avatar", h.Uploads.Avatar)
		r.Post("/background", h.Uploads.Background)
		r.Delete("/background", h.Uploads.RemoveBackground)
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

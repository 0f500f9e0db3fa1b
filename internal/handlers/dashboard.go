// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"linkbio/internal/cache"
	"linkbio/internal/middleware"
	"linkbio/internal/models"
	"linkbio/internal/store"
)

// Dashboard groups the page management handlers. The same handler set is
// mounted twice: under /api/page the target is the session user's own
// page, and under /api/admin/users/{uid}/page an admin edits any user's
// page. targetPage resolves which page a request addresses.
type Dashboard struct {
	userStore *store.UserStore
	pageStore *store.PageStore
	linkStore *store.LinkStore
	pageCache *cache.PageCache
	// upgradeURL is the contact link free users follow to request the
	// pro plan; there is no self-serve billing.
	upgradeURL string
}

// NewDashboard creates a new Dashboard handler group.
func NewDashboard(userStore *store.UserStore, pageStore *store.PageStore, linkStore *store.LinkStore, pageCache *cache.PageCache, upgradeURL string) *Dashboard {
	return &Dashboard{
		userStore:  userStore,
		pageStore:  pageStore,
		linkStore:  linkStore,
		pageCache:  pageCache,
		upgradeURL: upgradeURL,
	}
}

// target describes the page a dashboard request operates on.
type target struct {
	slug string
	uid  string
	plan models.Plan
	// impersonating is true when an admin edits another user's page via
	// the admin mount. Pro gates are bypassed in that case.
	impersonating bool
}

// targetPage resolves the page addressed by the request. On the admin
// mount a {uid} path parameter is present and names the page owner; on
// the user mount the session's own page is the target. The user row may
// carry a stale or empty slug, so the slug is resolved against the pages
// table with an ownership fallback before any read or write uses it.
// Writes the error response itself and returns nil on failure.
func targetPage(w http.ResponseWriter, r *http.Request, userStore *store.UserStore, pageStore *store.PageStore) *target {
	sess := middleware.SessionFromCtx(r.Context())

	t := &target{slug: sess.PageSlug, uid: sess.UID, plan: sess.Plan}
	if uid := chi.URLParam(r, "uid"); uid != "" {
		// Admin mount: RequireAdmin already ran, resolve the target user.
		user, err := userStore.FindByUID(uid)
		if err != nil {
			slog.Error("find target user failed", "error", err, "uid", uid)
			respondError(w, http.StatusInternalServerError, "could not load user")
			return nil
		}
		if user == nil {
			respondError(w, http.StatusNotFound, "user not found")
			return nil
		}
		t = &target{slug: user.PageSlug, uid: user.UID, plan: user.Plan, impersonating: true}
	}

	page, err := pageStore.FindBySlug(t.slug)
	if err != nil {
		slog.Error("find page failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusInternalServerError, "could not load page")
		return nil
	}
	if page == nil {
		page, err = pageStore.FindByOwner(t.uid)
		if err != nil {
			slog.Error("find page by owner failed", "error", err, "uid", t.uid)
			respondError(w, http.StatusInternalServerError, "could not load page")
			return nil
		}
	}
	if page == nil {
		respondError(w, http.StatusNotFound, "page not found")
		return nil
	}
	t.slug = page.Slug
	return t
}

// pageResponse bundles a page with its links, the shape the dashboard
// client renders from.
type pageResponse struct {
	Page   *models.Page   `json:"page"`
	Links  []models.Link  `json:"links"`
	Themes []models.Theme `json:"themes"`
	// UpgradeURL is where the client sends users who want pro features.
	UpgradeURL string `json:"upgrade_url"`
}

// GetPage returns the target page with its links and the theme catalog.
func (d *Dashboard) GetPage(w http.ResponseWriter, r *http.Request) {
	t := targetPage(w, r, d.userStore, d.pageStore)
	if t == nil {
		return
	}

	page, err := d.pageStore.FindBySlug(t.slug)
	if err != nil || page == nil {
		slog.Error("find page failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusInternalServerError, "could not load page")
		return
	}

	links, err := d.linkStore.ListForPage(page.Slug)
	if err != nil {
		slog.Error("list links failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusInternalServerError, "could not load links")
		return
	}

	respondJSON(w, http.StatusOK, &pageResponse{Page: page, Links: links, Themes: models.Themes, UpgradeURL: d.upgradeURL})
}

type profileRequest struct {
	Title string `json:"title"`
	Bio   string `json:"bio"`
}

// UpdateProfile changes the page title and bio.
func (d *Dashboard) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	t := targetPage(w, r, d.userStore, d.pageStore)
	if t == nil {
		return
	}

	var req profileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateProfile(req.Title, req.Bio); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := d.pageStore.SetProfileText(t.slug, strings.TrimSpace(req.Title), strings.TrimSpace(req.Bio)); err != nil {
		slog.Error("set profile failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusInternalServerError, "could not save profile")
		return
	}
	d.pageCache.Invalidate(r.Context(), t.slug)

	d.respondWithPage(w, r, t.slug)
}

type themeRequest struct {
	Theme string `json:"theme"`
}

// UpdateTheme changes the page theme, enforcing the pro gate for the
// acting plan. Admin impersonation bypasses the gate.
func (d *Dashboard) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	t := targetPage(w, r, d.userStore, d.pageStore)
	if t == nil {
		return
	}

	var req themeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	theme := models.ThemeByName(req.Theme)
	if theme == nil {
		respondError(w, http.StatusUnprocessableEntity, "Unknown theme.")
		return
	}
	if !models.CanSelectTheme(theme, t.plan, t.impersonating) {
		respondError(w, http.StatusForbidden, "This theme requires the Pro plan.")
		return
	}

	if err := d.pageStore.SetTheme(t.slug, theme.Name); err != nil {
		slog.Error("set theme failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusInternalServerError, "could not save theme")
		return
	}
	d.pageCache.Invalidate(r.Context(), t.slug)

	d.respondWithPage(w, r, t.slug)
}

type linkRequest struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Icon  *string `json:"icon,omitempty"`
}

// CreateLink appends a new link to the end of the page.
func (d *Dashboard) CreateLink(w http.ResponseWriter, r *http.Request) {
	t := targetPage(w, r, d.userStore, d.pageStore)
	if t == nil {
		return
	}

	var req linkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateLink(req.Title, req.URL); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	link, err := d.linkStore.Append(t.slug, strings.TrimSpace(req.Title), strings.TrimSpace(req.URL), models.LinkTypeWebsite, normalizeIcon(req.Icon))
	if err != nil {
		slog.Error("append link failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusInternalServerError, "could not create link")
		return
	}
	d.pageCache.Invalidate(r.Context(), t.slug)

	respondJSON(w, http.StatusCreated, link)
}

// UpdateLink edits an existing link addressed by its ID.
func (d *Dashboard) UpdateLink(w http.ResponseWriter, r *http.Request) {
	t := targetPage(w, r, d.userStore, d.pageStore)
	if t == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "linkID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid link id")
		return
	}

	var req linkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateLink(req.Title, req.URL); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	link, err := d.linkStore.Update(t.slug, id, strings.TrimSpace(req.Title), strings.TrimSpace(req.URL), models.LinkTypeWebsite, normalizeIcon(req.Icon))
	if err != nil {
		slog.Error("update link failed", "error", err, "slug", t.slug, "link", id)
		respondError(w, http.StatusInternalServerError, "could not update link")
		return
	}
	if link == nil {
		respondError(w, http.StatusNotFound, "link not found")
		return
	}
	d.pageCache.Invalidate(r.Context(), t.slug)

	respondJSON(w, http.StatusOK, link)
}

// DeleteLink removes a link addressed by its ID. Duplicate links are
// unaffected: only the addressed entry goes away.
func (d *Dashboard) DeleteLink(w http.ResponseWriter, r *http.Request) {
	t := targetPage(w, r, d.userStore, d.pageStore)
	if t == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "linkID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid link id")
		return
	}

	ok, err := d.linkStore.Delete(t.slug, id)
	if err != nil {
		slog.Error("delete link failed", "error", err, "slug", t.slug, "link", id)
		respondError(w, http.StatusInternalServerError, "could not delete link")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "link not found")
		return
	}
	d.pageCache.Invalidate(r.Context(), t.slug)

	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// ReorderLinks assigns new positions following the submitted ID order.
// The submitted list must cover the page's links exactly.
func (d *Dashboard) ReorderLinks(w http.ResponseWriter, r *http.Request) {
	t := targetPage(w, r, d.userStore, d.pageStore)
	if t == nil {
		return
	}

	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "ids are required")
		return
	}

	current, err := d.linkStore.ListForPage(t.slug)
	if err != nil {
		slog.Error("list links failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusInternalServerError, "could not reorder links")
		return
	}
	if len(req.IDs) != len(current) {
		respondError(w, http.StatusConflict, "link list is out of date, reload and try again")
		return
	}
	seen := make(map[uuid.UUID]bool, len(req.IDs))
	for _, id := range req.IDs {
		if seen[id] {
			respondError(w, http.StatusUnprocessableEntity, "duplicate link id")
			return
		}
		seen[id] = true
	}

	if err := d.linkStore.Reorder(t.slug, req.IDs); err != nil {
		slog.Error("reorder links failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusConflict, "link list is out of date, reload and try again")
		return
	}
	d.pageCache.Invalidate(r.Context(), t.slug)

	d.respondWithPage(w, r, t.slug)
}

// respondWithPage sends the full page state after a mutation so the
// client never needs a follow-up fetch.
func (d *Dashboard) respondWithPage(w http.ResponseWriter, r *http.Request, slug string) {
	page, err := d.pageStore.FindBySlug(slug)
	if err != nil || page == nil {
		slog.Error("reload page failed", "error", err, "slug", slug)
		respondError(w, http.StatusInternalServerError, "could not load page")
		return
	}
	links, err := d.linkStore.ListForPage(slug)
	if err != nil {
		slog.Error("reload links failed", "error", err, "slug", slug)
		respondError(w, http.StatusInternalServerError, "could not load links")
		return
	}
	respondJSON(w, http.StatusOK, &pageResponse{Page: page, Links: links, Themes: models.Themes, UpgradeURL: d.upgradeURL})
}

// normalizeIcon maps a submitted icon tag to the stored form: nil stays
// nil, anything else is lowercased and clamped to the known set.
func normalizeIcon(icon *string) *string {
	if icon == nil {
		return nil
	}
	tag := models.NormalizeIcon(*icon)
	return &tag
}

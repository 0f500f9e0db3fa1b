// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"linkbio/internal/cache"
	"linkbio/internal/render"
	"linkbio/internal/store"
)

// Public groups the visitor-facing handlers: the rendered page and the
// click-counting redirect. Page renders go through the Valkey cache.
type Public struct {
	pageStore *store.PageStore
	linkStore *store.LinkStore
	renderer  *render.Renderer
	pageCache *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(pageStore *store.PageStore, linkStore *store.LinkStore, renderer *render.Renderer, pageCache *cache.PageCache) *Public {
	return &Public{
		pageStore: pageStore,
		linkStore: linkStore,
		renderer:  renderer,
		pageCache: pageCache,
	}
}

// Page renders a public page by its slug.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	if cached, ok := p.pageCache.Get(ctx, slug); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(cached))
		return
	}

	page, err := p.pageStore.FindBySlug(slug)
	if err != nil {
		slog.Error("find page failed", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if page == nil {
		p.notFound(w)
		return
	}

	links, err := p.linkStore.ListForPage(slug)
	if err != nil {
		slog.Error("list links failed", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := p.renderer.PublicPage(page, links)
	if err != nil {
		slog.Error("render page failed", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, slug, html)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// ClickRedirect counts a click on a link and sends the visitor to its
// target. The counter bump and the URL read are one atomic statement, so
// simultaneous clicks all land.
func (p *Public) ClickRedirect(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	id, err := uuid.Parse(chi.URLParam(r, "linkID"))
	if err != nil {
		p.notFound(w)
		return
	}

	link, err := p.linkStore.IncrementClick(slug, id)
	if err != nil {
		slog.Error("increment click failed", "error", err, "slug", slug, "link", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if link == nil {
		p.notFound(w)
		return
	}

	http.Redirect(w, r, link.URL, http.StatusFound)
}

func (p *Public) notFound(w http.ResponseWriter) {
	html, err := p.renderer.NotFound()
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(html))
}

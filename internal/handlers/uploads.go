// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"linkbio/internal/cache"
	"linkbio/internal/imaging"
	"linkbio/internal/models"
	"linkbio/internal/storage"
	"linkbio/internal/store"
)

// maxUploadBytes caps the accepted multipart body. Images are downscaled
// after decoding anyway, this just bounds memory.
const maxUploadBytes = 10 << 20 // 10 MB

// Uploads groups the avatar and background media handlers. Requires S3
// storage; the router leaves these routes unmounted when storage is not
// configured.
type Uploads struct {
	userStore *store.UserStore
	pageStore *store.PageStore
	storage   *storage.Client
	pageCache *cache.PageCache
}

// NewUploads creates a new Uploads handler group.
func NewUploads(userStore *store.UserStore, pageStore *store.PageStore, storageClient *storage.Client, pageCache *cache.PageCache) *Uploads {
	return &Uploads{
		userStore: userStore,
		pageStore: pageStore,
		storage:   storageClient,
		pageCache: pageCache,
	}
}

// Avatar accepts a multipart image upload, normalises it to a 512px
// JPEG, stores it in S3, and sets it as the page avatar. A previous
// avatar object is deleted.
func (u *Uploads) Avatar(w http.ResponseWriter, r *http.Request) {
	u.upload(w, r, imaging.AvatarMaxWidth, storage.AvatarKey,
		func(p *store.PageStore, slug string, url *string) error { return p.SetAvatar(slug, url) },
		func(page pageMedia) *string { return page.avatar })
}

// Background accepts a multipart image upload, normalises it to a
// 1920px JPEG, stores it in S3, and sets it as the page background.
// Custom backgrounds are a pro feature; admin impersonation bypasses
// the gate like it does for pro themes.
func (u *Uploads) Background(w http.ResponseWriter, r *http.Request) {
	t := targetPage(w, r, u.userStore, u.pageStore)
	if t == nil {
		return
	}
	if !t.impersonating && t.plan != models.PlanPro {
		respondError(w, http.StatusForbidden, "Custom backgrounds require the Pro plan.")
		return
	}

	u.upload(w, r, imaging.BackgroundMaxWidth, storage.BackgroundKey,
		func(p *store.PageStore, slug string, url *string) error { return p.SetBackground(slug, url) },
		func(page pageMedia) *string { return page.background })
}

// RemoveBackground clears the page background so the theme shows again.
// The stored object is deleted from S3.
func (u *Uploads) RemoveBackground(w http.ResponseWriter, r *http.Request) {
	t := targetPage(w, r, u.userStore, u.pageStore)
	if t == nil {
		return
	}

	page, err := u.pageStore.FindBySlug(t.slug)
	if err != nil || page == nil {
		slog.Error("find page failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusInternalServerError, "could not load page")
		return
	}

	if page.BackgroundURL != nil {
		u.deleteObject(r, *page.BackgroundURL)
	}

	if err := u.pageStore.SetBackground(t.slug, nil); err != nil {
		slog.Error("clear background failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusInternalServerError, "could not remove background")
		return
	}
	u.pageCache.Invalidate(r.Context(), t.slug)

	w.WriteHeader(http.StatusNoContent)
}

// pageMedia carries the current media URLs of a page into the shared
// upload flow.
type pageMedia struct {
	avatar     *string
	background *string
}

func (u *Uploads) upload(w http.ResponseWriter, r *http.Request, maxWidth int, keyFor func(string) string, set func(*store.PageStore, string, *string) error, previous func(pageMedia) *string) {
	t := targetPage(w, r, u.userStore, u.pageStore)
	if t == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "file is too large (max 10 MB)")
			return
		}
		respondError(w, http.StatusBadRequest, "multipart form upload is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read file")
		return
	}

	processed, err := imaging.Process(raw, maxWidth)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "file is not a supported image")
		return
	}

	page, err := u.pageStore.FindBySlug(t.slug)
	if err != nil || page == nil {
		slog.Error("find page failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusInternalServerError, "could not load page")
		return
	}

	key := keyFor(page.UserID)
	err = u.storage.Upload(r.Context(), key, imaging.ContentType, bytes.NewReader(processed.Data), int64(len(processed.Data)))
	if err != nil {
		slog.Error("media upload failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusBadGateway, "could not store image")
		return
	}
	fileURL := u.storage.FileURL(key)

	// Replacement: the old object has no other references, drop it.
	if old := previous(pageMedia{avatar: page.AvatarURL, background: page.BackgroundURL}); old != nil {
		u.deleteObject(r, *old)
	}

	if err := set(u.pageStore, t.slug, &fileURL); err != nil {
		slog.Error("save media url failed", "error", err, "slug", t.slug)
		respondError(w, http.StatusInternalServerError, "could not save image")
		return
	}
	u.pageCache.Invalidate(r.Context(), t.slug)

	respondJSON(w, http.StatusOK, map[string]string{"url": fileURL})
}

// deleteObject removes a stored object by its public URL. Best effort:
// an orphaned object is logged, never surfaced to the user.
func (u *Uploads) deleteObject(r *http.Request, rawURL string) {
	key, ok := u.storage.ExtractS3Key(rawURL)
	if !ok {
		return
	}
	if err := u.storage.Delete(r.Context(), key); err != nil {
		slog.Warn("delete old media failed", "error", err, "key", key)
	}
}

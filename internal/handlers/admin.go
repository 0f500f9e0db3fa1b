// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"linkbio/internal/models"
	"linkbio/internal/store"
)

// Admin groups the plan management handlers. Page editing on behalf of a
// user reuses the Dashboard and Uploads handlers mounted under the admin
// route tree; only user lookup and plan changes live here.
type Admin struct {
	userStore *store.UserStore
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(userStore *store.UserStore) *Admin {
	return &Admin{userStore: userStore}
}

// FindUser looks up an account by email (?email=) or uid (?uid=).
func (a *Admin) FindUser(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	uid := strings.TrimSpace(r.URL.Query().Get("uid"))

	var (
		user *models.UserProfile
		err  error
	)
	switch {
	case email != "":
		user, err = a.userStore.FindByEmail(email)
	case uid != "":
		user, err = a.userStore.FindByUID(uid)
	default:
		respondError(w, http.StatusBadRequest, "email or uid query parameter is required")
		return
	}

	if err != nil {
		slog.Error("admin user lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not look up user")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

type planRequest struct {
	Plan models.Plan `json:"plan"`
}

// SetPlan changes a user's subscription plan. The user sees the new plan
// on their next profile fetch; no re-login is needed.
func (a *Admin) SetPlan(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	var req planRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Plan.Valid() {
		respondError(w, http.StatusUnprocessableEntity, "plan must be free or pro")
		return
	}

	user, err := a.userStore.FindByUID(uid)
	if err != nil {
		slog.Error("admin user lookup failed", "error", err, "uid", uid)
		respondError(w, http.StatusInternalServerError, "could not look up user")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := a.userStore.SetPlan(uid, req.Plan); err != nil {
		slog.Error("set plan failed", "error", err, "uid", uid)
		respondError(w, http.StatusInternalServerError, "could not change plan")
		return
	}
	slog.Info("plan changed", "uid", uid, "plan", req.Plan)

	user.Plan = req.Plan
	respondJSON(w, http.StatusOK, user)
}

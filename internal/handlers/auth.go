package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"linkbio/internal/identity"
	"linkbio/internal/middleware"
	"linkbio/internal/session"
	"linkbio/internal/store"
)

// Auth groups all authentication-related HTTP handlers. Credentials live
// at the external identity gateway; this service only exchanges a gateway
// token for a session, provisioning the account on first sign-in.
type Auth struct {
	verifier  identity.Verifier
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(verifier identity.Verifier, sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		verifier:  verifier,
		sessions:  sessions,
		userStore: userStore,
	}
}

type loginRequest struct {
	Token string `json:"token"`
}

// Login verifies an identity gateway token, ensures the account exists
// (creating the user, page, and starter link on first sign-in), and opens
// a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	ident, err := a.verifier.Verify(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		slog.Error("identity verify failed", "error", err)
		respondError(w, http.StatusBadGateway, "identity gateway unavailable")
		return
	}

	user, err := a.userStore.EnsureUser(ident.UID, ident.Email, ident.DisplayName, ident.AvatarURL)
	if err != nil {
		slog.Error("ensure user failed", "error", err, "uid", ident.UID)
		respondError(w, http.StatusInternalServerError, "could not sign in")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		Plan:        user.Plan,
		PageSlug:    user.PageSlug,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not sign in")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Me returns the authenticated user's profile, refreshed from the
// database so a plan change by an admin shows up without re-login.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.userStore.FindByUID(sess.UID)
	if err != nil {
		slog.Error("find user failed", "error", err, "uid", sess.UID)
		respondError(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	if user == nil {
		// Account deleted since login.
		a.sessions.Destroy(r.Context(), w, r)
		respondError(w, http.StatusUnauthorized, "account no longer exists")
		return
	}

	// Keep the session in step with plan or role changes.
	if user.Plan != sess.Plan || user.Role != sess.Role {
		sess.Plan = user.Plan
		sess.Role = user.Role
		if err := a.sessions.Update(r.Context(), r, sess); err != nil {
			slog.Warn("session refresh failed", "error", err, "uid", sess.UID)
		}
	}

	respondJSON(w, http.StatusOK, user)
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	w.WriteHeader(http.StatusNoContent)
}

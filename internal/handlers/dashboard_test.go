// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"linkbio/internal/models"
)

func decodePageResponse(t *testing.T, body []byte) *pageResponse {
	t.Helper()
	var pr pageResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		t.Fatalf("decode page response: %v", err)
	}
	return &pr
}

func TestDashboardGetPage(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "h-dash-get", "dashget@handler-test.local", "Dash Get")

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/page", nil), sessionFor(user))
	rr := httptest.NewRecorder()
	env.Dashboard.GetPage(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	pr := decodePageResponse(t, rr.Body.Bytes())
	if pr.Page.Slug != user.PageSlug {
		t.Errorf("slug: got %q", pr.Page.Slug)
	}
	if len(pr.Links) != 1 {
		t.Errorf("links: got %d, want starter link only", len(pr.Links))
	}
	if len(pr.Themes) != len(models.Themes) {
		t.Errorf("themes: got %d, want full catalog", len(pr.Themes))
	}
	if pr.UpgradeURL != testUpgradeURL {
		t.Errorf("upgrade url: got %q, want %q", pr.UpgradeURL, testUpgradeURL)
	}
}

func TestDashboardGetPageOwnerFallback(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "h-dash-fallback", "dashfallback@handler-test.local", "Dash Fallback")

	// A session carrying a stale slug still resolves the page through the
	// ownership column.
	sess := sessionFor(user)
	sess.PageSlug = "stale-slug-0000"

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/page", nil), sess)
	rr := httptest.NewRecorder()
	env.Dashboard.GetPage(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}
	pr := decodePageResponse(t, rr.Body.Bytes())
	if pr.Page.Slug != user.PageSlug {
		t.Errorf("slug: got %q, want %q", pr.Page.Slug, user.PageSlug)
	}
}

func TestDashboardUpdateProfileOwnerFallback(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "h-dash-wfallback", "dashwfallback@handler-test.local", "Dash Write Fallback")

	// Writes must land on the owned page even when the session slug is
	// stale, same as reads.
	sess := sessionFor(user)
	sess.PageSlug = "stale-slug-9999"

	body := strings.NewReader(`{"title":"Atualizado","bio":"b"}`)
	req := withSession(httptest.NewRequest(http.MethodPut, "/api/page/profile", body), sess)
	rr := httptest.NewRecorder()
	env.Dashboard.UpdateProfile(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}
	page, _ := env.PageStore.FindBySlug(user.PageSlug)
	if page.Title != "Atualizado" {
		t.Errorf("title: got %q", page.Title)
	}
}

func TestDashboardUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "h-dash-profile", "dashprofile@handler-test.local", "Dash Profile")

	body := strings.NewReader(`{"title":"Novo Título","bio":"Nova bio."}`)
	req := withSession(httptest.NewRequest(http.MethodPut, "/api/page/profile", body), sessionFor(user))
	rr := httptest.NewRecorder()
	env.Dashboard.UpdateProfile(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	page, _ := env.PageStore.FindBySlug(user.PageSlug)
	if page.Title != "Novo Título" || page.Bio != "Nova bio." {
		t.Errorf("persisted: %q %q", page.Title, page.Bio)
	}
}

func TestDashboardUpdateProfileValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "h-dash-badprofile", "badprofile@handler-test.local", "Bad Profile")

	body := strings.NewReader(`{"title":"","bio":"x"}`)
	req := withSession(httptest.NewRequest(http.MethodPut, "/api/page/profile", body), sessionFor(user))
	rr := httptest.NewRecorder()
	env.Dashboard.UpdateProfile(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", rr.Code)
	}
}

func TestDashboardUpdateTheme(t *testing.T) {
	env := newTestEnv(t)

	t.Run("free user selects free theme", func(t *testing.T) {
		user := env.signup(t, "h-theme-free", "themefree@handler-test.local", "Theme Free")

		body := strings.NewReader(`{"theme":"ocean"}`)
		req := withSession(httptest.NewRequest(http.MethodPut, "/api/page/theme", body), sessionFor(user))
		rr := httptest.NewRecorder()
		env.Dashboard.UpdateTheme(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
		}
		page, _ := env.PageStore.FindBySlug(user.PageSlug)
		if page.Theme != "ocean" {
			t.Errorf("theme: got %q", page.Theme)
		}
	})

	t.Run("free user denied pro theme", func(t *testing.T) {
		user := env.signup(t, "h-theme-gate", "themegate@handler-test.local", "Theme Gate")

		body := strings.NewReader(`{"theme":"neon"}`)
		req := withSession(httptest.NewRequest(http.MethodPut, "/api/page/theme", body), sessionFor(user))
		rr := httptest.NewRecorder()
		env.Dashboard.UpdateTheme(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", rr.Code)
		}
		page, _ := env.PageStore.FindBySlug(user.PageSlug)
		if page.Theme != models.DefaultTheme {
			t.Errorf("theme changed despite gate: %q", page.Theme)
		}
	})

	t.Run("pro user selects pro theme", func(t *testing.T) {
		user := env.signup(t, "h-theme-pro", "themepro@handler-test.local", "Theme Pro")
		env.UserStore.SetPlan(user.UID, models.PlanPro)
		sess := sessionFor(user)
		sess.Plan = models.PlanPro

		body := strings.NewReader(`{"theme":"gold"}`)
		req := withSession(httptest.NewRequest(http.MethodPut, "/api/page/theme", body), sess)
		rr := httptest.NewRecorder()
		env.Dashboard.UpdateTheme(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("unknown theme rejected", func(t *testing.T) {
		user := env.signup(t, "h-theme-unknown", "themeunknown@handler-test.local", "Theme Unknown")

		body := strings.NewReader(`{"theme":"vaporwave"}`)
		req := withSession(httptest.NewRequest(http.MethodPut, "/api/page/theme", body), sessionFor(user))
		rr := httptest.NewRecorder()
		env.Dashboard.UpdateTheme(rr, req)

		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("status: got %d, want 422", rr.Code)
		}
	})
}

func TestDashboardCreateLink(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "h-link-create", "linkcreate@handler-test.local", "Link Create")

	body := strings.NewReader(`{"title":"GitHub","url":"https://github.com/me","icon":"GitHub"}`)
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/page/links", body), sessionFor(user))
	rr := httptest.NewRecorder()
	env.Dashboard.CreateLink(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	var link models.Link
	json.Unmarshal(rr.Body.Bytes(), &link)
	if link.Position != 2 {
		t.Errorf("position: got %d, want 2 (after starter link)", link.Position)
	}
	if link.Icon == nil || *link.Icon != "github" {
		t.Errorf("icon not normalised: %v", link.Icon)
	}
}

func TestDashboardCreateLinkRejectsBadURL(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "h-link-badurl", "linkbadurl@handler-test.local", "Link Bad URL")

	for _, raw := range []string{"javascript:alert(1)", "ftp://files.example", "not a url", ""} {
		body := strings.NewReader(fmt.Sprintf(`{"title":"X","url":%q}`, raw))
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/page/links", body), sessionFor(user))
		rr := httptest.NewRecorder()
		env.Dashboard.CreateLink(rr, req)

		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("%q: status got %d, want 422", raw, rr.Code)
		}
	}
}

func TestDashboardUpdateAndDeleteLink(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "h-link-edit", "linkedit@handler-test.local", "Link Edit")

	links, _ := env.LinkStore.ListForPage(user.PageSlug)
	starter := links[0]

	body := strings.NewReader(`{"title":"Editado","url":"https://editado.example"}`)
	req := withSession(httptest.NewRequest(http.MethodPut, "/api/page/links/"+starter.ID.String(), body), sessionFor(user))
	req = withChiURLParam(req, "linkID", starter.ID.String())
	rr := httptest.NewRecorder()
	env.Dashboard.UpdateLink(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("update status: got %d, body %s", rr.Code, rr.Body.String())
	}

	req = withSession(httptest.NewRequest(http.MethodDelete, "/api/page/links/"+starter.ID.String(), nil), sessionFor(user))
	req = withChiURLParam(req, "linkID", starter.ID.String())
	rr = httptest.NewRecorder()
	env.Dashboard.DeleteLink(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status: got %d", rr.Code)
	}

	remaining, _ := env.LinkStore.ListForPage(user.PageSlug)
	if len(remaining) != 0 {
		t.Errorf("links remaining: %d", len(remaining))
	}
}

func TestDashboardLinkNotFound(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "h-link-404", "link404@handler-test.local", "Link 404")

	missing := uuid.NewString()
	body := strings.NewReader(`{"title":"X","url":"https://x.example"}`)
	req := withSession(httptest.NewRequest(http.MethodPut, "/api/page/links/"+missing, body), sessionFor(user))
	req = withChiURLParam(req, "linkID", missing)
	rr := httptest.NewRecorder()
	env.Dashboard.UpdateLink(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestDashboardReorderLinks(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "h-link-reorder", "linkreorder@handler-test.local", "Link Reorder")

	first, _ := env.LinkStore.ListForPage(user.PageSlug)
	second, _ := env.LinkStore.Append(user.PageSlug, "Dois", "https://dois.example", models.LinkTypeWebsite, nil)

	body := strings.NewReader(fmt.Sprintf(`{"ids":[%q,%q]}`, second.ID, first[0].ID))
	req := withSession(httptest.NewRequest(http.MethodPut, "/api/page/links/reorder", body), sessionFor(user))
	rr := httptest.NewRecorder()
	env.Dashboard.ReorderLinks(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	got, _ := env.LinkStore.ListForPage(user.PageSlug)
	if got[0].ID != second.ID {
		t.Errorf("first link after reorder: got %s, want %s", got[0].ID, second.ID)
	}
}

func TestDashboardReorderStaleList(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "h-link-stale", "linkstale@handler-test.local", "Link Stale")

	links, _ := env.LinkStore.ListForPage(user.PageSlug)
	env.LinkStore.Append(user.PageSlug, "Dois", "https://dois.example", models.LinkTypeWebsite, nil)

	// Client only knows about one of the two links.
	body := strings.NewReader(fmt.Sprintf(`{"ids":[%q]}`, links[0].ID))
	req := withSession(httptest.NewRequest(http.MethodPut, "/api/page/links/reorder", body), sessionFor(user))
	rr := httptest.NewRecorder()
	env.Dashboard.ReorderLinks(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rr.Code)
	}
}

func TestDashboardMutationInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "h-cache-inval", "cacheinval@handler-test.local", "Cache Inval")

	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	env.PageCache.Set(ctx, user.PageSlug, "<html>stale</html>")

	body := strings.NewReader(`{"title":"Fresco","bio":"b"}`)
	req := withSession(httptest.NewRequest(http.MethodPut, "/api/page/profile", body), sessionFor(user))
	rr := httptest.NewRecorder()
	env.Dashboard.UpdateProfile(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if _, ok := env.PageCache.Get(ctx, user.PageSlug); ok {
		t.Error("cache should be invalidated after profile change")
	}
}

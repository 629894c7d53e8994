package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
)

func pageContext(t *testing.T, target string, roles ...domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session", &domain.Session{
		UserID:   "u1",
		Username: "alice",
		Roles:    domain.RoleSet(roles),
	})
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestPagesHandler_Dashboard_AdminSurface(t *testing.T) {
	h := NewPagesHandler()

	c, rec := pageContext(t, "/dashboard?tab=users", domain.RoleAdmin)
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	body := decodeBody(t, rec)
	if body["surface"] != "admin" {
		t.Fatalf("admin must get the admin surface, got %v", body["surface"])
	}
	if body["tab"] != "users" {
		t.Fatalf("expected tab users, got %v", body["tab"])
	}
}

func TestPagesHandler_Dashboard_AdminDefaultTab(t *testing.T) {
	h := NewPagesHandler()

	c, rec := pageContext(t, "/dashboard", domain.RoleAdmin)
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if body := decodeBody(t, rec); body["tab"] != "home" {
		t.Fatalf("expected default tab home, got %v", body["tab"])
	}
}

func TestPagesHandler_Dashboard_HomeSurface(t *testing.T) {
	h := NewPagesHandler()

	for _, roles := range [][]domain.Role{
		{domain.RoleSubmitter},
		{domain.RoleReviewer},
		{domain.RoleSubmitter, domain.RoleReviewer},
	} {
		c, rec := pageContext(t, "/dashboard", roles...)
		if err := h.Dashboard(c); err != nil {
			t.Fatalf("Dashboard returned error: %v", err)
		}
		body := decodeBody(t, rec)
		if body["surface"] != "home" {
			t.Fatalf("roles %v: expected home surface, got %v", roles, body["surface"])
		}
		if body["username"] != "alice" {
			t.Fatalf("roles %v: expected username in home view, got %v", roles, body)
		}
	}
}

func TestPagesHandler_History_DefaultTabs(t *testing.T) {
	h := NewPagesHandler()

	cases := []struct {
		name  string
		roles []domain.Role
		tab   string
	}{
		{"submitter", []domain.Role{domain.RoleSubmitter}, "projects"},
		{"reviewer only", []domain.Role{domain.RoleReviewer}, "feedback"},
		{"both", []domain.Role{domain.RoleSubmitter, domain.RoleReviewer}, "projects"},
		{"admin", []domain.Role{domain.RoleAdmin}, "projects"},
	}
	for _, tc := range cases {
		c, rec := pageContext(t, "/history", tc.roles...)
		if err := h.History(c); err != nil {
			t.Fatalf("%s: History returned error: %v", tc.name, err)
		}
		if body := decodeBody(t, rec); body["tab"] != tc.tab {
			t.Fatalf("%s: expected default tab %q, got %v", tc.name, tc.tab, body["tab"])
		}
	}
}

func TestPagesHandler_History_ExplicitTabWins(t *testing.T) {
	h := NewPagesHandler()

	c, rec := pageContext(t, "/history?tab=projects", domain.RoleReviewer)
	if err := h.History(c); err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if body := decodeBody(t, rec); body["tab"] != "projects" {
		t.Fatalf("explicit tab must win, got %v", body["tab"])
	}
}

func TestPagesHandler_Submit_ReviewerOnlyStillServed(t *testing.T) {
	h := NewPagesHandler()

	c, rec := pageContext(t, "/submit", domain.RoleReviewer)
	if err := h.Submit(c); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("submit page must be served to any authenticated user, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["nav_exposed"] != false {
		t.Fatalf("reviewer-only session must not see submit in the nav, got %v", body["nav_exposed"])
	}
}

func TestPagesHandler_Nav_ActiveEntry(t *testing.T) {
	h := NewPagesHandler()

	c, rec := pageContext(t, "/nav?path=/dashboard&tab=users", domain.RoleAdmin)
	if err := h.Nav(c); err != nil {
		t.Fatalf("Nav returned error: %v", err)
	}

	var body struct {
		Entries []struct {
			Label  string `json:"label"`
			Active bool   `json:"active"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding nav body: %v", err)
	}
	var active []string
	for _, e := range body.Entries {
		if e.Active {
			active = append(active, e.Label)
		}
	}
	if len(active) != 1 || active[0] != "Users" {
		t.Fatalf("expected exactly Users active, got %v", active)
	}
}

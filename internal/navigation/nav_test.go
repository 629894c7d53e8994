package navigation

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
	"github.com/swarmhq/feedback-gateway/internal/core/rbac"
)

func labels(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Label
	}
	return out
}

func TestVisible_PerRoleSet(t *testing.T) {
	tests := []struct {
		name  string
		roles domain.RoleSet
		want  []string
	}{
		{
			name:  "no roles sees only role-independent entries",
			roles: nil,
			want:  []string{"Home", "History", "Profile", "Help"},
		},
		{
			name:  "submitter",
			roles: domain.RoleSet{domain.RoleSubmitter},
			want:  []string{"Home", "Submit Project", "History", "Profile", "Help"},
		},
		{
			name:  "reviewer-only relabels history",
			roles: domain.RoleSet{domain.RoleReviewer},
			want:  []string{"Home", "My Reviews", "Profile", "Help"},
		},
		{
			name:  "admin sees everything once",
			roles: domain.RoleSet{domain.RoleAdmin},
			want: []string{
				"Home", "Submit Project", "History",
				"Moderate Projects", "Moderate Feedback", "Users",
				"Profile", "Help",
			},
		},
		{
			name:  "submitter plus reviewer keeps history label",
			roles: domain.RoleSet{domain.RoleSubmitter, domain.RoleReviewer},
			want:  []string{"Home", "Submit Project", "History", "Profile", "Help"},
		},
		{
			name:  "reviewer plus admin is not reviewer-only",
			roles: domain.RoleSet{domain.RoleReviewer, domain.RoleAdmin},
			want: []string{
				"Home", "Submit Project", "History",
				"Moderate Projects", "Moderate Feedback", "Users",
				"Profile", "Help",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labels(Visible(rbac.Resolve(tt.roles)))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Visible() labels = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisible_Deterministic(t *testing.T) {
	caps := rbac.Resolve(domain.RoleSet{domain.RoleAdmin, domain.RoleSubmitter})
	first := Visible(caps)
	for i := 0; i < 10; i++ {
		if !reflect.DeepEqual(Visible(caps), first) {
			t.Fatalf("Visible() is not deterministic across calls")
		}
	}
}

func TestEntry_Active(t *testing.T) {
	home := Entry{Path: "/dashboard", Tab: DefaultTab}
	users := Entry{Path: "/dashboard", Tab: "users"}
	profile := Entry{Path: "/profile"}

	tests := []struct {
		name  string
		entry Entry
		path  string
		query string
		want  bool
	}{
		{"home matches bare dashboard", home, "/dashboard", "", true},
		{"home matches explicit home tab", home, "/dashboard", "tab=home", true},
		{"home does not match users tab", home, "/dashboard", "tab=users", false},
		{"users tab matches", users, "/dashboard", "tab=users", true},
		{"users tab needs the query", users, "/dashboard", "", false},
		{"path mismatch", users, "/profile", "tab=users", false},
		{"tabless entry ignores tab", profile, "/profile", "tab=anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			if got := tt.entry.Active(tt.path, q); got != tt.want {
				t.Errorf("Active(%q, %q) = %v, want %v", tt.path, tt.query, got, tt.want)
			}
		})
	}
}

func TestActiveEntry_AdminUsersTab(t *testing.T) {
	caps := rbac.Resolve(domain.RoleSet{domain.RoleAdmin})
	q := url.Values{"tab": []string{"users"}}

	e := ActiveEntry(caps, "/dashboard", q)
	if e == nil || e.Label != "Users" {
		t.Fatalf("expected Users entry active, got %+v", e)
	}
}

func TestActiveEntry_NoMatch(t *testing.T) {
	caps := rbac.Resolve(domain.RoleSet{domain.RoleSubmitter})
	if e := ActiveEntry(caps, "/nowhere", url.Values{}); e != nil {
		t.Fatalf("expected no active entry, got %+v", e)
	}
}

func TestEntry_URL(t *testing.T) {
	if got := (Entry{Path: "/dashboard", Tab: DefaultTab}).URL(); got != "/dashboard" {
		t.Errorf("home URL = %q", got)
	}
	if got := (Entry{Path: "/dashboard", Tab: "users"}).URL(); got != "/dashboard?tab=users" {
		t.Errorf("users URL = %q", got)
	}
	if got := (Entry{Path: "/profile"}).URL(); got != "/profile" {
		t.Errorf("profile URL = %q", got)
	}
}

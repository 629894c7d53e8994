// Package navigation computes the role-aware navigation menu: which entries
// a session sees, in what order, and which one is active for the current
// location. The visible list is a pure function of the role set, so two
// sessions with identical roles always see an identical, order-stable menu.
package navigation

import (
	"net/url"

	"github.com/swarmhq/feedback-gateway/internal/core/rbac"
)

// DefaultTab is assumed when a location carries no tab query parameter.
const DefaultTab = "home"

// Entry is one navigation item: a target path, an optional tab discriminator
// on that path, a label, and an icon reference.
type Entry struct {
	Path  string `json:"path"`
	Tab   string `json:"tab,omitempty"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// URL renders the entry's target including its tab discriminator.
func (e Entry) URL() string {
	if e.Tab == "" || e.Tab == DefaultTab {
		return e.Path
	}
	return e.Path + "?tab=" + url.QueryEscape(e.Tab)
}

// Active reports whether the entry matches the current location. The path
// must match exactly; when the entry names a tab, the location's tab query
// parameter (defaulting to "home") must match it too.
func (e Entry) Active(path string, query url.Values) bool {
	if e.Path != path {
		return false
	}
	if e.Tab == "" {
		return true
	}
	tab := query.Get("tab")
	if tab == "" {
		tab = DefaultTab
	}
	return tab == e.Tab
}

// candidate pairs a master-list entry with its visibility predicate. Entries
// with a nil predicate are role-independent and always shown.
type candidate struct {
	entry   Entry
	visible func(rbac.Capabilities) bool
}

// master is the fixed, ordered list of all candidate entries. Visibility
// filtering preserves this order; nothing re-sorts at runtime.
var master = []candidate{
	{
		entry: Entry{Path: "/dashboard", Tab: DefaultTab, Label: "Home", Icon: "home"},
	},
	{
		entry:   Entry{Path: "/submit", Label: "Submit Project", Icon: "plus-circle"},
		visible: rbac.Capabilities.CanSubmit,
	},
	{
		entry: Entry{Path: "/history", Label: "History", Icon: "history"},
	},
	{
		entry:   Entry{Path: "/dashboard", Tab: "projects", Label: "Moderate Projects", Icon: "shield"},
		visible: func(c rbac.Capabilities) bool { return c.IsAdmin },
	},
	{
		entry:   Entry{Path: "/dashboard", Tab: "feedback", Label: "Moderate Feedback", Icon: "message-square"},
		visible: func(c rbac.Capabilities) bool { return c.IsAdmin },
	},
	{
		entry:   Entry{Path: "/dashboard", Tab: "users", Label: "Users", Icon: "users"},
		visible: func(c rbac.Capabilities) bool { return c.IsAdmin },
	},
	{
		entry: Entry{Path: "/profile", Label: "Profile", Icon: "user"},
	},
	{
		entry: Entry{Path: "/contact-help", Label: "Help", Icon: "life-buoy"},
	},
}

// Visible returns the ordered entries a user with the given capabilities
// sees. An empty or unrecognized role set still yields the role-independent
// entries; the menu is never empty.
func Visible(caps rbac.Capabilities) []Entry {
	out := make([]Entry, 0, len(master))
	for _, c := range master {
		if c.visible != nil && !c.visible(caps) {
			continue
		}
		e := c.entry
		// Reviewer-only sessions browse their given reviews, not projects.
		if e.Path == "/history" && caps.ReviewerOnly() {
			e.Label = "My Reviews"
		}
		out = append(out, e)
	}
	return out
}

// ActiveEntry returns the first visible entry matching the location, or nil
// when none matches.
func ActiveEntry(caps rbac.Capabilities, path string, query url.Values) *Entry {
	for _, e := range Visible(caps) {
		if e.Active(path, query) {
			return &e
		}
	}
	return nil
}

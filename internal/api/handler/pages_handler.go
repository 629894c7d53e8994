package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swarmhq/feedback-gateway/internal/api/middleware"
	"github.com/swarmhq/feedback-gateway/internal/core/rbac"
	"github.com/swarmhq/feedback-gateway/internal/navigation"
)

// PagesHandler serves the view-models for the gateway's pages: which surface
// mounts where, with what defaults, for the current session.
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// navEntry is a navigation entry plus its active flag for the requested
// location.
type navEntry struct {
	navigation.Entry
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Nav returns the ordered navigation list for the session and marks the
// active entry for the location given in the path/tab query parameters.
func (h *PagesHandler) Nav(c echo.Context) error {
	s := middleware.SessionFromContext(c)
	caps := rbac.Resolve(s.Roles)

	path := c.QueryParam("path")
	if path == "" {
		path = "/dashboard"
	}
	query := c.QueryParams()

	entries := navigation.Visible(caps)
	out := make([]navEntry, len(entries))
	for i, e := range entries {
		out[i] = navEntry{Entry: e, URL: e.URL(), Active: e.Active(path, query)}
	}
	return c.JSON(http.StatusOK, map[string]any{"entries": out})
}

// Dashboard is the one place role resolution decides which component tree
// mounts: administrators get the moderation surface, everyone else the
// standard home.
func (h *PagesHandler) Dashboard(c echo.Context) error {
	s := middleware.SessionFromContext(c)
	caps := rbac.Resolve(s.Roles)

	if caps.IsAdmin {
		tab := c.QueryParam("tab")
		if tab == "" {
			tab = navigation.DefaultTab
		}
		return c.JSON(http.StatusOK, map[string]any{
			"surface": "admin",
			"tab":     tab,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"surface":          "home",
		"username":         s.Username,
		"total_points":     s.TotalPoints,
		"submission_count": s.SubmissionCount,
	})
}

// Submit returns the submission form view-model. The route itself is open to
// any authenticated user; whether the UI offers it is the navigation
// model's call.
func (h *PagesHandler) Submit(c echo.Context) error {
	s := middleware.SessionFromContext(c)
	caps := rbac.Resolve(s.Roles)
	return c.JSON(http.StatusOK, map[string]any{
		"page":        "submit",
		"can_submit":  caps.CanSubmit(),
		"nav_exposed": caps.CanSubmit(),
	})
}

// History returns the history view-model. Reviewer-only sessions default to
// their given reviews rather than their own projects.
func (h *PagesHandler) History(c echo.Context) error {
	s := middleware.SessionFromContext(c)
	caps := rbac.Resolve(s.Roles)

	tab := c.QueryParam("tab")
	if tab == "" {
		if caps.ReviewerOnly() {
			tab = "feedback"
		} else {
			tab = "projects"
		}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"page":          "history",
		"tab":           tab,
		"show_projects": caps.CanSubmit(),
		"show_feedback": caps.CanReview(),
	})
}

// Profile returns the profile view-model.
func (h *PagesHandler) Profile(c echo.Context) error {
	s := middleware.SessionFromContext(c)
	return c.JSON(http.StatusOK, map[string]any{
		"page": "profile",
		"user": toUserResponse(s),
	})
}

// ContactHelp returns the help view-model.
func (h *PagesHandler) ContactHelp(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"page":  "contact-help",
		"email": "support@swarm.example",
	})
}

// Activity records an explicit interaction signal from the UI (pointer
// movement, key press, click, scroll are batched client-side into pings).
// The touch itself happens in the Activity middleware; this endpoint only
// exists so an otherwise idle page can keep the countdown honest.
func (h *PagesHandler) Activity(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

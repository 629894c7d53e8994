package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
)

// sessionKey is the echo context key the guard stores the session under.
const sessionKey = "session"

// SessionSource is the slice of the session service the guard reads.
type SessionSource interface {
	Current() *domain.Session
}

// Guard gates protected routes. Without a session the request is redirected
// to the login route, carrying the originally requested location for an
// optional post-login redirect. With a session, a snapshot is stored on the
// context for downstream handlers. Guard evaluation never panics; no session
// is simply the deny case.
func Guard(sessions SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := sessions.Current()
			if s == nil {
				from := c.Request().URL.RequestURI()
				return c.Redirect(http.StatusSeeOther, "/login?from="+url.QueryEscape(from))
			}
			c.Set(sessionKey, s)
			return next(c)
		}
	}
}

// AllowRoles restricts an already-guarded route to sessions whose role set
// intersects the allow-list. Failing the check renders an access-denied
// response in place; unlike the unauthenticated case there is no redirect.
func AllowRoles(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, _ := c.Get(sessionKey).(*domain.Session)
			if s == nil {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
			}
			for _, r := range allowed {
				if s.Roles.Has(r) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
		}
	}
}

// SessionFromContext returns the session the guard stored, or nil on an
// unguarded route.
func SessionFromContext(c echo.Context) *domain.Session {
	s, _ := c.Get(sessionKey).(*domain.Session)
	return s
}

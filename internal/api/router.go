package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/swarmhq/feedback-gateway/internal/api/handler"
	"github.com/swarmhq/feedback-gateway/internal/api/middleware"
	"github.com/swarmhq/feedback-gateway/internal/core/domain"
	"github.com/swarmhq/feedback-gateway/internal/core/ports"
)

// NewRouter builds the Echo instance with all routes registered. toucher may
// be nil when the inactivity logout is disabled.
func NewRouter(sessions ports.SessionService, toucher middleware.Toucher, feed *handler.AlertFeed, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("feedback_gateway"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(sessions)
	pagesHandler := handler.NewPagesHandler()
	alertsHandler := handler.NewAlertsHandler(feed)
	healthHandler := handler.NewHealthHandler()

	// --- Public routes ---
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout) // idempotent, no guard needed
	e.POST("/register", authHandler.Register)
	e.POST("/forgot-password", authHandler.ForgotPassword)
	e.POST("/reset-password", authHandler.ResetPassword)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Protected routes ---
	guarded := e.Group("", middleware.Guard(sessions), middleware.Activity(toucher))

	guarded.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	})
	guarded.GET("/dashboard", pagesHandler.Dashboard)
	guarded.GET("/submit", pagesHandler.Submit)
	guarded.GET("/history", pagesHandler.History)
	guarded.GET("/profile", pagesHandler.Profile)
	guarded.GET("/contact-help", pagesHandler.ContactHelp)
	guarded.GET("/nav", pagesHandler.Nav)
	guarded.GET("/alerts", alertsHandler.List)
	guarded.POST("/refresh", authHandler.Refresh)
	guarded.POST("/activity", pagesHandler.Activity)

	// Moderation actions are admin-only even though the dashboard route
	// itself is merely branched.
	guarded.GET("/dashboard/moderation", pagesHandler.Dashboard,
		middleware.AllowRoles(domain.RoleAdmin))

	// Unmatched paths land on the dashboard root, or login when logged out.
	e.RouteNotFound("/*", func(c echo.Context) error {
		if sessions.Current() != nil {
			return c.Redirect(http.StatusSeeOther, "/dashboard")
		}
		return c.Redirect(http.StatusSeeOther, "/login")
	})

	return e
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swarmhq/feedback-gateway/internal/api/metrics"
	"github.com/swarmhq/feedback-gateway/internal/core/domain"
	"github.com/swarmhq/feedback-gateway/internal/core/ports"
)

// AuthHandler exposes the session lifecycle to the UI.
type AuthHandler struct {
	sessions ports.SessionService
}

func NewAuthHandler(sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string   `json:"username" validate:"required,min=3"`
	Email    string   `json:"email"    validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Roles    []string `json:"roles"    validate:"omitempty,dive,oneof=ROLE_SUBMITTER ROLE_REVIEWER"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"       validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// userResponse is the session as shown to the UI. The bearer token stays
// inside the gateway.
type userResponse struct {
	UserID          string         `json:"user_id"`
	Username        string         `json:"username"`
	Email           string         `json:"email,omitempty"`
	Roles           domain.RoleSet `json:"roles"`
	DisplayName     string         `json:"display_name,omitempty"`
	AvatarURL       string         `json:"avatar_url,omitempty"`
	TotalPoints     int            `json:"total_points"`
	SubmissionCount int            `json:"submission_count"`
}

func toUserResponse(s *domain.Session) userResponse {
	return userResponse{
		UserID:          s.UserID,
		Username:        s.Username,
		Email:           s.Email,
		Roles:           s.Roles,
		DisplayName:     s.DisplayName,
		AvatarURL:       s.AvatarURL,
		TotalPoints:     s.TotalPoints,
		SubmissionCount: s.SubmissionCount,
	}
}

// LoginPage returns the login view-model, echoing the post-login redirect
// target the guard preserved.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"page": "login",
		"from": c.QueryParam("from"),
	})
}

// Login authenticates and installs a session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.sessions.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toUserResponse(sess))
}

// Logout destroys the session. Safe to call when already logged out.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Register creates an account. No session is established; the UI follows up
// with an explicit login.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	roles := make(domain.RoleSet, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, domain.Role(r))
	}
	if len(roles) == 0 {
		roles = domain.RoleSet{domain.RoleSubmitter}
	}

	if err := h.sessions.Register(c.Request().Context(), req.Username, req.Email, req.Password, roles); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// Refresh re-fetches the canonical profile for the active session.
func (h *AuthHandler) Refresh(c echo.Context) error {
	sess, err := h.sessions.Refresh(c.Request().Context())
	if err != nil {
		switch err {
		case domain.ErrSessionExpired:
			metrics.RefreshesTotal.WithLabelValues("expired").Inc()
		default:
			metrics.RefreshesTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	if sess == nil {
		// Session ended while the refresh was in flight; nothing to show.
		metrics.RefreshesTotal.WithLabelValues("discarded").Inc()
		return c.NoContent(http.StatusNoContent)
	}
	metrics.RefreshesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toUserResponse(sess))
}

// ForgotPassword requests a reset mail.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.sessions.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

// ResetPassword redeems a reset token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.sessions.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

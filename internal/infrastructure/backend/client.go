// Package backend is the outbound HTTP client for the feedback platform's
// REST API. It is the single request path for the session core: bearer
// injection, the error envelope, and payload mapping all live here.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Client talks to the feedback backend. It implements ports.Backend.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

// NewClient creates a backend client rooted at baseURL (e.g.
// "http://localhost:8082/api"). A non-positive timeout falls back to
// defaultTimeout.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

// userPayload is the backend's user representation (Java-style field names).
type userPayload struct {
	ID              string         `json:"id"`
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	Roles           domain.RoleSet `json:"roles"`
	DisplayName     string         `json:"displayName"`
	AvatarURL       string         `json:"avatarUrl"`
	TotalPoints     int            `json:"totalPoints"`
	SubmissionCount int            `json:"submissionCount"`
}

func (u userPayload) toProfile() *domain.Profile {
	return &domain.Profile{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Roles:           u.Roles.Normalize(),
		DisplayName:     u.DisplayName,
		AvatarURL:       u.AvatarURL,
		TotalPoints:     u.TotalPoints,
		SubmissionCount: u.SubmissionCount,
	}
}

type loginResponse struct {
	userPayload
	Token string `json:"token"`
}

// Login exchanges credentials for a profile plus bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.Profile, string, error) {
	body := map[string]string{"username": username, "password": password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return nil, "", err
	}
	return resp.toProfile(), resp.Token, nil
}

// Register creates an account. The backend answers with validation or
// conflict errors; no token is issued.
func (c *Client) Register(ctx context.Context, username, email, password string, roles domain.RoleSet) error {
	body := map[string]any{
		"username": username,
		"email":    email,
		"password": password,
		"roles":    roles,
	}
	return c.do(ctx, http.MethodPost, "/auth/register", "", body, nil)
}

// FetchProfile retrieves the canonical user snapshot for the given token.
func (c *Client) FetchProfile(ctx context.Context, token string) (*domain.Profile, error) {
	var resp userPayload
	if err := c.do(ctx, http.MethodGet, "/users/me", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.toProfile(), nil
}

// ForgotPassword requests a password-reset mail.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": email}, nil)
}

// ResetPassword redeems a reset token for a new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", "", body, nil)
}

// errorEnvelope covers both error body shapes the backend emits.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs one request. The bearer header is attached only when a token is
// provided; login, register, and the password flows are public endpoints.
// Transport failures come back wrapped in domain.ErrUnavailable; 4xx/5xx
// responses come back as *domain.APIError with the server message when one
// was sent.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("backend request")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		var env errorEnvelope
		_ = json.Unmarshal(data, &env)
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return &domain.APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
		}
	}
	return nil
}

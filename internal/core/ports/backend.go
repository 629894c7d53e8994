package ports

import (
	"context"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
)

// Backend is the outbound client for the feedback platform's REST API. The
// API itself is an external collaborator; this port only names the endpoints
// the session core relies on.
type Backend interface {
	// Login exchanges credentials for a user snapshot plus bearer token.
	Login(ctx context.Context, username, password string) (*domain.Profile, string, error)
	// Register creates an account. It does not establish a session; an
	// explicit follow-up login is required.
	Register(ctx context.Context, username, email, password string, roles domain.RoleSet) error
	// FetchProfile retrieves the canonical user snapshot (GET /users/me)
	// using the given bearer token.
	FetchProfile(ctx context.Context, token string) (*domain.Profile, error)
	// ForgotPassword requests a password-reset mail for the given address.
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword redeems a reset token for a new password.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

package ports

import (
	"context"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
)

// SessionService is the single authority for "who is logged in".
type SessionService interface {
	// Current returns a copy of the active session, or nil when logged out.
	Current() *domain.Session
	// Hydrate restores a persisted session at startup. Absent or corrupt
	// storage yields a logged-out state, never an error.
	Hydrate(ctx context.Context)
	// Login authenticates and installs a new session. On failure any prior
	// session is left untouched.
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	// Logout destroys the session unconditionally. Idempotent.
	Logout(ctx context.Context)
	// Register delegates account creation to the backend without
	// establishing a session.
	Register(ctx context.Context, username, email, password string, roles domain.RoleSet) error
	// Refresh re-fetches the canonical profile, preserving the token. A
	// rejected token destroys the session and returns ErrSessionExpired; a
	// transient failure leaves state untouched.
	Refresh(ctx context.Context) (*domain.Session, error)
	// ForgotPassword and ResetPassword pass through to the backend with no
	// session impact.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	// Watch registers a callback invoked with a snapshot copy after every
	// session change (login, logout, refresh, hydrate). Used to bind the
	// push channel and inactivity monitor to the session lifetime.
	Watch(fn func(*domain.Session))
}

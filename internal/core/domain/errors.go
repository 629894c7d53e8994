package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers bad username/password pairs on login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionExpired means the bearer token was rejected or the account
	// vanished; the session must be destroyed and the user sent to login.
	ErrSessionExpired = errors.New("session expired")
	// ErrNotAuthenticated is returned by operations that require a session
	// when none exists.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrUserExists covers duplicate identity on registration.
	ErrUserExists = errors.New("user already exists")
	// ErrValidation covers malformed registration or profile input.
	ErrValidation = errors.New("validation failed")
	// ErrUnavailable covers transient connectivity failures talking to the
	// backend; prior session state is always left intact.
	ErrUnavailable = errors.New("backend unavailable")
)

// APIError is a typed failure surfaced by the backend client for 4xx/5xx
// responses: the HTTP status plus the server-provided message when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

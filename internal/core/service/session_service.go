package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
	"github.com/swarmhq/feedback-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// SessionService is the single authority for the authenticated identity. All
// consumers read through Current; nothing outside this type mutates the
// session.
//
// A generation counter serializes overlapping operations: every mutation
// bumps it, and an in-flight Refresh discards its result when the generation
// moved underneath it. Logout therefore always dominates a racing refresh.
type SessionService struct {
	repo    ports.SessionRepository
	backend ports.Backend
	log     zerolog.Logger

	mu       sync.Mutex
	cur      *domain.Session
	gen      uint64
	watchers []func(*domain.Session)
}

// NewSessionService returns a SessionService with no active session.
func NewSessionService(repo ports.SessionRepository, backend ports.Backend, log zerolog.Logger) *SessionService {
	return &SessionService{repo: repo, backend: backend, log: log}
}

// Current returns a copy of the active session, or nil when logged out.
func (s *SessionService) Current() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.Clone()
}

// Watch registers a callback invoked with a snapshot copy after every session
// change. Callbacks run outside the service lock.
func (s *SessionService) Watch(fn func(*domain.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// Hydrate restores a persisted session at startup. Absent or unparseable
// storage, and a stored token that already expired, all yield a logged-out
// state without surfacing an error to the user.
func (s *SessionService) Hydrate(ctx context.Context) {
	sess, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session storage unreadable, starting logged out")
		return
	}
	if sess == nil {
		return
	}
	if tokenExpired(sess.Token, time.Now()) {
		s.log.Info().Str("username", sess.Username).Msg("persisted token expired, discarding session")
		if err := s.repo.Clear(ctx); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear expired session")
		}
		return
	}
	sess.Roles = sess.Roles.Normalize()

	s.mu.Lock()
	s.cur = sess
	s.gen++
	s.mu.Unlock()

	s.log.Info().Str("username", sess.Username).Msg("session rehydrated from storage")
	s.notify()
}

// Login authenticates against the backend and installs a new session. On any
// failure the prior session, if one exists, is left untouched.
func (s *SessionService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	profile, token, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return nil, mapLoginError(err)
	}

	sess := domain.NewSession(profile, token)

	s.mu.Lock()
	s.cur = sess
	s.gen++
	s.mu.Unlock()

	if err := s.repo.Save(ctx, sess); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session")
	}

	s.log.Info().Str("username", sess.Username).Msg("login succeeded")
	s.notify()
	return sess.Clone(), nil
}

// Logout destroys the in-memory and persisted session unconditionally. Safe
// to call with no active session.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	had := s.cur != nil
	s.cur = nil
	s.gen++
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
	}
	if had {
		s.log.Info().Msg("session destroyed")
		s.notify()
	}
}

// Register delegates account creation to the backend. No session is
// established; the caller must follow up with an explicit Login.
func (s *SessionService) Register(ctx context.Context, username, email, password string, roles domain.RoleSet) error {
	if err := s.backend.Register(ctx, username, email, password, roles.Normalize()); err != nil {
		return mapRegisterError(err)
	}
	s.log.Info().Str("username", username).Msg("registration accepted")
	return nil
}

// Refresh re-fetches the canonical profile using the existing token and
// merges it into the session, preserving the token.
//
// A 401/404 from the backend (or a locally expired token) destroys the
// session and returns ErrSessionExpired. A transient failure leaves the
// session unchanged and surfaces the error. When the session ended while the
// fetch was in flight, the stale result is discarded and (nil, nil) is
// returned.
func (s *SessionService) Refresh(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	if s.cur == nil {
		s.mu.Unlock()
		return nil, domain.ErrNotAuthenticated
	}
	token := s.cur.Token
	gen := s.gen
	s.mu.Unlock()

	if tokenExpired(token, time.Now()) {
		s.expire(ctx, gen)
		return nil, domain.ErrSessionExpired
	}

	profile, err := s.backend.FetchProfile(ctx, token)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == 401 || apiErr.Status == 404) {
			s.expire(ctx, gen)
			return nil, domain.ErrSessionExpired
		}
		return nil, err
	}

	s.mu.Lock()
	if s.gen != gen || s.cur == nil {
		s.mu.Unlock()
		s.log.Debug().Msg("refresh result discarded, session changed while in flight")
		return nil, nil
	}
	s.cur.Merge(profile)
	sess := s.cur.Clone()
	s.mu.Unlock()

	if err := s.repo.Save(ctx, sess); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist refreshed session")
	}

	s.notify()
	return sess, nil
}

// ForgotPassword requests a reset mail. No session impact.
func (s *SessionService) ForgotPassword(ctx context.Context, email string) error {
	return s.backend.ForgotPassword(ctx, email)
}

// ResetPassword redeems a reset token. No session impact.
func (s *SessionService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.backend.ResetPassword(ctx, token, newPassword)
}

// expire destroys the session after the backend rejected its token, unless a
// newer login already replaced it.
func (s *SessionService) expire(ctx context.Context, gen uint64) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.cur = nil
	s.gen++
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
	}
	s.log.Info().Msg("session invalidated by backend")
	s.notify()
}

// notify fans the current snapshot out to watchers, outside the lock.
func (s *SessionService) notify() {
	s.mu.Lock()
	sess := s.cur.Clone()
	watchers := append(([]func(*domain.Session))(nil), s.watchers...)
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(sess.Clone())
	}
}

// tokenExpired inspects the bearer token's exp claim without verifying the
// signature; the client holds no signing secret. Opaque or claimless tokens
// are assumed live and left for the backend to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time)
}

func mapLoginError(err error) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case 400, 401, 404:
			return domain.ErrInvalidCredentials
		}
	}
	return err
}

func mapRegisterError(err error) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case 400:
			return domain.ErrValidation
		case 409:
			return domain.ErrUserExists
		}
	}
	return err
}

// Package file persists the session snapshot as a JSON file, the durable
// client storage for single-machine deployments.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
)

// DefaultPath returns the conventional snapshot location,
// ~/.swarm/session.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".swarm", "session.json"), nil
}

// SessionRepository stores the session snapshot at a fixed path with 0600
// permissions. It implements ports.SessionRepository.
type SessionRepository struct {
	path string
	log  zerolog.Logger
}

// NewSessionRepository creates a repository writing to path.
func NewSessionRepository(path string, log zerolog.Logger) *SessionRepository {
	return &SessionRepository{path: path, log: log}
}

// Load reads the persisted snapshot. A missing file or one that fails to
// parse yields (nil, nil): the user is simply logged out.
func (r *SessionRepository) Load(_ context.Context) (*domain.Session, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		r.log.Warn().Err(err).Str("path", r.path).Msg("session file corrupt, treating as logged out")
		return nil, nil
	}
	if s.Token == "" {
		// A snapshot without a credential is useless.
		return nil, nil
	}
	return &s, nil
}

// Save writes the full snapshot, creating the parent directory on first use.
func (r *SessionRepository) Save(_ context.Context, s *domain.Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0600)
}

// Clear removes the snapshot. Removing an absent file is not an error.
func (r *SessionRepository) Clear(_ context.Context) error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

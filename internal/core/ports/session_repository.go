package ports

import (
	"context"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
)

// SessionRepository persists the session snapshot under a single fixed key so
// it survives a process restart.
//
// Load returns (nil, nil) when no snapshot exists or the stored data cannot
// be parsed: corruption is treated as "logged out", never as an error the
// caller has to handle.
type SessionRepository interface {
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Clear(ctx context.Context) error
}

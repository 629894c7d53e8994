package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
)

// sessionKey is the single fixed key holding the serialized session.
const sessionKey = "gateway:session"

// SessionRepository stores the session snapshot in Redis under one fixed
// key. Writes are last-write-wins; the gateway is the only writer. It
// implements ports.SessionRepository.
type SessionRepository struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewSessionRepository wraps an established Redis client.
func NewSessionRepository(client *redis.Client, log zerolog.Logger) *SessionRepository {
	return &SessionRepository{client: client, log: log}
}

// Load reads the persisted snapshot. An absent key or an unparseable value
// yields (nil, nil); connectivity failures are surfaced.
func (r *SessionRepository) Load(ctx context.Context) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		r.log.Warn().Err(err).Msg("stored session unparseable, treating as logged out")
		return nil, nil
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

// Save writes the full snapshot. No TTL: the session's lifetime is governed
// by logout, idle timeout, and token expiry, not by the store.
func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey, data, 0).Err()
}

// Clear deletes the snapshot. Deleting an absent key is a no-op.
func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.client.Del(ctx, sessionKey).Err()
}

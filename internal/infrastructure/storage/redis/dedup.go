package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
)

const dedupTTL = time.Hour

// NotificationDedup provides idempotency checks for server-pushed events.
// The push endpoint redelivers recent messages after a resubscribe; marking
// processed events here keeps a redelivery from triggering a second refresh.
// Key format: notify:dedup:<type>:<submission_id>:<unix_timestamp>
type NotificationDedup struct {
	client *redis.Client
}

// NewNotificationDedup wraps an established Redis client.
func NewNotificationDedup(client *redis.Client) *NotificationDedup {
	return &NotificationDedup{client: client}
}

// Seen reports whether this exact event has already been processed.
func (d *NotificationDedup) Seen(ctx context.Context, ev domain.NotificationEvent) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(ev)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this event has been processed (expires after dedupTTL).
func (d *NotificationDedup) Mark(ctx context.Context, ev domain.NotificationEvent) error {
	return d.client.Set(ctx, d.key(ev), "1", dedupTTL).Err()
}

func (d *NotificationDedup) key(ev domain.NotificationEvent) string {
	return fmt.Sprintf("notify:dedup:%s:%s:%d", ev.Type, ev.SubmissionID, ev.Timestamp.Unix())
}

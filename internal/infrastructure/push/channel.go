// Package push maintains the live notification subscription. The channel is
// owned by the current session's lifetime: it opens when a session exists,
// is torn down and rebuilt when the identity changes, and closes on logout.
package push

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swarmhq/feedback-gateway/internal/api/metrics"
	"github.com/swarmhq/feedback-gateway/internal/core/domain"
	"github.com/swarmhq/feedback-gateway/internal/core/ports"
)

const defaultRetry = 5 * time.Second

// Refresher is the slice of the session service the channel drives.
type Refresher interface {
	Refresh(ctx context.Context) (*domain.Session, error)
}

// Dedup filters redelivered events. Optional; a nil Dedup processes every
// delivery.
type Dedup interface {
	Seen(ctx context.Context, ev domain.NotificationEvent) (bool, error)
	Mark(ctx context.Context, ev domain.NotificationEvent) error
}

// Channel subscribes to the backend's per-user event stream and reacts to
// recognized events by refreshing the session and raising a transient alert.
type Channel struct {
	baseURL   string
	retry     time.Duration
	httpc     *http.Client
	refresher Refresher
	alerter   ports.Alerter
	dedup     Dedup
	log       zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	userID string
}

// NewChannel creates a closed channel. baseURL points at the push endpoint
// root; the per-user topic path is appended on subscribe.
func NewChannel(baseURL string, retry time.Duration, refresher Refresher, alerter ports.Alerter, dedup Dedup, log zerolog.Logger) *Channel {
	if retry <= 0 {
		retry = defaultRetry
	}
	return &Channel{
		baseURL:   strings.TrimRight(baseURL, "/"),
		retry:     retry,
		httpc:     &http.Client{}, // no timeout: the stream stays open
		refresher: refresher,
		alerter:   alerter,
		dedup:     dedup,
		log:       log,
	}
}

// SetSession rebinds the subscription to the given session. A nil session
// closes the channel; an unchanged identity leaves the running subscription
// alone; a new identity tears the old one down and opens a fresh one.
func (c *Channel) SetSession(s *domain.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s == nil {
		c.stopLocked()
		return
	}
	if s.UserID == c.userID && c.cancel != nil {
		return
	}

	c.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.userID = s.UserID
	go c.run(ctx, s.UserID, s.Token)
}

// Close tears down any open subscription. Idempotent.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Channel) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.userID = ""
}

// run keeps one subscribe cycle alive per session identity. A dropped
// connection is simply resubscribed after a fixed delay until the session
// ends.
func (c *Channel) run(ctx context.Context, userID, token string) {
	for {
		err := c.subscribe(ctx, userID, token)
		if ctx.Err() != nil {
			return
		}
		c.log.Warn().Err(err).Str("user_id", userID).Msg("push stream closed, resubscribing")

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.retry):
		}
	}
}

// subscribe opens the SSE stream for the user's topic and dispatches events
// until the stream drops or the context ends.
func (c *Channel) subscribe(ctx context.Context, userID, token string) error {
	url := fmt.Sprintf("%s/topics/user.%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}

	c.log.Info().Str("user_id", userID).Msg("push channel open")

	var data strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		case line == "":
			if data.Len() > 0 {
				c.dispatch(ctx, data.String())
				data.Reset()
			}
		default:
			// event names and comment heartbeats carry no payload
		}
	}
	return scanner.Err()
}

// wireEvent is the JSON payload shape on the stream.
type wireEvent struct {
	Type         string `json:"type"`
	SubmissionID string `json:"submissionId"`
	TS           int64  `json:"ts"`
}

// dispatch parses one message and reacts to it. Malformed or unrecognized
// payloads are dropped without disturbing the stream.
func (c *Channel) dispatch(ctx context.Context, payload string) {
	var w wireEvent
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		metrics.PushEventsTotal.WithLabelValues("malformed").Inc()
		c.log.Debug().Err(err).Msg("unparseable push payload ignored")
		return
	}

	ev := domain.NotificationEvent{
		Type:         domain.EventType(w.Type),
		SubmissionID: w.SubmissionID,
		ReceivedAt:   time.Now().UTC(),
	}
	if w.TS > 0 {
		ev.Timestamp = time.Unix(w.TS, 0).UTC()
	}

	if !ev.Recognized() {
		metrics.PushEventsTotal.WithLabelValues("unrecognized").Inc()
		c.log.Debug().Str("type", w.Type).Msg("unrecognized push event ignored")
		return
	}

	if c.dedup != nil {
		seen, err := c.dedup.Seen(ctx, ev)
		if err != nil {
			c.log.Warn().Err(err).Msg("dedup check failed, processing anyway")
		} else if seen {
			metrics.PushDedupTotal.WithLabelValues("hit").Inc()
			c.log.Debug().Str("submission_id", ev.SubmissionID).Msg("duplicate push event skipped")
			return
		} else {
			metrics.PushDedupTotal.WithLabelValues("miss").Inc()
		}
		if err := c.dedup.Mark(ctx, ev); err != nil {
			c.log.Warn().Err(err).Msg("failed to mark push event processed")
		}
	}

	metrics.PushEventsTotal.WithLabelValues("processed").Inc()

	if _, err := c.refresher.Refresh(ctx); err != nil {
		c.log.Warn().Err(err).Msg("push-triggered refresh failed")
	}

	c.alerter.Alert(domain.Alert{
		ID:        uuid.NewString(),
		Kind:      "feedback",
		Message:   "New feedback arrived on one of your submissions",
		CreatedAt: ev.ReceivedAt,
	})
}

package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
)

const defaultAlertTTL = 10 * time.Second

// AlertFeed holds transient alerts until they auto-dismiss. It implements
// ports.Alerter for the push channel and serves the UI's poll endpoint.
type AlertFeed struct {
	ttl time.Duration

	mu     sync.Mutex
	alerts []domain.Alert
}

// NewAlertFeed creates a feed whose alerts dismiss after ttl. A non-positive
// ttl falls back to defaultAlertTTL.
func NewAlertFeed(ttl time.Duration) *AlertFeed {
	if ttl <= 0 {
		ttl = defaultAlertTTL
	}
	return &AlertFeed{ttl: ttl}
}

// Alert appends a transient alert to the feed.
func (f *AlertFeed) Alert(a domain.Alert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruneLocked(time.Now())
	f.alerts = append(f.alerts, a)
}

// Recent returns the alerts that have not auto-dismissed yet.
func (f *AlertFeed) Recent() []domain.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruneLocked(time.Now())
	return append([]domain.Alert(nil), f.alerts...)
}

// Reset drops everything, dismissed or not. Called on logout so a new login
// never sees the previous user's notices.
func (f *AlertFeed) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = nil
}

func (f *AlertFeed) pruneLocked(now time.Time) {
	kept := f.alerts[:0]
	for _, a := range f.alerts {
		if now.Sub(a.CreatedAt) < f.ttl {
			kept = append(kept, a)
		}
	}
	f.alerts = kept
}

// AlertsHandler serves the transient alert feed.
type AlertsHandler struct {
	feed *AlertFeed
}

func NewAlertsHandler(feed *AlertFeed) *AlertsHandler {
	return &AlertsHandler{feed: feed}
}

// List returns the currently visible alerts.
func (h *AlertsHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"alerts": h.feed.Recent()})
}

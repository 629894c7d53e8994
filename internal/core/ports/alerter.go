package ports

import "github.com/swarmhq/feedback-gateway/internal/core/domain"

// Alerter surfaces transient, auto-dismissing notices to the user.
type Alerter interface {
	Alert(a domain.Alert)
}

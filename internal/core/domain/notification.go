package domain

import "time"

// EventType discriminates server-pushed notification payloads.
type EventType string

const (
	// EventNewFeedback signals that a reviewer left feedback on one of the
	// current user's submissions.
	EventNewFeedback EventType = "NEW_FEEDBACK"
)

// NotificationEvent is a transient server-pushed message. It is consumed the
// moment it arrives and never persisted.
type NotificationEvent struct {
	Type         EventType `json:"type"`
	SubmissionID string    `json:"submissionId,omitempty"`
	Timestamp    time.Time `json:"ts,omitempty"`
	ReceivedAt   time.Time `json:"-"`
}

// Recognized reports whether the event type belongs to the closed set the
// client reacts to. Unknown types are ignored without closing the channel.
func (e NotificationEvent) Recognized() bool {
	return e.Type == EventNewFeedback
}

// Alert is a transient, auto-dismissing user-facing notice.
type Alert struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

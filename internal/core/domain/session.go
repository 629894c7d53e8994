package domain

import "time"

// Session is the authenticated identity held by the client for the current
// user. A session exists if and only if the user is logged in; every field
// except Token mirrors the backend's user snapshot.
type Session struct {
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	Email           string    `json:"email,omitempty"`
	Roles           RoleSet   `json:"roles"`
	Token           string    `json:"token"`
	DisplayName     string    `json:"display_name,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	TotalPoints     int       `json:"total_points"`
	SubmissionCount int       `json:"submission_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Clone returns a deep copy so callers can never mutate the store's snapshot.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Roles = append(RoleSet(nil), s.Roles...)
	return &c
}

// Merge applies a refreshed profile onto the session. The bearer token and
// creation time are preserved; everything else is overwritten with the
// backend's authoritative values.
func (s *Session) Merge(p *Profile) {
	s.UserID = p.ID
	s.Username = p.Username
	s.Email = p.Email
	s.Roles = p.Roles.Normalize()
	s.DisplayName = p.DisplayName
	s.AvatarURL = p.AvatarURL
	s.TotalPoints = p.TotalPoints
	s.SubmissionCount = p.SubmissionCount
}

// NewSession builds a session from a login response profile and token.
func NewSession(p *Profile, token string) *Session {
	s := &Session{Token: token, CreatedAt: time.Now().UTC()}
	s.Merge(p)
	return s
}

package domain

// Role is a capability tag carried by a session. The set is closed; the
// backend issues the same ROLE_* strings in its auth responses.
type Role string

const (
	RoleSubmitter Role = "ROLE_SUBMITTER"
	RoleReviewer  Role = "ROLE_REVIEWER"
	RoleAdmin     Role = "ROLE_ADMIN"
)

// IsValid reports whether r belongs to the closed role set.
func (r Role) IsValid() bool {
	switch r {
	case RoleSubmitter, RoleReviewer, RoleAdmin:
		return true
	}
	return false
}

// RoleSet is an unordered collection of roles. Serialized as a JSON array to
// match the backend's user payloads.
type RoleSet []Role

// Has reports whether the set contains the given role.
func (rs RoleSet) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Normalize drops unknown tags and duplicates, preserving first-seen order.
// Unrecognized roles coming from the backend are skipped rather than rejected.
func (rs RoleSet) Normalize() RoleSet {
	seen := make(map[Role]struct{}, len(rs))
	out := make(RoleSet, 0, len(rs))
	for _, r := range rs {
		if !r.IsValid() {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Profile is the canonical user snapshot returned by GET /users/me. It never
// carries a token; merging it into a session preserves the credential.
type Profile struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	Email           string  `json:"email,omitempty"`
	Roles           RoleSet `json:"roles"`
	DisplayName     string  `json:"display_name,omitempty"`
	AvatarURL       string  `json:"avatar_url,omitempty"`
	TotalPoints     int     `json:"total_points"`
	SubmissionCount int     `json:"submission_count"`
}

// Package rbac derives UI capabilities from a session's role set.
//
// Every consumer (navigation, routing, view composition) computes the same
// answer from the same role set through these functions; role checks are
// never re-derived ad hoc at call sites.
package rbac

import "github.com/swarmhq/feedback-gateway/internal/core/domain"

// Capabilities is the full set of derived flags for one role set. Computed on
// demand, never stored.
type Capabilities struct {
	IsSubmitter bool
	IsReviewer  bool
	IsAdmin     bool
}

// Resolve computes capability flags from a role set. Deterministic and
// side-effect free; a nil or empty set yields the zero value.
func Resolve(roles domain.RoleSet) Capabilities {
	return Capabilities{
		IsSubmitter: roles.Has(domain.RoleSubmitter),
		IsReviewer:  roles.Has(domain.RoleReviewer),
		IsAdmin:     roles.Has(domain.RoleAdmin),
	}
}

// CanSubmit reports whether the user may act as a submitter. Admin implies
// the submitter capability.
func (c Capabilities) CanSubmit() bool {
	return c.IsSubmitter || c.IsAdmin
}

// CanReview reports whether the user may act as a reviewer. Admin implies
// the reviewer capability.
func (c Capabilities) CanReview() bool {
	return c.IsReviewer || c.IsAdmin
}

// ReviewerOnly reports whether the user holds REVIEWER alone. Reviewer-only
// sessions get a distinct UI mode: different labels and history defaults.
func (c Capabilities) ReviewerOnly() bool {
	return c.IsReviewer && !c.IsSubmitter && !c.IsAdmin
}

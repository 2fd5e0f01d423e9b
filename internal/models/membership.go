package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the per-membership role of a principal within one organization.
// A role in one organization has no bearing on any other organization.
type Role string

const (
	RoleAdmin  Role = "admin"  // may manage membership and org-scoped resources
	RoleMember Role = "member" // read-only access to org-scoped resources
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Membership joins a principal to an organization with a role.
// At most one membership exists per (organization, principal) pair.
type Membership struct {
	MembershipID uuid.UUID // UUIDv7
	OrgID        uuid.UUID // FK to organizations, cascade on delete
	PrincipalID  uuid.UUID // FK to principals
	Role         Role
	InvitedBy    *uuid.UUID // Principal that added this member, nil for founders
	CreatedAt    time.Time
}

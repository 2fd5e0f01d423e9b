package authz

import (
	"errors"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/google/uuid"
)

// ErrPermissionDenied is returned by Require when the decision is Deny.
var ErrPermissionDenied = errors.New("permission denied")

// Decision is the outcome of an authorization check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// ActionKind enumerates the operations subject to authorization.
type ActionKind string

const (
	KindCreateOrg        ActionKind = "org:create"
	KindDeleteOrg        ActionKind = "org:delete"
	KindRenameOrg        ActionKind = "org:rename"
	KindListAllUsers     ActionKind = "users:list"
	KindToggleSuperAdmin ActionKind = "users:toggle-super-admin"
	KindAddMember        ActionKind = "members:add"
	KindRemoveMember     ActionKind = "members:remove"
	KindChangeRole       ActionKind = "members:change-role"
	KindReadOrgResource  ActionKind = "resource:read"
	KindWriteOrgResource ActionKind = "resource:write"
)

// Action is a requested operation together with its target context.
// Use the constructors; handlers should never build one by hand.
type Action struct {
	Kind            ActionKind
	OrgID           uuid.UUID // set for organization-scoped kinds
	TargetPrincipal uuid.UUID // set for KindToggleSuperAdmin
}

func CreateOrg() Action { return Action{Kind: KindCreateOrg} }
func DeleteOrg(org uuid.UUID) Action { return Action{Kind: KindDeleteOrg, OrgID: org} }
func RenameOrg(org uuid.UUID) Action { return Action{Kind: KindRenameOrg, OrgID: org} }
func ListAllUsers() Action { return Action{Kind: KindListAllUsers} }
func AddMember(org uuid.UUID) Action { return Action{Kind: KindAddMember, OrgID: org} }
func RemoveMember(org uuid.UUID) Action { return Action{Kind: KindRemoveMember, OrgID: org} }
func ChangeRole(org uuid.UUID) Action { return Action{Kind: KindChangeRole, OrgID: org} }
func ReadOrgResource(org uuid.UUID) Action { return Action{Kind: KindReadOrgResource, OrgID: org} }
func WriteOrgResource(org uuid.UUID) Action { return Action{Kind: KindWriteOrgResource, OrgID: org} }
func ToggleSuperAdmin(target uuid.UUID) Action {
	return Action{Kind: KindToggleSuperAdmin, TargetPrincipal: target}
}

// Subject is the acting principal as seen by the evaluator: its platform
// privilege plus its current membership roles keyed by organization.
// Build it fresh for every request; membership data must never be cached
// across role changes.
type Subject struct {
	PrincipalID uuid.UUID
	SuperAdmin  bool
	Roles       map[uuid.UUID]models.Role
}

// NewSubject builds a Subject from a principal and its current memberships.
func NewSubject(p *models.Principal, memberships []*models.Membership) *Subject {
	roles := make(map[uuid.UUID]models.Role, len(memberships))
	for _, m := range memberships {
		roles[m.OrgID] = m.Role
	}
	return &Subject{
		PrincipalID: p.PrincipalID,
		SuperAdmin:  p.SuperAdmin,
		Roles:       roles,
	}
}

func (s *Subject) roleIn(org uuid.UUID) (models.Role, bool) {
	r, ok := s.Roles[org]
	return r, ok
}

// Decide evaluates the rules in precedence order and returns the first
// match. It is a pure function with no internal state and is safe for
// concurrent use.
//
// Rule order:
//  1. Toggling another principal's super admin flag: denied on self,
//     otherwise requires the super admin flag.
//  2. Organization create/delete and global user listing: super admin only.
//  3. Organization management (rename, membership changes): org admin or
//     super admin.
//  4. Organization-scoped resources: any member may read, admins may write;
//     super admin may do both.
//  5. Everything else is denied.
func Decide(s *Subject, a Action) Decision {
	switch a.Kind {
	case KindToggleSuperAdmin:
		if a.TargetPrincipal == s.PrincipalID {
			// Self-toggle is never allowed, even for super admins. This
			// keeps a lone super admin from locking the platform out.
			return Deny
		}
		return allowIf(s.SuperAdmin)

	case KindCreateOrg, KindDeleteOrg, KindListAllUsers:
		return allowIf(s.SuperAdmin)

	case KindRenameOrg, KindAddMember, KindRemoveMember, KindChangeRole:
		if s.SuperAdmin {
			return Allow
		}
		role, ok := s.roleIn(a.OrgID)
		return allowIf(ok && role == models.RoleAdmin)

	case KindWriteOrgResource:
		if s.SuperAdmin {
			return Allow
		}
		role, ok := s.roleIn(a.OrgID)
		return allowIf(ok && role == models.RoleAdmin)

	case KindReadOrgResource:
		if s.SuperAdmin {
			return Allow
		}
		_, ok := s.roleIn(a.OrgID)
		return allowIf(ok)
	}

	return Deny
}

// Require evaluates the action and returns ErrPermissionDenied on Deny.
func Require(s *Subject, a Action) error {
	if Decide(s, a) != Allow {
		return ErrPermissionDenied
	}
	return nil
}

func allowIf(ok bool) Decision {
	if ok {
		return Allow
	}
	return Deny
}

// Package tenant orchestrates every organization, membership and resource
// mutation. All tenant store access goes through the Manager, and every
// operation runs the authorization evaluator before touching the store, so
// there is no code path that can bypass the access rules.
package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/auditgate/auditgate/internal/authz"
	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrInvalidRole is returned when a request names an unknown role.
var ErrInvalidRole = fmt.Errorf("invalid role")

// Manager is the gateway for tenant mutations. It holds no per-request
// state and is safe for concurrent use.
type Manager struct {
	stores store.Stores
}

// NewManager creates a Manager over the given stores.
func NewManager(stores store.Stores) *Manager {
	return &Manager{stores: stores}
}

// CreateOrganization creates an organization with the actor as founding
// admin. Super admin only.
func (m *Manager) CreateOrganization(ctx context.Context, actor *authz.Subject, name string) (*models.Organization, error) {
	if err := authz.Require(actor, authz.CreateOrg()); err != nil {
		return nil, err
	}

	now := time.Now()
	org := &models.Organization{
		OrgID:     uuid.Must(uuid.NewV7()),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	founder := &models.Membership{
		MembershipID: uuid.Must(uuid.NewV7()),
		OrgID:        org.OrgID,
		PrincipalID:  actor.PrincipalID,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
	}

	if err := m.stores.Organizations.CreateWithFounder(ctx, org, founder); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	log.Info().
		Str("org_id", org.OrgID.String()).
		Str("name", org.Name).
		Str("founder", actor.PrincipalID.String()).
		Msg("Created organization")

	return org, nil
}

// RenameOrganization updates an organization's name. Org admin or super admin.
func (m *Manager) RenameOrganization(ctx context.Context, actor *authz.Subject, orgID uuid.UUID, name string) (*models.Organization, error) {
	if err := authz.Require(actor, authz.RenameOrg(orgID)); err != nil {
		return nil, err
	}

	org, err := m.stores.Organizations.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}

	org.Name = name
	if err := m.stores.Organizations.Update(ctx, org); err != nil {
		return nil, err
	}

	return org, nil
}

// DeleteOrganization deletes an organization and cascades to everything
// scoped to it. Super admin only.
func (m *Manager) DeleteOrganization(ctx context.Context, actor *authz.Subject, orgID uuid.UUID) error {
	if err := authz.Require(actor, authz.DeleteOrg(orgID)); err != nil {
		return err
	}

	if err := m.stores.Organizations.Delete(ctx, orgID); err != nil {
		return err
	}

	log.Info().
		Str("org_id", orgID.String()).
		Str("actor", actor.PrincipalID.String()).
		Msg("Deleted organization")

	return nil
}

// GetOrganization retrieves an organization the actor can read.
func (m *Manager) GetOrganization(ctx context.Context, actor *authz.Subject, orgID uuid.UUID) (*models.Organization, error) {
	if err := authz.Require(actor, authz.ReadOrgResource(orgID)); err != nil {
		return nil, err
	}

	return m.stores.Organizations.Get(ctx, orgID)
}

// ListOrganizations returns the organizations visible to the actor: all of
// them for a super admin, otherwise the actor's own memberships.
func (m *Manager) ListOrganizations(ctx context.Context, actor *authz.Subject) ([]*models.Organization, error) {
	if actor.SuperAdmin {
		return m.stores.Organizations.List(ctx)
	}
	return m.stores.Organizations.ListByPrincipal(ctx, actor.PrincipalID)
}

// AddMember adds a registered principal to an organization by email.
// The email is resolved server-side; a client-supplied principal ID is
// never accepted. Accounts are never created on behalf of others.
func (m *Manager) AddMember(ctx context.Context, actor *authz.Subject, orgID uuid.UUID, email string, role models.Role) (*models.Membership, error) {
	if err := authz.Require(actor, authz.AddMember(orgID)); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	principal, err := m.stores.Principals.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	invitedBy := actor.PrincipalID
	membership := &models.Membership{
		MembershipID: uuid.Must(uuid.NewV7()),
		OrgID:        orgID,
		PrincipalID:  principal.PrincipalID,
		Role:         role,
		InvitedBy:    &invitedBy,
		CreatedAt:    time.Now(),
	}

	if err := m.stores.Memberships.Create(ctx, membership); err != nil {
		return nil, err
	}

	log.Info().
		Str("org_id", orgID.String()).
		Str("principal_id", principal.PrincipalID.String()).
		Str("role", string(role)).
		Msg("Added member")

	return membership, nil
}

// RemoveMember removes a membership from an organization.
func (m *Manager) RemoveMember(ctx context.Context, actor *authz.Subject, orgID, membershipID uuid.UUID) error {
	if err := authz.Require(actor, authz.RemoveMember(orgID)); err != nil {
		return err
	}

	membership, err := m.stores.Memberships.Get(ctx, membershipID)
	if err != nil {
		return err
	}
	if membership.OrgID != orgID {
		return store.ErrMembershipNotFound
	}

	return m.stores.Memberships.Delete(ctx, membershipID)
}

// ChangeRole updates a membership's role. An admin demoting themself is
// allowed: unlike the super admin flag, org roles are recoverable through
// another admin or a super admin.
func (m *Manager) ChangeRole(ctx context.Context, actor *authz.Subject, orgID, membershipID uuid.UUID, newRole models.Role) error {
	if err := authz.Require(actor, authz.ChangeRole(orgID)); err != nil {
		return err
	}
	if !newRole.Valid() {
		return ErrInvalidRole
	}

	membership, err := m.stores.Memberships.Get(ctx, membershipID)
	if err != nil {
		return err
	}
	if membership.OrgID != orgID {
		return store.ErrMembershipNotFound
	}

	return m.stores.Memberships.UpdateRole(ctx, membershipID, newRole)
}

// ListMembers returns the memberships of an organization the actor can read.
func (m *Manager) ListMembers(ctx context.Context, actor *authz.Subject, orgID uuid.UUID) ([]*models.Membership, error) {
	if err := authz.Require(actor, authz.ReadOrgResource(orgID)); err != nil {
		return nil, err
	}

	return m.stores.Memberships.ListByOrg(ctx, orgID)
}

// ListAllUsers returns every principal on the platform. Super admin only.
func (m *Manager) ListAllUsers(ctx context.Context, actor *authz.Subject) ([]*models.Principal, error) {
	if err := authz.Require(actor, authz.ListAllUsers()); err != nil {
		return nil, err
	}

	return m.stores.Principals.List(ctx)
}

// SetSuperAdmin sets or clears another principal's super admin flag.
// Denied on self regardless of privilege.
func (m *Manager) SetSuperAdmin(ctx context.Context, actor *authz.Subject, target uuid.UUID, enabled bool) error {
	if err := authz.Require(actor, authz.ToggleSuperAdmin(target)); err != nil {
		return err
	}

	if err := m.stores.Principals.SetSuperAdmin(ctx, target, enabled); err != nil {
		return err
	}

	log.Info().
		Str("target", target.String()).
		Str("actor", actor.PrincipalID.String()).
		Bool("enabled", enabled).
		Msg("Changed super admin flag")

	return nil
}

// GetProfile returns the actor's own principal row.
func (m *Manager) GetProfile(ctx context.Context, actor *authz.Subject) (*models.Principal, error) {
	return m.stores.Principals.Get(ctx, actor.PrincipalID)
}

// UpdateProfile updates the actor's own display name. Email and the super
// admin flag are not touched through this path.
func (m *Manager) UpdateProfile(ctx context.Context, actor *authz.Subject, fullName string) (*models.Principal, error) {
	principal, err := m.stores.Principals.Get(ctx, actor.PrincipalID)
	if err != nil {
		return nil, err
	}

	principal.FullName = fullName
	if err := m.stores.Principals.Update(ctx, principal); err != nil {
		return nil, err
	}

	return principal, nil
}

package store

import (
	"context"
	"errors"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/google/uuid"
)

// Sentinel errors for membership store operations
var (
	ErrMembershipNotFound      = errors.New("membership not found")
	ErrMembershipAlreadyExists = errors.New("membership already exists")
)

// MembershipStore defines the interface for membership storage operations.
// The store enforces uniqueness on the (organization, principal) pair.
type MembershipStore interface {
	// Create creates a new membership.
	// Returns ErrMembershipAlreadyExists if the principal is already a
	// member of the organization, ErrOrganizationNotFound or
	// ErrPrincipalNotFound if either side is missing.
	Create(ctx context.Context, membership *models.Membership) error

	// Get retrieves a membership by ID.
	// Returns ErrMembershipNotFound if the membership doesn't exist.
	Get(ctx context.Context, membershipID uuid.UUID) (*models.Membership, error)

	// GetByOrgAndPrincipal retrieves the membership for a principal within
	// an organization.
	// Returns ErrMembershipNotFound if the principal is not a member.
	GetByOrgAndPrincipal(ctx context.Context, orgID, principalID uuid.UUID) (*models.Membership, error)

	// UpdateRole changes a membership's role.
	// Returns ErrMembershipNotFound if the membership doesn't exist.
	UpdateRole(ctx context.Context, membershipID uuid.UUID, role models.Role) error

	// Delete removes a membership.
	// Returns ErrMembershipNotFound if the membership doesn't exist.
	Delete(ctx context.Context, membershipID uuid.UUID) error

	// ListByOrg returns all memberships of an organization, newest first.
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.Membership, error)

	// ListByPrincipal returns all memberships held by a principal.
	ListByPrincipal(ctx context.Context, principalID uuid.UUID) ([]*models.Membership, error)
}

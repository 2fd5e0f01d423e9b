package store

import (
	"context"
	"errors"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/google/uuid"
)

// Sentinel errors for organization store operations
var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")
)

// OrganizationStore defines the interface for organization storage operations.
// Organizations are the tenant boundary; memberships and audit resources
// reference them and are removed when the organization is deleted.
type OrganizationStore interface {
	// CreateWithFounder inserts the organization and its founding admin
	// membership in a single transaction, so an organization is never
	// observable without an admin.
	// Returns ErrOrganizationAlreadyExists if the ID is already taken.
	CreateWithFounder(ctx context.Context, org *models.Organization, founder *models.Membership) error

	// Get retrieves an organization by ID.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)

	// Update updates an organization's name and logo.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Update(ctx context.Context, org *models.Organization) error

	// Delete deletes an organization and cascades to its memberships, audit
	// plans, findings and document rows in one transaction.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Delete(ctx context.Context, orgID uuid.UUID) error

	// List returns all organizations ordered by name.
	List(ctx context.Context) ([]*models.Organization, error)

	// ListByPrincipal returns the organizations the principal is a member
	// of, ordered by name.
	ListByPrincipal(ctx context.Context, principalID uuid.UUID) ([]*models.Organization, error)
}

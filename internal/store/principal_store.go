package store

import (
	"context"
	"errors"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/google/uuid"
)

// Sentinel errors for principal store operations
var (
	ErrPrincipalNotFound      = errors.New("principal not found")
	ErrPrincipalAlreadyExists = errors.New("principal already exists")

	// ErrSuperAdminExists is returned by ClaimFirstSuperAdmin once any
	// principal holds the super admin flag. The claim path never reopens.
	ErrSuperAdminExists = errors.New("a super admin already exists")
)

// PrincipalStore defines the interface for principal storage operations.
type PrincipalStore interface {
	// Create creates a new principal.
	// Returns ErrPrincipalAlreadyExists if the ID or email is already taken.
	Create(ctx context.Context, principal *models.Principal) error

	// Get retrieves a principal by ID.
	// Returns ErrPrincipalNotFound if the principal doesn't exist.
	Get(ctx context.Context, principalID uuid.UUID) (*models.Principal, error)

	// GetByEmail retrieves a principal by lower-cased email.
	// Returns ErrPrincipalNotFound if no principal matches.
	GetByEmail(ctx context.Context, email string) (*models.Principal, error)

	// Update updates a principal's mutable profile fields.
	// Returns ErrPrincipalNotFound if the principal doesn't exist.
	Update(ctx context.Context, principal *models.Principal) error

	// List returns all principals ordered by email. Platform-scope only;
	// callers must hold the super admin privilege.
	List(ctx context.Context) ([]*models.Principal, error)

	// HasSuperAdmin reports whether any principal currently holds the super
	// admin flag. Must be answered with strong consistency; both the setup
	// status endpoint and the bootstrap claim rely on this query.
	HasSuperAdmin(ctx context.Context) (bool, error)

	// ClaimFirstSuperAdmin atomically promotes the given principal to super
	// admin if and only if no principal holds the flag yet. Concurrent
	// claims serialize inside the store; exactly one wins.
	// Returns ErrSuperAdminExists if the flag is already held by anyone,
	// ErrPrincipalNotFound if the claimant doesn't exist.
	ClaimFirstSuperAdmin(ctx context.Context, principalID uuid.UUID) error

	// SetSuperAdmin sets or clears the super admin flag on a principal.
	// Self-toggle protection is enforced by the authorization layer, not here.
	// Returns ErrPrincipalNotFound if the principal doesn't exist.
	SetSuperAdmin(ctx context.Context, principalID uuid.UUID, enabled bool) error
}

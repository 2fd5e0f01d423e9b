package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// MembershipStore implements store.MembershipStore using PostgreSQL.
// The UNIQUE (org_id, principal_id) constraint enforces one membership per
// principal per organization.
type MembershipStore struct {
	pool *pgxpool.Pool
}

// NewMembershipStore creates a new PostgreSQL-backed membership store.
// It shares the connection pool with other stores.
func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{
		pool: pool,
	}
}

// Create creates a new membership in the database.
func (s *MembershipStore) Create(ctx context.Context, membership *models.Membership) error {
	query := `
		INSERT INTO memberships (
			membership_id, org_id, principal_id, role, invited_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.pool.Exec(ctx, query,
		membership.MembershipID,
		membership.OrgID,
		membership.PrincipalID,
		membership.Role,
		membership.InvitedBy,
		membership.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrMembershipAlreadyExists
		}
		if isForeignKeyViolation(err) {
			// Either side of the pair is missing; check which.
			var exists bool
			checkErr := s.pool.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM organizations WHERE org_id = $1)`,
				membership.OrgID).Scan(&exists)
			if checkErr == nil && !exists {
				return store.ErrOrganizationNotFound
			}
			return store.ErrPrincipalNotFound
		}
		return mapPostgresError(err)
	}

	log.Debug().
		Str("membership_id", membership.MembershipID.String()).
		Str("org_id", membership.OrgID.String()).
		Str("principal_id", membership.PrincipalID.String()).
		Str("role", string(membership.Role)).
		Msg("Created membership")

	return nil
}

// Get retrieves a membership by ID.
func (s *MembershipStore) Get(ctx context.Context, membershipID uuid.UUID) (*models.Membership, error) {
	query := `
		SELECT membership_id, org_id, principal_id, role, invited_by, created_at
		FROM memberships
		WHERE membership_id = $1
	`

	var m models.Membership
	err := s.pool.QueryRow(ctx, query, membershipID).Scan(
		&m.MembershipID,
		&m.OrgID,
		&m.PrincipalID,
		&m.Role,
		&m.InvitedBy,
		&m.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrMembershipNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &m, nil
}

// GetByOrgAndPrincipal retrieves the membership for a principal within an
// organization.
func (s *MembershipStore) GetByOrgAndPrincipal(ctx context.Context, orgID, principalID uuid.UUID) (*models.Membership, error) {
	query := `
		SELECT membership_id, org_id, principal_id, role, invited_by, created_at
		FROM memberships
		WHERE org_id = $1 AND principal_id = $2
	`

	var m models.Membership
	err := s.pool.QueryRow(ctx, query, orgID, principalID).Scan(
		&m.MembershipID,
		&m.OrgID,
		&m.PrincipalID,
		&m.Role,
		&m.InvitedBy,
		&m.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrMembershipNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &m, nil
}

// UpdateRole changes a membership's role.
func (s *MembershipStore) UpdateRole(ctx context.Context, membershipID uuid.UUID, role models.Role) error {
	query := `
		UPDATE memberships
		SET role = $2
		WHERE membership_id = $1
	`

	result, err := s.pool.Exec(ctx, query, membershipID, role)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrMembershipNotFound
	}

	log.Debug().
		Str("membership_id", membershipID.String()).
		Str("role", string(role)).
		Msg("Updated membership role")

	return nil
}

// Delete removes a membership.
func (s *MembershipStore) Delete(ctx context.Context, membershipID uuid.UUID) error {
	query := `DELETE FROM memberships WHERE membership_id = $1`

	result, err := s.pool.Exec(ctx, query, membershipID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrMembershipNotFound
	}

	log.Debug().
		Str("membership_id", membershipID.String()).
		Msg("Deleted membership")

	return nil
}

// ListByOrg returns all memberships of an organization, newest first.
func (s *MembershipStore) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT membership_id, org_id, principal_id, role, invited_by, created_at
		FROM memberships
		WHERE org_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	return scanMemberships(rows)
}

// ListByPrincipal returns all memberships held by a principal.
func (s *MembershipStore) ListByPrincipal(ctx context.Context, principalID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT membership_id, org_id, principal_id, role, invited_by, created_at
		FROM memberships
		WHERE principal_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, principalID)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	return scanMemberships(rows)
}

func scanMemberships(rows pgx.Rows) ([]*models.Membership, error) {
	var memberships []*models.Membership
	for rows.Next() {
		var m models.Membership
		err := rows.Scan(
			&m.MembershipID,
			&m.OrgID,
			&m.PrincipalID,
			&m.Role,
			&m.InvitedBy,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}

	return memberships, nil
}

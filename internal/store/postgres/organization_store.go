package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// OrganizationStore implements store.OrganizationStore using PostgreSQL.
type OrganizationStore struct {
	pool *pgxpool.Pool
}

// NewOrganizationStore creates a new PostgreSQL-backed organization store.
// It shares the connection pool with other stores.
func NewOrganizationStore(pool *pgxpool.Pool) *OrganizationStore {
	return &OrganizationStore{
		pool: pool,
	}
}

// CreateWithFounder inserts the organization and its founding admin
// membership in a single transaction.
func (s *OrganizationStore) CreateWithFounder(ctx context.Context, org *models.Organization, founder *models.Membership) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return mapPostgresError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	_, err = tx.Exec(ctx, `
		INSERT INTO organizations (
			org_id, name, logo_url, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`,
		org.OrgID,
		org.Name,
		org.LogoURL,
		org.CreatedAt,
		org.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrOrganizationAlreadyExists
		}
		return mapPostgresError(err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO memberships (
			membership_id, org_id, principal_id, role, invited_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`,
		founder.MembershipID,
		founder.OrgID,
		founder.PrincipalID,
		founder.Role,
		founder.InvitedBy,
		founder.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrPrincipalNotFound
		}
		return mapPostgresError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapPostgresError(err)
	}

	log.Debug().
		Str("org_id", org.OrgID.String()).
		Str("name", org.Name).
		Str("founder_id", founder.PrincipalID.String()).
		Msg("Created organization with founding admin")

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	query := `
		SELECT org_id, name, logo_url, created_at, updated_at
		FROM organizations
		WHERE org_id = $1
	`

	var org models.Organization
	err := s.pool.QueryRow(ctx, query, orgID).Scan(
		&org.OrgID,
		&org.Name,
		&org.LogoURL,
		&org.CreatedAt,
		&org.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &org, nil
}

// Update updates an organization's name and logo.
func (s *OrganizationStore) Update(ctx context.Context, org *models.Organization) error {
	org.UpdatedAt = time.Now()

	query := `
		UPDATE organizations SET
			name = $2,
			logo_url = $3,
			updated_at = $4
		WHERE org_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		org.OrgID,
		org.Name,
		org.LogoURL,
		org.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	log.Debug().
		Str("org_id", org.OrgID.String()).
		Msg("Updated organization")

	return nil
}

// Delete deletes an organization by ID.
// Memberships, audit plans, findings and document rows cascade via FK
// constraints.
func (s *OrganizationStore) Delete(ctx context.Context, orgID uuid.UUID) error {
	query := `DELETE FROM organizations WHERE org_id = $1`

	result, err := s.pool.Exec(ctx, query, orgID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	log.Info().
		Str("org_id", orgID.String()).
		Msg("Deleted organization (and cascade-deleted its tenant data)")

	return nil
}

// List returns all organizations ordered by name.
func (s *OrganizationStore) List(ctx context.Context) ([]*models.Organization, error) {
	query := `
		SELECT org_id, name, logo_url, created_at, updated_at
		FROM organizations
		ORDER BY name
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	return scanOrganizations(rows)
}

// ListByPrincipal returns the organizations the principal is a member of,
// ordered by name.
func (s *OrganizationStore) ListByPrincipal(ctx context.Context, principalID uuid.UUID) ([]*models.Organization, error) {
	query := `
		SELECT o.org_id, o.name, o.logo_url, o.created_at, o.updated_at
		FROM organizations o
		JOIN memberships m ON m.org_id = o.org_id
		WHERE m.principal_id = $1
		ORDER BY o.name
	`

	rows, err := s.pool.Query(ctx, query, principalID)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	return scanOrganizations(rows)
}

func scanOrganizations(rows pgx.Rows) ([]*models.Organization, error) {
	var orgs []*models.Organization
	for rows.Next() {
		var org models.Organization
		err := rows.Scan(
			&org.OrgID,
			&org.Name,
			&org.LogoURL,
			&org.CreatedAt,
			&org.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, &org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}

	return orgs, nil
}

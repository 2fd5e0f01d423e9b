package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// superAdminClaimLockID keys the advisory lock that serializes first super
// admin claims across all server instances.
const superAdminClaimLockID = 4101

// PrincipalStore implements store.PrincipalStore using PostgreSQL.
type PrincipalStore struct {
	pool *pgxpool.Pool
}

// NewPrincipalStore creates a new PostgreSQL-backed principal store.
// It shares the connection pool with other stores.
func NewPrincipalStore(pool *pgxpool.Pool) *PrincipalStore {
	return &PrincipalStore{
		pool: pool,
	}
}

// Create creates a new principal in the database.
func (s *PrincipalStore) Create(ctx context.Context, principal *models.Principal) error {
	query := `
		INSERT INTO principals (
			principal_id, email, full_name, avatar_url,
			is_super_admin, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.pool.Exec(ctx, query,
		principal.PrincipalID,
		strings.ToLower(principal.Email),
		principal.FullName,
		principal.AvatarURL,
		principal.SuperAdmin,
		principal.CreatedAt,
		principal.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrPrincipalAlreadyExists
		}
		return mapPostgresError(err)
	}

	log.Debug().
		Str("principal_id", principal.PrincipalID.String()).
		Str("email", principal.Email).
		Msg("Created principal")

	return nil
}

// Get retrieves a principal by ID.
func (s *PrincipalStore) Get(ctx context.Context, principalID uuid.UUID) (*models.Principal, error) {
	query := `
		SELECT principal_id, email, full_name, avatar_url,
			is_super_admin, created_at, updated_at
		FROM principals
		WHERE principal_id = $1
	`

	var p models.Principal
	err := s.pool.QueryRow(ctx, query, principalID).Scan(
		&p.PrincipalID,
		&p.Email,
		&p.FullName,
		&p.AvatarURL,
		&p.SuperAdmin,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrPrincipalNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &p, nil
}

// GetByEmail retrieves a principal by email, matched case-insensitively.
func (s *PrincipalStore) GetByEmail(ctx context.Context, email string) (*models.Principal, error) {
	query := `
		SELECT principal_id, email, full_name, avatar_url,
			is_super_admin, created_at, updated_at
		FROM principals
		WHERE lower(email) = lower($1)
	`

	var p models.Principal
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&p.PrincipalID,
		&p.Email,
		&p.FullName,
		&p.AvatarURL,
		&p.SuperAdmin,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrPrincipalNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &p, nil
}

// Update updates a principal's profile fields. The email and super admin
// flag are not touched here; the flag changes only through SetSuperAdmin
// and ClaimFirstSuperAdmin.
func (s *PrincipalStore) Update(ctx context.Context, principal *models.Principal) error {
	principal.UpdatedAt = time.Now()

	query := `
		UPDATE principals SET
			full_name = $2,
			avatar_url = $3,
			updated_at = $4
		WHERE principal_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		principal.PrincipalID,
		principal.FullName,
		principal.AvatarURL,
		principal.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrPrincipalNotFound
	}

	log.Debug().
		Str("principal_id", principal.PrincipalID.String()).
		Msg("Updated principal")

	return nil
}

// List returns all principals ordered by email.
func (s *PrincipalStore) List(ctx context.Context) ([]*models.Principal, error) {
	query := `
		SELECT principal_id, email, full_name, avatar_url,
			is_super_admin, created_at, updated_at
		FROM principals
		ORDER BY email
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var principals []*models.Principal
	for rows.Next() {
		var p models.Principal
		err := rows.Scan(
			&p.PrincipalID,
			&p.Email,
			&p.FullName,
			&p.AvatarURL,
			&p.SuperAdmin,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan principal: %w", err)
		}
		principals = append(principals, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating principals: %w", err)
	}

	return principals, nil
}

// HasSuperAdmin reports whether any principal holds the super admin flag.
func (s *PrincipalStore) HasSuperAdmin(ctx context.Context) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM principals WHERE is_super_admin)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query).Scan(&exists); err != nil {
		return false, mapPostgresError(err)
	}

	return exists, nil
}

// ClaimFirstSuperAdmin promotes the principal to super admin if and only if
// no principal holds the flag yet. A transaction-scoped advisory lock
// serializes concurrent claims across server instances; a plain conditional
// UPDATE is not enough under READ COMMITTED, where two claimants can both
// observe zero super admins before either commits.
func (s *PrincipalStore) ClaimFirstSuperAdmin(ctx context.Context, principalID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return mapPostgresError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, superAdminClaimLockID); err != nil {
		return mapPostgresError(err)
	}

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM principals WHERE is_super_admin)`).Scan(&exists)
	if err != nil {
		return mapPostgresError(err)
	}
	if exists {
		return store.ErrSuperAdminExists
	}

	result, err := tx.Exec(ctx, `
		UPDATE principals
		SET is_super_admin = TRUE, updated_at = $2
		WHERE principal_id = $1
	`, principalID, time.Now())
	if err != nil {
		return mapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrPrincipalNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return mapPostgresError(err)
	}

	log.Info().
		Str("principal_id", principalID.String()).
		Msg("Claimed first super admin")

	return nil
}

// SetSuperAdmin sets or clears the super admin flag on a principal.
func (s *PrincipalStore) SetSuperAdmin(ctx context.Context, principalID uuid.UUID, enabled bool) error {
	query := `
		UPDATE principals
		SET is_super_admin = $2, updated_at = $3
		WHERE principal_id = $1
	`

	result, err := s.pool.Exec(ctx, query, principalID, enabled, time.Now())
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrPrincipalNotFound
	}

	log.Info().
		Str("principal_id", principalID.String()).
		Bool("enabled", enabled).
		Msg("Set super admin flag")

	return nil
}

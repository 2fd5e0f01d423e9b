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

// AuditStore implements store.AuditStore using PostgreSQL.
type AuditStore struct {
	pool *pgxpool.Pool
}

// NewAuditStore creates a new PostgreSQL-backed audit store.
// It shares the connection pool with other stores.
func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{
		pool: pool,
	}
}

// CreatePlan creates a new audit plan in the database.
func (s *AuditStore) CreatePlan(ctx context.Context, plan *models.AuditPlan) error {
	query := `
		INSERT INTO audit_plans (
			plan_id, org_id, title, description, iso_standard, status,
			planned_start_date, planned_end_date, created_by,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := s.pool.Exec(ctx, query,
		plan.PlanID,
		plan.OrgID,
		plan.Title,
		plan.Description,
		plan.ISOStandard,
		plan.Status,
		plan.PlannedStartDate,
		plan.PlannedEndDate,
		plan.CreatedBy,
		plan.CreatedAt,
		plan.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrOrganizationNotFound
		}
		return mapPostgresError(err)
	}

	log.Debug().
		Str("plan_id", plan.PlanID.String()).
		Str("org_id", plan.OrgID.String()).
		Str("status", string(plan.Status)).
		Msg("Created audit plan")

	return nil
}

// GetPlan retrieves an audit plan by ID.
func (s *AuditStore) GetPlan(ctx context.Context, planID uuid.UUID) (*models.AuditPlan, error) {
	query := `
		SELECT plan_id, org_id, title, description, iso_standard, status,
			planned_start_date, planned_end_date, created_by,
			created_at, updated_at
		FROM audit_plans
		WHERE plan_id = $1
	`

	var p models.AuditPlan
	err := s.pool.QueryRow(ctx, query, planID).Scan(
		&p.PlanID,
		&p.OrgID,
		&p.Title,
		&p.Description,
		&p.ISOStandard,
		&p.Status,
		&p.PlannedStartDate,
		&p.PlannedEndDate,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrPlanNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &p, nil
}

// UpdatePlan updates an audit plan.
func (s *AuditStore) UpdatePlan(ctx context.Context, plan *models.AuditPlan) error {
	plan.UpdatedAt = time.Now()

	query := `
		UPDATE audit_plans SET
			title = $2,
			description = $3,
			iso_standard = $4,
			status = $5,
			planned_start_date = $6,
			planned_end_date = $7,
			updated_at = $8
		WHERE plan_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		plan.PlanID,
		plan.Title,
		plan.Description,
		plan.ISOStandard,
		plan.Status,
		plan.PlannedStartDate,
		plan.PlannedEndDate,
		plan.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrPlanNotFound
	}

	log.Debug().
		Str("plan_id", plan.PlanID.String()).
		Msg("Updated audit plan")

	return nil
}

// DeletePlan deletes an audit plan. Findings cascade via FK constraint.
func (s *AuditStore) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	query := `DELETE FROM audit_plans WHERE plan_id = $1`

	result, err := s.pool.Exec(ctx, query, planID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrPlanNotFound
	}

	log.Debug().
		Str("plan_id", planID.String()).
		Msg("Deleted audit plan (and cascade-deleted its findings)")

	return nil
}

// ListPlansByOrg returns all audit plans of an organization, newest first.
func (s *AuditStore) ListPlansByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.AuditPlan, error) {
	query := `
		SELECT plan_id, org_id, title, description, iso_standard, status,
			planned_start_date, planned_end_date, created_by,
			created_at, updated_at
		FROM audit_plans
		WHERE org_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var plans []*models.AuditPlan
	for rows.Next() {
		var p models.AuditPlan
		err := rows.Scan(
			&p.PlanID,
			&p.OrgID,
			&p.Title,
			&p.Description,
			&p.ISOStandard,
			&p.Status,
			&p.PlannedStartDate,
			&p.PlannedEndDate,
			&p.CreatedBy,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit plan: %w", err)
		}
		plans = append(plans, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit plans: %w", err)
	}

	return plans, nil
}

// CreateFinding creates a new finding against a plan.
func (s *AuditStore) CreateFinding(ctx context.Context, finding *models.Finding) error {
	query := `
		INSERT INTO audit_findings (
			finding_id, org_id, plan_id, clause, description, severity,
			corrective_action, evidence, due_date, resolved_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`

	_, err := s.pool.Exec(ctx, query,
		finding.FindingID,
		finding.OrgID,
		finding.PlanID,
		finding.Clause,
		finding.Description,
		finding.Severity,
		finding.CorrectiveAction,
		finding.Evidence,
		finding.DueDate,
		finding.ResolvedAt,
		finding.CreatedAt,
		finding.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrPlanNotFound
		}
		return mapPostgresError(err)
	}

	log.Debug().
		Str("finding_id", finding.FindingID.String()).
		Str("plan_id", finding.PlanID.String()).
		Str("severity", string(finding.Severity)).
		Msg("Created finding")

	return nil
}

// GetFinding retrieves a finding by ID.
func (s *AuditStore) GetFinding(ctx context.Context, findingID uuid.UUID) (*models.Finding, error) {
	query := `
		SELECT finding_id, org_id, plan_id, clause, description, severity,
			corrective_action, evidence, due_date, resolved_at,
			created_at, updated_at
		FROM audit_findings
		WHERE finding_id = $1
	`

	var f models.Finding
	err := s.pool.QueryRow(ctx, query, findingID).Scan(
		&f.FindingID,
		&f.OrgID,
		&f.PlanID,
		&f.Clause,
		&f.Description,
		&f.Severity,
		&f.CorrectiveAction,
		&f.Evidence,
		&f.DueDate,
		&f.ResolvedAt,
		&f.CreatedAt,
		&f.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrFindingNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &f, nil
}

// UpdateFinding updates a finding.
func (s *AuditStore) UpdateFinding(ctx context.Context, finding *models.Finding) error {
	finding.UpdatedAt = time.Now()

	query := `
		UPDATE audit_findings SET
			clause = $2,
			description = $3,
			severity = $4,
			corrective_action = $5,
			evidence = $6,
			due_date = $7,
			resolved_at = $8,
			updated_at = $9
		WHERE finding_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		finding.FindingID,
		finding.Clause,
		finding.Description,
		finding.Severity,
		finding.CorrectiveAction,
		finding.Evidence,
		finding.DueDate,
		finding.ResolvedAt,
		finding.UpdatedAt,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrFindingNotFound
	}

	log.Debug().
		Str("finding_id", finding.FindingID.String()).
		Msg("Updated finding")

	return nil
}

// DeleteFinding deletes a finding.
func (s *AuditStore) DeleteFinding(ctx context.Context, findingID uuid.UUID) error {
	query := `DELETE FROM audit_findings WHERE finding_id = $1`

	result, err := s.pool.Exec(ctx, query, findingID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrFindingNotFound
	}

	log.Debug().
		Str("finding_id", findingID.String()).
		Msg("Deleted finding")

	return nil
}

// ListFindingsByPlan returns all findings of a plan, newest first.
func (s *AuditStore) ListFindingsByPlan(ctx context.Context, planID uuid.UUID) ([]*models.Finding, error) {
	query := `
		SELECT finding_id, org_id, plan_id, clause, description, severity,
			corrective_action, evidence, due_date, resolved_at,
			created_at, updated_at
		FROM audit_findings
		WHERE plan_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, planID)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var findings []*models.Finding
	for rows.Next() {
		var f models.Finding
		err := rows.Scan(
			&f.FindingID,
			&f.OrgID,
			&f.PlanID,
			&f.Clause,
			&f.Description,
			&f.Severity,
			&f.CorrectiveAction,
			&f.Evidence,
			&f.DueDate,
			&f.ResolvedAt,
			&f.CreatedAt,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		findings = append(findings, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating findings: %w", err)
	}

	return findings, nil
}

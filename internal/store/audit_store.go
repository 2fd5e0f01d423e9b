package store

import (
	"context"
	"errors"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/google/uuid"
)

// Sentinel errors for audit store operations
var (
	ErrPlanNotFound    = errors.New("audit plan not found")
	ErrFindingNotFound = errors.New("finding not found")
)

// AuditStore defines the interface for audit plan and finding storage.
// Both are organization-scoped and removed when the organization is deleted.
type AuditStore interface {
	// CreatePlan creates a new audit plan.
	CreatePlan(ctx context.Context, plan *models.AuditPlan) error

	// GetPlan retrieves an audit plan by ID.
	// Returns ErrPlanNotFound if the plan doesn't exist.
	GetPlan(ctx context.Context, planID uuid.UUID) (*models.AuditPlan, error)

	// UpdatePlan updates an audit plan.
	// Returns ErrPlanNotFound if the plan doesn't exist.
	UpdatePlan(ctx context.Context, plan *models.AuditPlan) error

	// DeletePlan deletes an audit plan and its findings.
	// Returns ErrPlanNotFound if the plan doesn't exist.
	DeletePlan(ctx context.Context, planID uuid.UUID) error

	// ListPlansByOrg returns all audit plans of an organization, newest first.
	ListPlansByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.AuditPlan, error)

	// CreateFinding creates a new finding against a plan.
	// Returns ErrPlanNotFound if the referenced plan doesn't exist.
	CreateFinding(ctx context.Context, finding *models.Finding) error

	// GetFinding retrieves a finding by ID.
	// Returns ErrFindingNotFound if the finding doesn't exist.
	GetFinding(ctx context.Context, findingID uuid.UUID) (*models.Finding, error)

	// UpdateFinding updates a finding.
	// Returns ErrFindingNotFound if the finding doesn't exist.
	UpdateFinding(ctx context.Context, finding *models.Finding) error

	// DeleteFinding deletes a finding.
	// Returns ErrFindingNotFound if the finding doesn't exist.
	DeleteFinding(ctx context.Context, findingID uuid.UUID) error

	// ListFindingsByPlan returns all findings of a plan, newest first.
	ListFindingsByPlan(ctx context.Context, planID uuid.UUID) ([]*models.Finding, error)
}

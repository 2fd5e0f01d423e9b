package memory

import (
	"context"
	"sort"
	"time"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
)

// AuditStore implements store.AuditStore using in-memory storage.
type AuditStore struct {
	db *DB
}

// NewAuditStore creates a new in-memory audit store backed by db.
func NewAuditStore(db *DB) *AuditStore {
	return &AuditStore{db: db}
}

// CreatePlan creates a new audit plan.
func (s *AuditStore) CreatePlan(ctx context.Context, plan *models.AuditPlan) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.organizations[plan.OrgID]; !exists {
		return store.ErrOrganizationNotFound
	}

	clone := *plan
	s.db.plans[clone.PlanID] = &clone

	return nil
}

// GetPlan retrieves an audit plan by ID.
func (s *AuditStore) GetPlan(ctx context.Context, planID uuid.UUID) (*models.AuditPlan, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	plan, exists := s.db.plans[planID]
	if !exists {
		return nil, store.ErrPlanNotFound
	}

	clone := *plan
	return &clone, nil
}

// UpdatePlan updates an audit plan.
func (s *AuditStore) UpdatePlan(ctx context.Context, plan *models.AuditPlan) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.plans[plan.PlanID]; !exists {
		return store.ErrPlanNotFound
	}

	plan.UpdatedAt = time.Now()

	clone := *plan
	s.db.plans[clone.PlanID] = &clone

	return nil
}

// DeletePlan deletes an audit plan and its findings.
func (s *AuditStore) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.plans[planID]; !exists {
		return store.ErrPlanNotFound
	}

	delete(s.db.plans, planID)

	for id, f := range s.db.findings {
		if f.PlanID == planID {
			delete(s.db.findings, id)
		}
	}

	return nil
}

// ListPlansByOrg returns all audit plans of an organization, newest first.
func (s *AuditStore) ListPlansByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.AuditPlan, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var result []*models.AuditPlan
	for _, p := range s.db.plans {
		if p.OrgID == orgID {
			clone := *p
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// CreateFinding creates a new finding against a plan.
func (s *AuditStore) CreateFinding(ctx context.Context, finding *models.Finding) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	plan, exists := s.db.plans[finding.PlanID]
	if !exists {
		return store.ErrPlanNotFound
	}

	clone := *finding
	clone.OrgID = plan.OrgID
	s.db.findings[clone.FindingID] = &clone

	return nil
}

// GetFinding retrieves a finding by ID.
func (s *AuditStore) GetFinding(ctx context.Context, findingID uuid.UUID) (*models.Finding, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	finding, exists := s.db.findings[findingID]
	if !exists {
		return nil, store.ErrFindingNotFound
	}

	clone := *finding
	return &clone, nil
}

// UpdateFinding updates a finding.
func (s *AuditStore) UpdateFinding(ctx context.Context, finding *models.Finding) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.findings[finding.FindingID]; !exists {
		return store.ErrFindingNotFound
	}

	finding.UpdatedAt = time.Now()

	clone := *finding
	s.db.findings[clone.FindingID] = &clone

	return nil
}

// DeleteFinding deletes a finding.
func (s *AuditStore) DeleteFinding(ctx context.Context, findingID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.findings[findingID]; !exists {
		return store.ErrFindingNotFound
	}

	delete(s.db.findings, findingID)

	return nil
}

// ListFindingsByPlan returns all findings of a plan, newest first.
func (s *AuditStore) ListFindingsByPlan(ctx context.Context, planID uuid.UUID) ([]*models.Finding, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var result []*models.Finding
	for _, f := range s.db.findings {
		if f.PlanID == planID {
			clone := *f
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/auditgate/auditgate/internal/authz"
	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
)

// ErrInvalidStatus is returned when a request names an unknown audit status.
var ErrInvalidStatus = fmt.Errorf("invalid audit status")

// ErrInvalidSeverity is returned when a request names an unknown severity.
var ErrInvalidSeverity = fmt.Errorf("invalid finding severity")

// PlanParams carries the caller-supplied fields of an audit plan.
type PlanParams struct {
	Title            string
	Description      *string
	ISOStandard      string
	Status           models.AuditStatus
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time
}

// FindingParams carries the caller-supplied fields of a finding.
type FindingParams struct {
	Clause           string
	Description      string
	Severity         models.FindingSeverity
	CorrectiveAction *string
	Evidence         *string
	DueDate          *time.Time
	ResolvedAt       *time.Time
}

// DocumentParams carries the caller-supplied fields of a document row.
type DocumentParams struct {
	FileName    string
	FileType    *string
	FileSize    *int64
	StoragePath string
	Description *string
	PlanID      *uuid.UUID
}

// CreatePlan creates an audit plan in an organization. Write access.
func (m *Manager) CreatePlan(ctx context.Context, actor *authz.Subject, orgID uuid.UUID, params PlanParams) (*models.AuditPlan, error) {
	if err := authz.Require(actor, authz.WriteOrgResource(orgID)); err != nil {
		return nil, err
	}

	if params.Status == "" {
		params.Status = models.AuditStatusDraft
	}
	if !params.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	createdBy := actor.PrincipalID
	plan := &models.AuditPlan{
		PlanID:           uuid.Must(uuid.NewV7()),
		OrgID:            orgID,
		Title:            params.Title,
		Description:      params.Description,
		ISOStandard:      params.ISOStandard,
		Status:           params.Status,
		PlannedStartDate: params.PlannedStartDate,
		PlannedEndDate:   params.PlannedEndDate,
		CreatedBy:        &createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := m.stores.Audits.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

// GetPlan retrieves an audit plan within an organization. Read access.
func (m *Manager) GetPlan(ctx context.Context, actor *authz.Subject, orgID, planID uuid.UUID) (*models.AuditPlan, error) {
	if err := authz.Require(actor, authz.ReadOrgResource(orgID)); err != nil {
		return nil, err
	}

	plan, err := m.stores.Audits.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.OrgID != orgID {
		return nil, store.ErrPlanNotFound
	}

	return plan, nil
}

// UpdatePlan replaces the plan's caller-supplied fields with params in
// full; params must carry a valid status, there is no merge with the stored
// row. Write access.
func (m *Manager) UpdatePlan(ctx context.Context, actor *authz.Subject, orgID, planID uuid.UUID, params PlanParams) (*models.AuditPlan, error) {
	if err := authz.Require(actor, authz.WriteOrgResource(orgID)); err != nil {
		return nil, err
	}
	if !params.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	plan, err := m.stores.Audits.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.OrgID != orgID {
		return nil, store.ErrPlanNotFound
	}

	plan.Title = params.Title
	plan.Description = params.Description
	plan.ISOStandard = params.ISOStandard
	plan.Status = params.Status
	plan.PlannedStartDate = params.PlannedStartDate
	plan.PlannedEndDate = params.PlannedEndDate

	if err := m.stores.Audits.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

// DeletePlan deletes an audit plan and its findings. Write access.
func (m *Manager) DeletePlan(ctx context.Context, actor *authz.Subject, orgID, planID uuid.UUID) error {
	if err := authz.Require(actor, authz.WriteOrgResource(orgID)); err != nil {
		return err
	}

	plan, err := m.stores.Audits.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	if plan.OrgID != orgID {
		return store.ErrPlanNotFound
	}

	return m.stores.Audits.DeletePlan(ctx, planID)
}

// ListPlans returns the audit plans of an organization. Read access.
func (m *Manager) ListPlans(ctx context.Context, actor *authz.Subject, orgID uuid.UUID) ([]*models.AuditPlan, error) {
	if err := authz.Require(actor, authz.ReadOrgResource(orgID)); err != nil {
		return nil, err
	}

	return m.stores.Audits.ListPlansByOrg(ctx, orgID)
}

// CreateFinding raises a finding against a plan. Write access.
func (m *Manager) CreateFinding(ctx context.Context, actor *authz.Subject, orgID, planID uuid.UUID, params FindingParams) (*models.Finding, error) {
	if err := authz.Require(actor, authz.WriteOrgResource(orgID)); err != nil {
		return nil, err
	}

	if params.Severity == "" {
		params.Severity = models.SeverityObservation
	}
	if !params.Severity.Valid() {
		return nil, ErrInvalidSeverity
	}

	plan, err := m.stores.Audits.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.OrgID != orgID {
		return nil, store.ErrPlanNotFound
	}

	now := time.Now()
	finding := &models.Finding{
		FindingID:        uuid.Must(uuid.NewV7()),
		OrgID:            orgID,
		PlanID:           planID,
		Clause:           params.Clause,
		Description:      params.Description,
		Severity:         params.Severity,
		CorrectiveAction: params.CorrectiveAction,
		Evidence:         params.Evidence,
		DueDate:          params.DueDate,
		ResolvedAt:       params.ResolvedAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := m.stores.Audits.CreateFinding(ctx, finding); err != nil {
		return nil, err
	}

	return finding, nil
}

// UpdateFinding replaces the finding's caller-supplied fields with params
// in full, like UpdatePlan. Write access.
func (m *Manager) UpdateFinding(ctx context.Context, actor *authz.Subject, orgID, findingID uuid.UUID, params FindingParams) (*models.Finding, error) {
	if err := authz.Require(actor, authz.WriteOrgResource(orgID)); err != nil {
		return nil, err
	}
	if !params.Severity.Valid() {
		return nil, ErrInvalidSeverity
	}

	finding, err := m.stores.Audits.GetFinding(ctx, findingID)
	if err != nil {
		return nil, err
	}
	if finding.OrgID != orgID {
		return nil, store.ErrFindingNotFound
	}

	finding.Clause = params.Clause
	finding.Description = params.Description
	finding.Severity = params.Severity
	finding.CorrectiveAction = params.CorrectiveAction
	finding.Evidence = params.Evidence
	finding.DueDate = params.DueDate
	finding.ResolvedAt = params.ResolvedAt

	if err := m.stores.Audits.UpdateFinding(ctx, finding); err != nil {
		return nil, err
	}

	return finding, nil
}

// DeleteFinding deletes a finding. Write access.
func (m *Manager) DeleteFinding(ctx context.Context, actor *authz.Subject, orgID, findingID uuid.UUID) error {
	if err := authz.Require(actor, authz.WriteOrgResource(orgID)); err != nil {
		return err
	}

	finding, err := m.stores.Audits.GetFinding(ctx, findingID)
	if err != nil {
		return err
	}
	if finding.OrgID != orgID {
		return store.ErrFindingNotFound
	}

	return m.stores.Audits.DeleteFinding(ctx, findingID)
}

// ListFindings returns the findings of a plan. Read access.
func (m *Manager) ListFindings(ctx context.Context, actor *authz.Subject, orgID, planID uuid.UUID) ([]*models.Finding, error) {
	if err := authz.Require(actor, authz.ReadOrgResource(orgID)); err != nil {
		return nil, err
	}

	plan, err := m.stores.Audits.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.OrgID != orgID {
		return nil, store.ErrPlanNotFound
	}

	return m.stores.Audits.ListFindingsByPlan(ctx, planID)
}

// AddDocument records a document row in an organization. Write access.
func (m *Manager) AddDocument(ctx context.Context, actor *authz.Subject, orgID uuid.UUID, params DocumentParams) (*models.Document, error) {
	if err := authz.Require(actor, authz.WriteOrgResource(orgID)); err != nil {
		return nil, err
	}

	uploadedBy := actor.PrincipalID
	doc := &models.Document{
		DocumentID:  uuid.Must(uuid.NewV7()),
		OrgID:       orgID,
		PlanID:      params.PlanID,
		FileName:    params.FileName,
		FileType:    params.FileType,
		FileSize:    params.FileSize,
		StoragePath: params.StoragePath,
		Description: params.Description,
		UploadedBy:  &uploadedBy,
		CreatedAt:   time.Now(),
	}

	if err := m.stores.Documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// GetDocument retrieves a document row. Read access.
func (m *Manager) GetDocument(ctx context.Context, actor *authz.Subject, orgID, documentID uuid.UUID) (*models.Document, error) {
	if err := authz.Require(actor, authz.ReadOrgResource(orgID)); err != nil {
		return nil, err
	}

	doc, err := m.stores.Documents.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OrgID != orgID {
		return nil, store.ErrDocumentNotFound
	}

	return doc, nil
}

// UpdateDocument updates a document's description and plan link. Write access.
func (m *Manager) UpdateDocument(ctx context.Context, actor *authz.Subject, orgID, documentID uuid.UUID, description *string, planID *uuid.UUID) (*models.Document, error) {
	if err := authz.Require(actor, authz.WriteOrgResource(orgID)); err != nil {
		return nil, err
	}

	doc, err := m.stores.Documents.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OrgID != orgID {
		return nil, store.ErrDocumentNotFound
	}

	doc.Description = description
	doc.PlanID = planID

	if err := m.stores.Documents.Update(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// DeleteDocument removes a document row. Write access.
func (m *Manager) DeleteDocument(ctx context.Context, actor *authz.Subject, orgID, documentID uuid.UUID) error {
	if err := authz.Require(actor, authz.WriteOrgResource(orgID)); err != nil {
		return err
	}

	doc, err := m.stores.Documents.Get(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.OrgID != orgID {
		return store.ErrDocumentNotFound
	}

	return m.stores.Documents.Delete(ctx, documentID)
}

// ListDocuments returns the documents of an organization. Read access.
func (m *Manager) ListDocuments(ctx context.Context, actor *authz.Subject, orgID uuid.UUID) ([]*models.Document, error) {
	if err := authz.Require(actor, authz.ReadOrgResource(orgID)); err != nil {
		return nil, err
	}

	return m.stores.Documents.ListByOrg(ctx, orgID)
}

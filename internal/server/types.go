package server

import (
	"time"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/google/uuid"
)

// Wire shapes for the JSON API. Domain models carry no serialization tags;
// the mapping lives here.

type orgResponse struct {
	OrgID     uuid.UUID `json:"org_id"`
	Name      string    `json:"name"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toOrgResponse(org *models.Organization) orgResponse {
	return orgResponse{
		OrgID:     org.OrgID,
		Name:      org.Name,
		LogoURL:   org.LogoURL,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}

func toOrgResponses(orgs []*models.Organization) []orgResponse {
	out := make([]orgResponse, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, toOrgResponse(org))
	}
	return out
}

type membershipResponse struct {
	MembershipID uuid.UUID   `json:"membership_id"`
	OrgID        uuid.UUID   `json:"org_id"`
	PrincipalID  uuid.UUID   `json:"principal_id"`
	Role         models.Role `json:"role"`
	InvitedBy    *uuid.UUID  `json:"invited_by,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

func toMembershipResponse(m *models.Membership) membershipResponse {
	return membershipResponse{
		MembershipID: m.MembershipID,
		OrgID:        m.OrgID,
		PrincipalID:  m.PrincipalID,
		Role:         m.Role,
		InvitedBy:    m.InvitedBy,
		CreatedAt:    m.CreatedAt,
	}
}

func toMembershipResponses(memberships []*models.Membership) []membershipResponse {
	out := make([]membershipResponse, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, toMembershipResponse(m))
	}
	return out
}

type principalResponse struct {
	PrincipalID uuid.UUID `json:"principal_id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	SuperAdmin  bool      `json:"is_super_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

func toPrincipalResponse(p *models.Principal) principalResponse {
	return principalResponse{
		PrincipalID: p.PrincipalID,
		Email:       p.Email,
		FullName:    p.FullName,
		AvatarURL:   p.AvatarURL,
		SuperAdmin:  p.SuperAdmin,
		CreatedAt:   p.CreatedAt,
	}
}

type planResponse struct {
	PlanID           uuid.UUID          `json:"plan_id"`
	OrgID            uuid.UUID          `json:"org_id"`
	Title            string             `json:"title"`
	Description      *string            `json:"description,omitempty"`
	ISOStandard      string             `json:"iso_standard"`
	Status           models.AuditStatus `json:"status"`
	PlannedStartDate *time.Time         `json:"planned_start_date,omitempty"`
	PlannedEndDate   *time.Time         `json:"planned_end_date,omitempty"`
	CreatedBy        *uuid.UUID         `json:"created_by,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func toPlanResponse(p *models.AuditPlan) planResponse {
	return planResponse{
		PlanID:           p.PlanID,
		OrgID:            p.OrgID,
		Title:            p.Title,
		Description:      p.Description,
		ISOStandard:      p.ISOStandard,
		Status:           p.Status,
		PlannedStartDate: p.PlannedStartDate,
		PlannedEndDate:   p.PlannedEndDate,
		CreatedBy:        p.CreatedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toPlanResponses(plans []*models.AuditPlan) []planResponse {
	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	return out
}

type findingResponse struct {
	FindingID        uuid.UUID              `json:"finding_id"`
	OrgID            uuid.UUID              `json:"org_id"`
	PlanID           uuid.UUID              `json:"plan_id"`
	Clause           string                 `json:"clause"`
	Description      string                 `json:"description"`
	Severity         models.FindingSeverity `json:"severity"`
	CorrectiveAction *string                `json:"corrective_action,omitempty"`
	Evidence         *string                `json:"evidence,omitempty"`
	DueDate          *time.Time             `json:"due_date,omitempty"`
	ResolvedAt       *time.Time             `json:"resolved_at,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

func toFindingResponse(f *models.Finding) findingResponse {
	return findingResponse{
		FindingID:        f.FindingID,
		OrgID:            f.OrgID,
		PlanID:           f.PlanID,
		Clause:           f.Clause,
		Description:      f.Description,
		Severity:         f.Severity,
		CorrectiveAction: f.CorrectiveAction,
		Evidence:         f.Evidence,
		DueDate:          f.DueDate,
		ResolvedAt:       f.ResolvedAt,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}

func toFindingResponses(findings []*models.Finding) []findingResponse {
	out := make([]findingResponse, 0, len(findings))
	for _, f := range findings {
		out = append(out, toFindingResponse(f))
	}
	return out
}

type documentResponse struct {
	DocumentID  uuid.UUID  `json:"document_id"`
	OrgID       uuid.UUID  `json:"org_id"`
	PlanID      *uuid.UUID `json:"plan_id,omitempty"`
	FileName    string     `json:"file_name"`
	FileType    *string    `json:"file_type,omitempty"`
	FileSize    *int64     `json:"file_size,omitempty"`
	StoragePath string     `json:"storage_path"`
	Description *string    `json:"description,omitempty"`
	UploadedBy  *uuid.UUID `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toDocumentResponse(d *models.Document) documentResponse {
	return documentResponse{
		DocumentID:  d.DocumentID,
		OrgID:       d.OrgID,
		PlanID:      d.PlanID,
		FileName:    d.FileName,
		FileType:    d.FileType,
		FileSize:    d.FileSize,
		StoragePath: d.StoragePath,
		Description: d.Description,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
	}
}

func toDocumentResponses(docs []*models.Document) []documentResponse {
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	return out
}

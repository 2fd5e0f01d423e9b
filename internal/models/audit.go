package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditStatus is the lifecycle state of an audit plan.
type AuditStatus string

const (
	AuditStatusDraft      AuditStatus = "draft"
	AuditStatusPlanned    AuditStatus = "planned"
	AuditStatusInProgress AuditStatus = "in_progress"
	AuditStatusCompleted  AuditStatus = "completed"
	AuditStatusCancelled  AuditStatus = "cancelled"
)

// Valid reports whether s is one of the known audit statuses.
func (s AuditStatus) Valid() bool {
	switch s {
	case AuditStatusDraft, AuditStatusPlanned, AuditStatusInProgress,
		AuditStatusCompleted, AuditStatusCancelled:
		return true
	}
	return false
}

// FindingSeverity classifies an audit finding.
type FindingSeverity string

const (
	SeverityObservation FindingSeverity = "observation"
	SeverityMinor       FindingSeverity = "minor"
	SeverityMajor       FindingSeverity = "major"
	SeverityCritical    FindingSeverity = "critical"
)

// Valid reports whether s is one of the known severities.
func (s FindingSeverity) Valid() bool {
	switch s {
	case SeverityObservation, SeverityMinor, SeverityMajor, SeverityCritical:
		return true
	}
	return false
}

// AuditPlan is an organization-scoped audit against an ISO standard.
type AuditPlan struct {
	PlanID           uuid.UUID // UUIDv7
	OrgID            uuid.UUID // FK to organizations, cascade on delete
	Title            string
	Description      *string
	ISOStandard      string // e.g. "ISO 9001:2015"
	Status           AuditStatus
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time
	CreatedBy        *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Finding is a nonconformity or observation raised against an audit plan.
type Finding struct {
	FindingID        uuid.UUID // UUIDv7
	OrgID            uuid.UUID // FK to organizations, cascade on delete
	PlanID           uuid.UUID // FK to audit_plans, cascade on delete
	Clause           string    // Standard clause reference, e.g. "7.5.3"
	Description      string
	Severity         FindingSeverity
	CorrectiveAction *string
	Evidence         *string
	DueDate          *time.Time
	ResolvedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

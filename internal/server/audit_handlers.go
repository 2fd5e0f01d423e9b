package server

import (
	"net/http"
	"time"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/tenant"
)

type planRequest struct {
	Title            string             `json:"title"`
	Description      *string            `json:"description"`
	ISOStandard      string             `json:"iso_standard"`
	Status           models.AuditStatus `json:"status"`
	PlannedStartDate *time.Time         `json:"planned_start_date"`
	PlannedEndDate   *time.Time         `json:"planned_end_date"`
}

func (p planRequest) params() tenant.PlanParams {
	return tenant.PlanParams{
		Title:            p.Title,
		Description:      p.Description,
		ISOStandard:      p.ISOStandard,
		Status:           p.Status,
		PlannedStartDate: p.PlannedStartDate,
		PlannedEndDate:   p.PlannedEndDate,
	}
}

type findingRequest struct {
	Clause           string                 `json:"clause"`
	Description      string                 `json:"description"`
	Severity         models.FindingSeverity `json:"severity"`
	CorrectiveAction *string                `json:"corrective_action"`
	Evidence         *string                `json:"evidence"`
	DueDate          *time.Time             `json:"due_date"`
	ResolvedAt       *time.Time             `json:"resolved_at"`
}

func (f findingRequest) params() tenant.FindingParams {
	return tenant.FindingParams{
		Clause:           f.Clause,
		Description:      f.Description,
		Severity:         f.Severity,
		CorrectiveAction: f.CorrectiveAction,
		Evidence:         f.Evidence,
		DueDate:          f.DueDate,
		ResolvedAt:       f.ResolvedAt,
	}
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}

	plans, err := s.manager.ListPlans(r.Context(), actor, orgID)
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlanResponses(plans))
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}

	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Title == "" {
		badRequest(w, "title is required")
		return
	}

	plan, err := s.manager.CreatePlan(r.Context(), actor, orgID, req.params())
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPlanResponse(plan))
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}
	planID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	plan, err := s.manager.GetPlan(r.Context(), actor, orgID, planID)
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlanResponse(plan))
}

// updatePlan replaces every caller-supplied field of the plan. The body must
// carry the complete plan, including title and status; omitted fields are
// cleared, not preserved.
func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}
	planID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Title == "" {
		badRequest(w, "title is required")
		return
	}

	plan, err := s.manager.UpdatePlan(r.Context(), actor, orgID, planID, req.params())
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlanResponse(plan))
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}
	planID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.manager.DeletePlan(r.Context(), actor, orgID, planID); err != nil {
		respondError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listFindings(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}
	planID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	findings, err := s.manager.ListFindings(r.Context(), actor, orgID, planID)
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFindingResponses(findings))
}

func (s *Server) createFinding(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}
	planID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req findingRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Description == "" {
		badRequest(w, "description is required")
		return
	}

	finding, err := s.manager.CreateFinding(r.Context(), actor, orgID, planID, req.params())
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFindingResponse(finding))
}

// updateFinding replaces every caller-supplied field of the finding, like
// updatePlan. The body must carry the complete finding including severity.
func (s *Server) updateFinding(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}
	findingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req findingRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Description == "" {
		badRequest(w, "description is required")
		return
	}

	finding, err := s.manager.UpdateFinding(r.Context(), actor, orgID, findingID, req.params())
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFindingResponse(finding))
}

func (s *Server) deleteFinding(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}
	findingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.manager.DeleteFinding(r.Context(), actor, orgID, findingID); err != nil {
		respondError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

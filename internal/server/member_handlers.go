package server

import (
	"net/http"
	"strings"

	"github.com/auditgate/auditgate/internal/models"
)

type addMemberRequest struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type changeRoleRequest struct {
	Role models.Role `json:"role"`
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}

	memberships, err := s.manager.ListMembers(r.Context(), actor, orgID)
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMembershipResponses(memberships))
}

func (s *Server) addMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		badRequest(w, "email is required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}

	membership, err := s.manager.AddMember(r.Context(), actor, orgID, req.Email, req.Role)
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMembershipResponse(membership))
}

func (s *Server) changeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}
	membershipID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := s.manager.ChangeRole(r.Context(), actor, orgID, membershipID, req.Role); err != nil {
		respondError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}
	membershipID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.manager.RemoveMember(r.Context(), actor, orgID, membershipID); err != nil {
		respondError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

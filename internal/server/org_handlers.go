package server

import (
	"net/http"
	"strings"
)

type createOrgRequest struct {
	Name string `json:"name"`
}

type renameOrgRequest struct {
	Name string `json:"name"`
}

func (s *Server) listOrgs(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}

	orgs, err := s.manager.ListOrganizations(r.Context(), actor)
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrgResponses(orgs))
}

func (s *Server) createOrg(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}

	var req createOrgRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(w, "name is required")
		return
	}

	org, err := s.manager.CreateOrganization(r.Context(), actor, strings.TrimSpace(req.Name))
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrgResponse(org))
}

func (s *Server) getOrg(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}

	org, err := s.manager.GetOrganization(r.Context(), actor, orgID)
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrgResponse(org))
}

func (s *Server) renameOrg(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}

	var req renameOrgRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(w, "name is required")
		return
	}

	org, err := s.manager.RenameOrganization(r.Context(), actor, orgID, strings.TrimSpace(req.Name))
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrgResponse(org))
}

func (s *Server) deleteOrg(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}

	if err := s.manager.DeleteOrganization(r.Context(), actor, orgID); err != nil {
		respondError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

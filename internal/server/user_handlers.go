package server

import (
	"net/http"
	"strings"
)

type setSuperAdminRequest struct {
	Enabled bool `json:"enabled"`
}

type updateProfileRequest struct {
	FullName string `json:"full_name"`
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}

	principals, err := s.manager.ListAllUsers(r.Context(), actor)
	if err != nil {
		respondError(r, w, err)
		return
	}

	out := make([]principalResponse, 0, len(principals))
	for _, p := range principals {
		out = append(out, toPrincipalResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) setSuperAdmin(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	target, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req setSuperAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := s.manager.SetSuperAdmin(r.Context(), actor, target, req.Enabled); err != nil {
		respondError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}

	principal, err := s.manager.GetProfile(r.Context(), actor)
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPrincipalResponse(principal))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		badRequest(w, "full_name is required")
		return
	}

	principal, err := s.manager.UpdateProfile(r.Context(), actor, strings.TrimSpace(req.FullName))
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPrincipalResponse(principal))
}

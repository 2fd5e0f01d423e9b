package server

import (
	"net/http"

	"github.com/auditgate/auditgate/internal/tenant"
	"github.com/google/uuid"
)

type addDocumentRequest struct {
	FileName    string     `json:"file_name"`
	FileType    *string    `json:"file_type"`
	FileSize    *int64     `json:"file_size"`
	StoragePath string     `json:"storage_path"`
	Description *string    `json:"description"`
	PlanID      *uuid.UUID `json:"plan_id"`
}

type updateDocumentRequest struct {
	Description *string    `json:"description"`
	PlanID      *uuid.UUID `json:"plan_id"`
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}

	docs, err := s.manager.ListDocuments(r.Context(), actor, orgID)
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponses(docs))
}

func (s *Server) addDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}

	var req addDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.FileName == "" || req.StoragePath == "" {
		badRequest(w, "file_name and storage_path are required")
		return
	}

	doc, err := s.manager.AddDocument(r.Context(), actor, orgID, tenant.DocumentParams{
		FileName:    req.FileName,
		FileType:    req.FileType,
		FileSize:    req.FileSize,
		StoragePath: req.StoragePath,
		Description: req.Description,
		PlanID:      req.PlanID,
	})
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}
	documentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := s.manager.GetDocument(r.Context(), actor, orgID, documentID)
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}
	documentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	doc, err := s.manager.UpdateDocument(r.Context(), actor, orgID, documentID, req.Description, req.PlanID)
	if err != nil {
		respondError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := subject(w, r)
	if !ok {
		return
	}
	orgID, ok := pathID(w, r, "org")
	if !ok {
		return
	}
	documentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.manager.DeleteDocument(r.Context(), actor, orgID, documentID); err != nil {
		respondError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/auditgate/auditgate/internal/auth"
	"github.com/auditgate/auditgate/internal/authz"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/auditgate/auditgate/internal/tenant"
	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps domain errors onto HTTP statuses. Denials carry no
// detail beyond the status, so a denied caller cannot distinguish a missing
// organization from one they simply cannot see.
func respondError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})

	case errors.Is(err, authz.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "permission denied"})

	case errors.Is(err, tenant.ErrInvalidRole),
		errors.Is(err, tenant.ErrInvalidStatus),
		errors.Is(err, tenant.ErrInvalidSeverity):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.Is(err, store.ErrPrincipalNotFound),
		errors.Is(err, store.ErrOrganizationNotFound),
		errors.Is(err, store.ErrMembershipNotFound),
		errors.Is(err, store.ErrPlanNotFound),
		errors.Is(err, store.ErrFindingNotFound),
		errors.Is(err, store.ErrDocumentNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.Is(err, store.ErrPrincipalAlreadyExists),
		errors.Is(err, store.ErrOrganizationAlreadyExists),
		errors.Is(err, store.ErrMembershipAlreadyExists),
		errors.Is(err, store.ErrSuperAdminExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})

	case errors.Is(err, store.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})

	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

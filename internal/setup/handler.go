package setup

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/auditgate/auditgate/internal/auth"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/rs/zerolog"
)

// Handler serves the method-routed /admin-setup endpoint. GET is public and
// reports setup status; POST promotes the authenticated caller while the
// bootstrap is still open. The wire contract is fixed: browser setup pages
// call this before any login exists, hence the permissive CORS headers.
type Handler struct {
	controller *Controller
	verifier   *auth.Verifier
	principals store.PrincipalStore
}

// NewHandler creates the /admin-setup handler.
func NewHandler(controller *Controller, verifier *auth.Verifier, principals store.PrincipalStore) *Handler {
	return &Handler{
		controller: controller,
		verifier:   verifier,
		principals: principals,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		h.status(w, r)
	case http.MethodPost:
		h.claim(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
	}
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	hasAdmin, err := h.controller.Status(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("setup status check failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "setup status unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"hasAdmin": hasAdmin})
}

func (h *Handler) claim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenStr, ok := auth.BearerToken(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "no authorization header"})
		return
	}

	principalID, err := h.verifier.Verify(tokenStr)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid user"})
		return
	}

	// The caller must be a registered principal; a syntactically valid token
	// for an unknown subject is rejected the same way as a bad token.
	if _, err := h.principals.Get(ctx, principalID); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid user"})
		return
	}

	err = h.controller.Claim(ctx, principalID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "You are now a super admin!",
		})
	case errors.Is(err, store.ErrSuperAdminExists):
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error": "A super admin already exists. Setup is complete.",
		})
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("bootstrap claim failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "setup failed"})
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, content-type")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

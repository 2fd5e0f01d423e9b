package server

import (
	"net/http"

	"github.com/auditgate/auditgate/internal/auth"
	"github.com/auditgate/auditgate/internal/authz"
	"github.com/auditgate/auditgate/internal/httputil"
	"github.com/auditgate/auditgate/internal/setup"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/auditgate/auditgate/internal/tenant"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Server wires the tenant manager, the setup endpoints and the JSON API.
type Server struct {
	stores   store.Stores
	manager  *tenant.Manager
	setup    *setup.Handler
	verifier *auth.Verifier
	origins  []string
}

// New creates a new server with the given stores and token verifier.
func New(stores store.Stores, verifier *auth.Verifier, corsOrigins []string) *Server {
	controller := setup.NewController(stores.Principals)

	return &Server{
		stores:   stores,
		manager:  tenant.NewManager(stores),
		setup:    setup.NewHandler(controller, verifier, stores.Principals),
		verifier: verifier,
		origins:  corsOrigins,
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler(log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint for load balancer
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Setup endpoints manage their own method routing and CORS headers;
	// GET is public, POST authenticates inside the handler.
	mux.Handle("/admin-setup", s.setup)

	api := http.NewServeMux()

	api.HandleFunc("GET /api/orgs", s.listOrgs)
	api.HandleFunc("POST /api/orgs", s.createOrg)
	api.HandleFunc("PATCH /api/orgs/{org}", s.renameOrg)
	api.HandleFunc("GET /api/orgs/{org}", s.getOrg)
	api.HandleFunc("DELETE /api/orgs/{org}", s.deleteOrg)

	api.HandleFunc("GET /api/orgs/{org}/members", s.listMembers)
	api.HandleFunc("POST /api/orgs/{org}/members", s.addMember)
	api.HandleFunc("PATCH /api/orgs/{org}/members/{id}", s.changeRole)
	api.HandleFunc("DELETE /api/orgs/{org}/members/{id}", s.removeMember)

	api.HandleFunc("GET /api/users", s.listUsers)
	api.HandleFunc("POST /api/users/{id}/super-admin", s.setSuperAdmin)

	api.HandleFunc("GET /api/orgs/{org}/audits", s.listPlans)
	api.HandleFunc("POST /api/orgs/{org}/audits", s.createPlan)
	api.HandleFunc("GET /api/orgs/{org}/audits/{id}", s.getPlan)
	api.HandleFunc("PATCH /api/orgs/{org}/audits/{id}", s.updatePlan)
	api.HandleFunc("DELETE /api/orgs/{org}/audits/{id}", s.deletePlan)

	api.HandleFunc("GET /api/orgs/{org}/audits/{id}/findings", s.listFindings)
	api.HandleFunc("POST /api/orgs/{org}/audits/{id}/findings", s.createFinding)
	api.HandleFunc("PATCH /api/orgs/{org}/findings/{id}", s.updateFinding)
	api.HandleFunc("DELETE /api/orgs/{org}/findings/{id}", s.deleteFinding)

	api.HandleFunc("GET /api/orgs/{org}/documents", s.listDocuments)
	api.HandleFunc("POST /api/orgs/{org}/documents", s.addDocument)
	api.HandleFunc("GET /api/orgs/{org}/documents/{id}", s.getDocument)
	api.HandleFunc("PATCH /api/orgs/{org}/documents/{id}", s.updateDocument)
	api.HandleFunc("DELETE /api/orgs/{org}/documents/{id}", s.deleteDocument)

	api.HandleFunc("GET /api/me", s.getProfile)
	api.HandleFunc("PATCH /api/me", s.updateProfile)

	// CORS from the configured origin list applies to the API only. The
	// setup endpoint must stay reachable from any origin, so it sits
	// outside the wrapper and serves its own fixed headers, preflight
	// included.
	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	authMiddleware := auth.Middleware(s.verifier, s.stores.Principals, s.stores.Memberships)
	mux.Handle("/api/", c.Handler(authMiddleware(api)))

	handler := httputil.ClientIPMiddleware()(mux)
	handler = httputil.RequestLogger(log)(handler)

	return handler
}

// subject returns the authenticated subject installed by the auth
// middleware, writing 401 when it is absent.
func subject(w http.ResponseWriter, r *http.Request) (*authz.Subject, bool) {
	s, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
	}
	return s, ok
}

// pathID parses the named path segment as a UUID, writing 404 on a
// malformed value.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return uuid.Nil, false
	}
	return id, true
}

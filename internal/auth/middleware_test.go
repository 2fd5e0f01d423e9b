package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auditgate/auditgate/internal/authz"
	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	privPEM, pubPEM := testKeyPair(t)
	verifier, err := NewVerifier(pubPEM)
	require.NoError(t, err)

	stores := memory.NewStores()
	ctx := context.Background()

	now := time.Now()
	principal := &models.Principal{
		PrincipalID: uuid.Must(uuid.NewV7()),
		Email:       "member@example.com",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, stores.Principals.Create(ctx, principal))

	org := &models.Organization{
		OrgID:     uuid.Must(uuid.NewV7()),
		Name:      "Acme",
		CreatedAt: now,
		UpdatedAt: now,
	}
	founder := &models.Membership{
		MembershipID: uuid.Must(uuid.NewV7()),
		OrgID:        org.OrgID,
		PrincipalID:  principal.PrincipalID,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
	}
	require.NoError(t, stores.Organizations.CreateWithFounder(ctx, org, founder))

	middleware := Middleware(verifier, stores.Principals, stores.Memberships)

	var captured *authz.Subject
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token installs the subject with current roles", func(t *testing.T) {
		captured = nil
		tokenStr, err := IssueToken(privPEM, principal.PrincipalID, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/orgs", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		require.Equal(t, principal.PrincipalID, captured.PrincipalID)
		require.Equal(t, models.RoleAdmin, captured.Roles[org.OrgID])
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		captured = nil
		req := httptest.NewRequest(http.MethodGet, "/api/orgs", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Nil(t, captured)
	})

	t.Run("token for an unknown principal is rejected", func(t *testing.T) {
		captured = nil
		tokenStr, err := IssueToken(privPEM, uuid.Must(uuid.NewV7()), time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/orgs", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Nil(t, captured)
	})
}

func TestBearerToken(t *testing.T) {
	t.Run("extracts the token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc.def.ghi")

		token, ok := BearerToken(req)
		require.True(t, ok)
		require.Equal(t, "abc.def.ghi", token)
	})

	t.Run("rejects other schemes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		_, ok := BearerToken(req)
		require.False(t, ok)
	})

	t.Run("rejects missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		_, ok := BearerToken(req)
		require.False(t, ok)
	})
}

package setup

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auditgate/auditgate/internal/auth"
	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/auditgate/auditgate/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type setupFixture struct {
	handler    *Handler
	principals store.PrincipalStore
	privPEM    string
}

func newSetupFixture(t *testing.T) *setupFixture {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	privDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	privPEM := string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: privDER}))
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}))

	verifier, err := auth.NewVerifier(pubPEM)
	require.NoError(t, err)

	stores := memory.NewStores()
	controller := NewController(stores.Principals)

	return &setupFixture{
		handler:    NewHandler(controller, verifier, stores.Principals),
		principals: stores.Principals,
		privPEM:    privPEM,
	}
}

func (f *setupFixture) addPrincipal(t *testing.T, email string) *models.Principal {
	t.Helper()
	now := time.Now()
	p := &models.Principal{
		PrincipalID: uuid.Must(uuid.NewV7()),
		Email:       email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, f.principals.Create(context.Background(), p))
	return p
}

func (f *setupFixture) request(t *testing.T, method string, principal *models.Principal) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/admin-setup", nil)
	if principal != nil {
		tokenStr, err := auth.IssueToken(f.privPEM, principal.PrincipalID, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandler_Status(t *testing.T) {
	f := newSetupFixture(t)

	t.Run("reports no admin before the claim", func(t *testing.T) {
		rec := f.request(t, http.MethodGet, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, map[string]any{"hasAdmin": false}, decodeBody(t, rec))
	})

	t.Run("reports admin after the claim", func(t *testing.T) {
		p := f.addPrincipal(t, "first@example.com")
		rec := f.request(t, http.MethodPost, p)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.request(t, http.MethodGet, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, map[string]any{"hasAdmin": true}, decodeBody(t, rec))
	})
}

func TestHandler_Claim(t *testing.T) {
	t.Run("first claim succeeds with the fixed message", func(t *testing.T) {
		f := newSetupFixture(t)
		p := f.addPrincipal(t, "first@example.com")

		rec := f.request(t, http.MethodPost, p)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, true, body["success"])
		require.Equal(t, "You are now a super admin!", body["message"])
	})

	t.Run("later claims get 403 with the fixed message", func(t *testing.T) {
		f := newSetupFixture(t)
		first := f.addPrincipal(t, "first@example.com")
		second := f.addPrincipal(t, "second@example.com")

		rec := f.request(t, http.MethodPost, first)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.request(t, http.MethodPost, second)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "A super admin already exists. Setup is complete.", decodeBody(t, rec)["error"])

		// The winner re-claiming is closed out the same way.
		rec = f.request(t, http.MethodPost, first)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		f := newSetupFixture(t)

		rec := f.request(t, http.MethodPost, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "no authorization header", decodeBody(t, rec)["error"])
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newSetupFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/admin-setup", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid user", decodeBody(t, rec)["error"])
	})

	t.Run("valid token for an unregistered principal", func(t *testing.T) {
		f := newSetupFixture(t)
		ghost := &models.Principal{PrincipalID: uuid.Must(uuid.NewV7())}

		rec := f.request(t, http.MethodPost, ghost)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid user", decodeBody(t, rec)["error"])
	})
}

func TestHandler_CORS(t *testing.T) {
	f := newSetupFixture(t)

	t.Run("preflight", func(t *testing.T) {
		rec := f.request(t, http.MethodOptions, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "authorization, content-type", rec.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("headers are present on every response", func(t *testing.T) {
		rec := f.request(t, http.MethodGet, nil)
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

		rec = f.request(t, http.MethodPost, nil)
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	f := newSetupFixture(t)

	rec := f.request(t, http.MethodDelete, nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

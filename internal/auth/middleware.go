package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/auditgate/auditgate/internal/authz"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/rs/zerolog"
)

type contextKey string

const subjectContextKey contextKey = "auth_subject"

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

// SubjectFromContext returns the authenticated subject stored by Middleware.
func SubjectFromContext(ctx context.Context) (*authz.Subject, bool) {
	s, ok := ctx.Value(subjectContextKey).(*authz.Subject)
	return s, ok
}

// WithSubject returns a context carrying the subject. Exposed for tests.
func WithSubject(ctx context.Context, s *authz.Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, s)
}

// Middleware authenticates the request's bearer token and builds the
// authorization subject from the principal's current memberships. The
// membership set is re-fetched on every request; nothing is cached across
// requests, so role changes take effect immediately.
func Middleware(verifier *Verifier, principals store.PrincipalStore, memberships store.MembershipStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenStr, ok := BearerToken(r)
			if !ok {
				unauthenticated(w)
				return
			}

			principalID, err := verifier.Verify(tokenStr)
			if err != nil {
				unauthenticated(w)
				return
			}

			principal, err := principals.Get(ctx, principalID)
			if err != nil {
				// A token for an unknown principal is treated the same as an
				// invalid token.
				unauthenticated(w)
				return
			}

			current, err := memberships.ListByPrincipal(ctx, principalID)
			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("failed to load memberships")
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}

			subject := authz.NewSubject(principal, current)
			next.ServeHTTP(w, r.WithContext(WithSubject(ctx, subject)))
		})
	}
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"missing or invalid session token"}`))
}

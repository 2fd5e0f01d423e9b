package auth

import (
	"crypto/ecdsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrUnauthenticated is returned when a request carries no valid session
// token. The message never distinguishes missing from invalid tokens.
var ErrUnauthenticated = errors.New("unauthenticated")

// Verifier validates ES256 bearer tokens issued by the identity provider.
// The subject claim carries the principal ID.
type Verifier struct {
	publicKey *ecdsa.PublicKey
}

// NewVerifier creates a Verifier from a PEM-encoded ECDSA public key.
func NewVerifier(publicKeyPEM string) (*Verifier, error) {
	if publicKeyPEM == "" {
		return nil, errors.New("session token public key not provided")
	}

	publicKey, err := jwt.ParseECPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, err
	}

	return &Verifier{publicKey: publicKey}, nil
}

// Verify parses and validates a bearer token and returns the principal ID
// from the subject claim. All failures map to ErrUnauthenticated.
func (v *Verifier) Verify(tokenStr string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodES256 {
			return nil, errors.New("invalid signing method")
		}
		return v.publicKey, nil
	})
	if err != nil {
		log.Debug().Err(err).Msg("session token parse error")
		return uuid.Nil, ErrUnauthenticated
	}

	if !parsed.Valid {
		return uuid.Nil, ErrUnauthenticated
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return uuid.Nil, ErrUnauthenticated
	}

	principalID, err := uuid.Parse(claims.Subject)
	if err != nil {
		log.Debug().Err(err).Msg("session token subject is not a principal id")
		return uuid.Nil, ErrUnauthenticated
	}

	return principalID, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Principal represents an authenticated identity in the system.
// The identity provider owns the immutable identity (ID + email); profile
// fields are mutable here. SuperAdmin is a platform-wide privilege and is
// independent of any organization membership.
type Principal struct {
	PrincipalID uuid.UUID // UUIDv7, matches the identity provider's subject
	Email       string    // Lower-cased, unique
	FullName    string    // Display name, mutable
	AvatarURL   *string

	// Platform-wide privilege. Set only by the bootstrap claim or by another
	// super admin, never by a principal on themself.
	SuperAdmin bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

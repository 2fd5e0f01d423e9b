package store

import "errors"

// ErrUnavailable indicates the backing store could not be reached or the
// operation failed transiently. Callers may retry with backoff; nothing was
// committed.
var ErrUnavailable = errors.New("store unavailable")

// Stores bundles the per-concern store interfaces for wiring into services.
type Stores struct {
	Principals    PrincipalStore
	Organizations OrganizationStore
	Memberships   MembershipStore
	Audits        AuditStore
	Documents     DocumentStore
}

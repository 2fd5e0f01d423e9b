package memory

import (
	"sync"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
)

// NewStores wires a fresh DB into the full set of store interfaces.
func NewStores() store.Stores {
	db := NewDB()
	return store.Stores{
		Principals:    NewPrincipalStore(db),
		Organizations: NewOrganizationStore(db),
		Memberships:   NewMembershipStore(db),
		Audits:        NewAuditStore(db),
		Documents:     NewDocumentStore(db),
	}
}

// DB is the shared backing state for the in-memory stores.
// This implementation is for development and testing only - data is lost on
// restart. A single mutex covers every table, which is what makes the
// multi-row operations (founder insert, cascade delete, bootstrap claim)
// atomic, matching the transactional contract of the PostgreSQL stores.
type DB struct {
	mu sync.RWMutex

	principals    map[uuid.UUID]*models.Principal
	organizations map[uuid.UUID]*models.Organization
	memberships   map[uuid.UUID]*models.Membership
	plans         map[uuid.UUID]*models.AuditPlan
	findings      map[uuid.UUID]*models.Finding
	documents     map[uuid.UUID]*models.Document

	principalsByEmail map[string]uuid.UUID
}

// NewDB creates an empty in-memory database shared by the memory stores.
func NewDB() *DB {
	return &DB{
		principals:        make(map[uuid.UUID]*models.Principal),
		organizations:     make(map[uuid.UUID]*models.Organization),
		memberships:       make(map[uuid.UUID]*models.Membership),
		plans:             make(map[uuid.UUID]*models.AuditPlan),
		findings:          make(map[uuid.UUID]*models.Finding),
		documents:         make(map[uuid.UUID]*models.Document),
		principalsByEmail: make(map[string]uuid.UUID),
	}
}

// membershipByOrgAndPrincipal looks up the unique (org, principal) pair.
// Callers must hold the lock.
func (db *DB) membershipByOrgAndPrincipal(orgID, principalID uuid.UUID) (*models.Membership, bool) {
	for _, m := range db.memberships {
		if m.OrgID == orgID && m.PrincipalID == principalID {
			return m, true
		}
	}
	return nil, false
}

// hasSuperAdmin reports whether any principal holds the super admin flag.
// Callers must hold the lock.
func (db *DB) hasSuperAdmin() bool {
	for _, p := range db.principals {
		if p.SuperAdmin {
			return true
		}
	}
	return false
}

package postgres

import (
	"github.com/auditgate/auditgate/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewStores wires all PostgreSQL-backed stores onto one shared pool.
func NewStores(pool *pgxpool.Pool) store.Stores {
	return store.Stores{
		Principals:    NewPrincipalStore(pool),
		Organizations: NewOrganizationStore(pool),
		Memberships:   NewMembershipStore(pool),
		Audits:        NewAuditStore(pool),
		Documents:     NewDocumentStore(pool),
	}
}

// Package setup implements the one-time platform bootstrap: the very first
// registered principal may claim the super admin privilege, after which the
// path is permanently closed. There is deliberately no separate "claimed"
// flag; both operations derive the state from the same strongly consistent
// existence query so it cannot drift from the principal rows.
package setup

import (
	"context"

	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Controller drives the bootstrap state machine: Open while no super admin
// exists, Claimed forever after.
type Controller struct {
	principals store.PrincipalStore
}

// NewController creates a bootstrap controller over the principal store.
func NewController(principals store.PrincipalStore) *Controller {
	return &Controller{principals: principals}
}

// Status reports whether any super admin exists. Safe to call anonymously.
func (c *Controller) Status(ctx context.Context) (hasAdmin bool, err error) {
	return c.principals.HasSuperAdmin(ctx)
}

// Claim promotes the calling principal to super admin if and only if no
// super admin exists yet. The re-check and the promotion are a single
// atomic store operation, so concurrent claimants serialize and exactly one
// wins; the rest get store.ErrSuperAdminExists.
func (c *Controller) Claim(ctx context.Context, principalID uuid.UUID) error {
	if err := c.principals.ClaimFirstSuperAdmin(ctx, principalID); err != nil {
		return err
	}

	log.Info().
		Str("principal_id", principalID.String()).
		Msg("Bootstrap claimed, first super admin promoted")

	return nil
}

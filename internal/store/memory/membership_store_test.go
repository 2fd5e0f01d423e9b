package memory

import (
	"context"
	"testing"
	"time"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type membershipFixture struct {
	db          *DB
	memberships *MembershipStore
	org         *models.Organization
	admin       *models.Principal
	member      *models.Principal
}

func newMembershipFixture(t *testing.T) *membershipFixture {
	t.Helper()
	db := NewDB()
	ctx := context.Background()

	principals := NewPrincipalStore(db)
	orgs := NewOrganizationStore(db)

	admin := newPrincipal("admin@example.com")
	member := newPrincipal("member@example.com")
	require.NoError(t, principals.Create(ctx, admin))
	require.NoError(t, principals.Create(ctx, member))

	org := newOrg("Acme")
	require.NoError(t, orgs.CreateWithFounder(ctx, org, founderMembership(org, admin)))

	return &membershipFixture{
		db:          db,
		memberships: NewMembershipStore(db),
		org:         org,
		admin:       admin,
		member:      member,
	}
}

func (f *membershipFixture) membership(p *models.Principal, role models.Role) *models.Membership {
	return &models.Membership{
		MembershipID: uuid.Must(uuid.NewV7()),
		OrgID:        f.org.OrgID,
		PrincipalID:  p.PrincipalID,
		Role:         role,
		InvitedBy:    &f.admin.PrincipalID,
		CreatedAt:    time.Now(),
	}
}

func TestMembershipStore_Create(t *testing.T) {
	t.Run("create new membership", func(t *testing.T) {
		f := newMembershipFixture(t)
		ctx := context.Background()

		err := f.memberships.Create(ctx, f.membership(f.member, models.RoleMember))
		require.NoError(t, err)
	})

	t.Run("second membership for the same pair is rejected", func(t *testing.T) {
		f := newMembershipFixture(t)
		ctx := context.Background()

		require.NoError(t, f.memberships.Create(ctx, f.membership(f.member, models.RoleMember)))

		err := f.memberships.Create(ctx, f.membership(f.member, models.RoleAdmin))
		require.ErrorIs(t, err, store.ErrMembershipAlreadyExists)
	})

	t.Run("unknown organization is rejected", func(t *testing.T) {
		f := newMembershipFixture(t)
		ctx := context.Background()

		m := f.membership(f.member, models.RoleMember)
		m.OrgID = uuid.Must(uuid.NewV7())

		err := f.memberships.Create(ctx, m)
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})

	t.Run("unknown principal is rejected", func(t *testing.T) {
		f := newMembershipFixture(t)
		ctx := context.Background()

		m := f.membership(f.member, models.RoleMember)
		m.PrincipalID = uuid.Must(uuid.NewV7())

		err := f.memberships.Create(ctx, m)
		require.ErrorIs(t, err, store.ErrPrincipalNotFound)
	})
}

func TestMembershipStore_UpdateRole(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	m := f.membership(f.member, models.RoleMember)
	require.NoError(t, f.memberships.Create(ctx, m))

	require.NoError(t, f.memberships.UpdateRole(ctx, m.MembershipID, models.RoleAdmin))

	got, err := f.memberships.Get(ctx, m.MembershipID)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, got.Role)

	t.Run("unknown membership returns not found", func(t *testing.T) {
		err := f.memberships.UpdateRole(ctx, uuid.Must(uuid.NewV7()), models.RoleAdmin)
		require.ErrorIs(t, err, store.ErrMembershipNotFound)
	})
}

func TestMembershipStore_Delete(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	m := f.membership(f.member, models.RoleMember)
	require.NoError(t, f.memberships.Create(ctx, m))

	require.NoError(t, f.memberships.Delete(ctx, m.MembershipID))

	_, err := f.memberships.Get(ctx, m.MembershipID)
	require.ErrorIs(t, err, store.ErrMembershipNotFound)

	t.Run("removed member may be re-added", func(t *testing.T) {
		err := f.memberships.Create(ctx, f.membership(f.member, models.RoleMember))
		require.NoError(t, err)
	})
}

func TestMembershipStore_Listing(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	require.NoError(t, f.memberships.Create(ctx, f.membership(f.member, models.RoleMember)))

	t.Run("list by org includes founder and member", func(t *testing.T) {
		all, err := f.memberships.ListByOrg(ctx, f.org.OrgID)
		require.NoError(t, err)
		require.Len(t, all, 2)
	})

	t.Run("list by principal", func(t *testing.T) {
		mine, err := f.memberships.ListByPrincipal(ctx, f.member.PrincipalID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		require.Equal(t, f.org.OrgID, mine[0].OrgID)
	})
}

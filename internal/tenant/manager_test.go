package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/auditgate/auditgate/internal/authz"
	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/auditgate/auditgate/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type managerFixture struct {
	stores  store.Stores
	manager *Manager
}

func newManagerFixture() *managerFixture {
	stores := memory.NewStores()
	return &managerFixture{
		stores:  stores,
		manager: NewManager(stores),
	}
}

func (f *managerFixture) addPrincipal(t *testing.T, email string) *models.Principal {
	t.Helper()
	now := time.Now()
	p := &models.Principal{
		PrincipalID: uuid.Must(uuid.NewV7()),
		Email:       email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, f.stores.Principals.Create(context.Background(), p))
	return p
}

// subjectFor rebuilds the authorization subject from the store, the way the
// HTTP middleware does on every request.
func (f *managerFixture) subjectFor(t *testing.T, principalID uuid.UUID) *authz.Subject {
	t.Helper()
	ctx := context.Background()

	principal, err := f.stores.Principals.Get(ctx, principalID)
	require.NoError(t, err)
	memberships, err := f.stores.Memberships.ListByPrincipal(ctx, principalID)
	require.NoError(t, err)

	return authz.NewSubject(principal, memberships)
}

// TestManager_BootstrapScenario walks the full life of a fresh deployment:
// the first principal claims super admin, founds an organization, invites a
// member, and role changes take effect on the next request.
func TestManager_BootstrapScenario(t *testing.T) {
	f := newManagerFixture()
	ctx := context.Background()

	alice := f.addPrincipal(t, "alice@example.com")
	bob := f.addPrincipal(t, "bob@example.com")
	carol := f.addPrincipal(t, "carol@example.com")

	// Alice claims the open bootstrap.
	require.NoError(t, f.stores.Principals.ClaimFirstSuperAdmin(ctx, alice.PrincipalID))

	// Alice creates an organization; she is its founding admin.
	org, err := f.manager.CreateOrganization(ctx, f.subjectFor(t, alice.PrincipalID), "Acme")
	require.NoError(t, err)

	members, err := f.manager.ListMembers(ctx, f.subjectFor(t, alice.PrincipalID), org.OrgID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, models.RoleAdmin, members[0].Role)
	require.Equal(t, alice.PrincipalID, members[0].PrincipalID)

	// Alice adds Bob as a member by email.
	bobMembership, err := f.manager.AddMember(ctx, f.subjectFor(t, alice.PrincipalID), org.OrgID, "Bob@Example.com", models.RoleMember)
	require.NoError(t, err)
	require.Equal(t, bob.PrincipalID, bobMembership.PrincipalID)
	require.NotNil(t, bobMembership.InvitedBy)
	require.Equal(t, alice.PrincipalID, *bobMembership.InvitedBy)

	// Bob can read the org but cannot rename it.
	_, err = f.manager.GetOrganization(ctx, f.subjectFor(t, bob.PrincipalID), org.OrgID)
	require.NoError(t, err)

	_, err = f.manager.RenameOrganization(ctx, f.subjectFor(t, bob.PrincipalID), org.OrgID, "Bobcorp")
	require.ErrorIs(t, err, authz.ErrPermissionDenied)

	// Alice promotes Bob to admin; the new role is effective immediately
	// because the subject is rebuilt per request.
	require.NoError(t, f.manager.ChangeRole(ctx, f.subjectFor(t, alice.PrincipalID), org.OrgID, bobMembership.MembershipID, models.RoleAdmin))

	renamed, err := f.manager.RenameOrganization(ctx, f.subjectFor(t, bob.PrincipalID), org.OrgID, "Acme Industries")
	require.NoError(t, err)
	require.Equal(t, "Acme Industries", renamed.Name)

	// Carol arrives too late to claim the bootstrap.
	err = f.stores.Principals.ClaimFirstSuperAdmin(ctx, carol.PrincipalID)
	require.ErrorIs(t, err, store.ErrSuperAdminExists)

	// And without membership she cannot see the organization at all.
	_, err = f.manager.GetOrganization(ctx, f.subjectFor(t, carol.PrincipalID), org.OrgID)
	require.ErrorIs(t, err, authz.ErrPermissionDenied)
}

func TestManager_CreateOrganization(t *testing.T) {
	f := newManagerFixture()
	ctx := context.Background()

	admin := f.addPrincipal(t, "admin@example.com")
	require.NoError(t, f.stores.Principals.ClaimFirstSuperAdmin(ctx, admin.PrincipalID))
	regular := f.addPrincipal(t, "user@example.com")

	t.Run("super admin becomes founding org admin", func(t *testing.T) {
		org, err := f.manager.CreateOrganization(ctx, f.subjectFor(t, admin.PrincipalID), "Acme")
		require.NoError(t, err)

		m, err := f.stores.Memberships.GetByOrgAndPrincipal(ctx, org.OrgID, admin.PrincipalID)
		require.NoError(t, err)
		require.Equal(t, models.RoleAdmin, m.Role)
	})

	t.Run("regular principal is denied", func(t *testing.T) {
		_, err := f.manager.CreateOrganization(ctx, f.subjectFor(t, regular.PrincipalID), "Mine")
		require.ErrorIs(t, err, authz.ErrPermissionDenied)
	})
}

func TestManager_DeleteOrganization(t *testing.T) {
	f := newManagerFixture()
	ctx := context.Background()

	super := f.addPrincipal(t, "super@example.com")
	require.NoError(t, f.stores.Principals.ClaimFirstSuperAdmin(ctx, super.PrincipalID))

	org, err := f.manager.CreateOrganization(ctx, f.subjectFor(t, super.PrincipalID), "Acme")
	require.NoError(t, err)

	member := f.addPrincipal(t, "member@example.com")
	_, err = f.manager.AddMember(ctx, f.subjectFor(t, super.PrincipalID), org.OrgID, member.Email, models.RoleAdmin)
	require.NoError(t, err)

	t.Run("org admin may not delete the org", func(t *testing.T) {
		err := f.manager.DeleteOrganization(ctx, f.subjectFor(t, member.PrincipalID), org.OrgID)
		require.ErrorIs(t, err, authz.ErrPermissionDenied)
	})

	t.Run("super admin deletes and memberships go with it", func(t *testing.T) {
		require.NoError(t, f.manager.DeleteOrganization(ctx, f.subjectFor(t, super.PrincipalID), org.OrgID))

		_, err := f.stores.Memberships.GetByOrgAndPrincipal(ctx, org.OrgID, member.PrincipalID)
		require.ErrorIs(t, err, store.ErrMembershipNotFound)
	})
}

func TestManager_AddMember(t *testing.T) {
	f := newManagerFixture()
	ctx := context.Background()

	super := f.addPrincipal(t, "super@example.com")
	require.NoError(t, f.stores.Principals.ClaimFirstSuperAdmin(ctx, super.PrincipalID))

	org, err := f.manager.CreateOrganization(ctx, f.subjectFor(t, super.PrincipalID), "Acme")
	require.NoError(t, err)

	member := f.addPrincipal(t, "member@example.com")

	t.Run("unknown email is not materialized", func(t *testing.T) {
		_, err := f.manager.AddMember(ctx, f.subjectFor(t, super.PrincipalID), org.OrgID, "stranger@example.com", models.RoleMember)
		require.ErrorIs(t, err, store.ErrPrincipalNotFound)
	})

	t.Run("invalid role is rejected", func(t *testing.T) {
		_, err := f.manager.AddMember(ctx, f.subjectFor(t, super.PrincipalID), org.OrgID, member.Email, models.Role("owner"))
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("adding twice conflicts", func(t *testing.T) {
		_, err := f.manager.AddMember(ctx, f.subjectFor(t, super.PrincipalID), org.OrgID, member.Email, models.RoleMember)
		require.NoError(t, err)

		_, err = f.manager.AddMember(ctx, f.subjectFor(t, super.PrincipalID), org.OrgID, member.Email, models.RoleMember)
		require.ErrorIs(t, err, store.ErrMembershipAlreadyExists)
	})

	t.Run("member may not add members", func(t *testing.T) {
		other := f.addPrincipal(t, "other@example.com")
		_, err := f.manager.AddMember(ctx, f.subjectFor(t, member.PrincipalID), org.OrgID, other.Email, models.RoleMember)
		require.ErrorIs(t, err, authz.ErrPermissionDenied)
	})
}

func TestManager_RemoveMember(t *testing.T) {
	f := newManagerFixture()
	ctx := context.Background()

	super := f.addPrincipal(t, "super@example.com")
	require.NoError(t, f.stores.Principals.ClaimFirstSuperAdmin(ctx, super.PrincipalID))

	orgA, err := f.manager.CreateOrganization(ctx, f.subjectFor(t, super.PrincipalID), "Acme")
	require.NoError(t, err)
	orgB, err := f.manager.CreateOrganization(ctx, f.subjectFor(t, super.PrincipalID), "Beta")
	require.NoError(t, err)

	member := f.addPrincipal(t, "member@example.com")
	membership, err := f.manager.AddMember(ctx, f.subjectFor(t, super.PrincipalID), orgA.OrgID, member.Email, models.RoleMember)
	require.NoError(t, err)

	t.Run("membership id is scoped to the org in the path", func(t *testing.T) {
		err := f.manager.RemoveMember(ctx, f.subjectFor(t, super.PrincipalID), orgB.OrgID, membership.MembershipID)
		require.ErrorIs(t, err, store.ErrMembershipNotFound)
	})

	t.Run("remove then re-add", func(t *testing.T) {
		require.NoError(t, f.manager.RemoveMember(ctx, f.subjectFor(t, super.PrincipalID), orgA.OrgID, membership.MembershipID))

		_, err := f.manager.AddMember(ctx, f.subjectFor(t, super.PrincipalID), orgA.OrgID, member.Email, models.RoleMember)
		require.NoError(t, err)
	})
}

func TestManager_ChangeRole(t *testing.T) {
	f := newManagerFixture()
	ctx := context.Background()

	super := f.addPrincipal(t, "super@example.com")
	require.NoError(t, f.stores.Principals.ClaimFirstSuperAdmin(ctx, super.PrincipalID))

	org, err := f.manager.CreateOrganization(ctx, f.subjectFor(t, super.PrincipalID), "Acme")
	require.NoError(t, err)

	admin := f.addPrincipal(t, "admin@example.com")
	adminMembership, err := f.manager.AddMember(ctx, f.subjectFor(t, super.PrincipalID), org.OrgID, admin.Email, models.RoleAdmin)
	require.NoError(t, err)

	t.Run("admin may demote themself", func(t *testing.T) {
		require.NoError(t, f.manager.ChangeRole(ctx, f.subjectFor(t, admin.PrincipalID), org.OrgID, adminMembership.MembershipID, models.RoleMember))

		// The demotion takes effect on their next request.
		err := f.manager.ChangeRole(ctx, f.subjectFor(t, admin.PrincipalID), org.OrgID, adminMembership.MembershipID, models.RoleAdmin)
		require.ErrorIs(t, err, authz.ErrPermissionDenied)
	})
}

func TestManager_SetSuperAdmin(t *testing.T) {
	f := newManagerFixture()
	ctx := context.Background()

	super := f.addPrincipal(t, "super@example.com")
	require.NoError(t, f.stores.Principals.ClaimFirstSuperAdmin(ctx, super.PrincipalID))
	other := f.addPrincipal(t, "other@example.com")

	t.Run("super admin may promote another principal", func(t *testing.T) {
		require.NoError(t, f.manager.SetSuperAdmin(ctx, f.subjectFor(t, super.PrincipalID), other.PrincipalID, true))

		got, err := f.stores.Principals.Get(ctx, other.PrincipalID)
		require.NoError(t, err)
		require.True(t, got.SuperAdmin)
	})

	t.Run("self toggle is denied", func(t *testing.T) {
		err := f.manager.SetSuperAdmin(ctx, f.subjectFor(t, super.PrincipalID), super.PrincipalID, false)
		require.ErrorIs(t, err, authz.ErrPermissionDenied)
	})

	t.Run("non super admin is denied", func(t *testing.T) {
		third := f.addPrincipal(t, "third@example.com")
		err := f.manager.SetSuperAdmin(ctx, f.subjectFor(t, third.PrincipalID), other.PrincipalID, true)
		require.ErrorIs(t, err, authz.ErrPermissionDenied)
	})
}

func TestManager_ListOrganizations(t *testing.T) {
	f := newManagerFixture()
	ctx := context.Background()

	super := f.addPrincipal(t, "super@example.com")
	require.NoError(t, f.stores.Principals.ClaimFirstSuperAdmin(ctx, super.PrincipalID))

	acme, err := f.manager.CreateOrganization(ctx, f.subjectFor(t, super.PrincipalID), "Acme")
	require.NoError(t, err)
	_, err = f.manager.CreateOrganization(ctx, f.subjectFor(t, super.PrincipalID), "Beta")
	require.NoError(t, err)

	member := f.addPrincipal(t, "member@example.com")
	_, err = f.manager.AddMember(ctx, f.subjectFor(t, super.PrincipalID), acme.OrgID, member.Email, models.RoleMember)
	require.NoError(t, err)

	t.Run("super admin sees every org", func(t *testing.T) {
		orgs, err := f.manager.ListOrganizations(ctx, f.subjectFor(t, super.PrincipalID))
		require.NoError(t, err)
		require.Len(t, orgs, 2)
	})

	t.Run("member sees only their own", func(t *testing.T) {
		orgs, err := f.manager.ListOrganizations(ctx, f.subjectFor(t, member.PrincipalID))
		require.NoError(t, err)
		require.Len(t, orgs, 1)
		require.Equal(t, acme.OrgID, orgs[0].OrgID)
	})
}

func TestManager_UpdateProfile(t *testing.T) {
	f := newManagerFixture()
	ctx := context.Background()

	p := f.addPrincipal(t, "user@example.com")

	updated, err := f.manager.UpdateProfile(ctx, f.subjectFor(t, p.PrincipalID), "New Name")
	require.NoError(t, err)
	require.Equal(t, "New Name", updated.FullName)
	require.Equal(t, "user@example.com", updated.Email)
	require.False(t, updated.SuperAdmin)
}

package authz

import (
	"testing"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSubject(super bool, roles map[uuid.UUID]models.Role) *Subject {
	if roles == nil {
		roles = map[uuid.UUID]models.Role{}
	}
	return &Subject{
		PrincipalID: uuid.Must(uuid.NewV7()),
		SuperAdmin:  super,
		Roles:       roles,
	}
}

func TestDecide_SuperAdminOnlyActions(t *testing.T) {
	org := uuid.Must(uuid.NewV7())

	t.Run("super admin may create and delete orgs and list users", func(t *testing.T) {
		s := newSubject(true, nil)

		require.Equal(t, Allow, Decide(s, CreateOrg()))
		require.Equal(t, Allow, Decide(s, DeleteOrg(org)))
		require.Equal(t, Allow, Decide(s, ListAllUsers()))
	})

	t.Run("org admin may not create or delete orgs", func(t *testing.T) {
		s := newSubject(false, map[uuid.UUID]models.Role{org: models.RoleAdmin})

		require.Equal(t, Deny, Decide(s, CreateOrg()))
		require.Equal(t, Deny, Decide(s, DeleteOrg(org)))
		require.Equal(t, Deny, Decide(s, ListAllUsers()))
	})
}

func TestDecide_OrgManagement(t *testing.T) {
	org := uuid.Must(uuid.NewV7())
	otherOrg := uuid.Must(uuid.NewV7())

	t.Run("org admin may manage their own org", func(t *testing.T) {
		s := newSubject(false, map[uuid.UUID]models.Role{org: models.RoleAdmin})

		require.Equal(t, Allow, Decide(s, RenameOrg(org)))
		require.Equal(t, Allow, Decide(s, AddMember(org)))
		require.Equal(t, Allow, Decide(s, RemoveMember(org)))
		require.Equal(t, Allow, Decide(s, ChangeRole(org)))
	})

	t.Run("admin role does not carry to another org", func(t *testing.T) {
		s := newSubject(false, map[uuid.UUID]models.Role{org: models.RoleAdmin})

		require.Equal(t, Deny, Decide(s, RenameOrg(otherOrg)))
		require.Equal(t, Deny, Decide(s, AddMember(otherOrg)))
		require.Equal(t, Deny, Decide(s, ReadOrgResource(otherOrg)))
	})

	t.Run("member may not manage the org", func(t *testing.T) {
		s := newSubject(false, map[uuid.UUID]models.Role{org: models.RoleMember})

		require.Equal(t, Deny, Decide(s, RenameOrg(org)))
		require.Equal(t, Deny, Decide(s, AddMember(org)))
		require.Equal(t, Deny, Decide(s, RemoveMember(org)))
		require.Equal(t, Deny, Decide(s, ChangeRole(org)))
	})

	t.Run("super admin may manage any org", func(t *testing.T) {
		s := newSubject(true, nil)

		require.Equal(t, Allow, Decide(s, RenameOrg(org)))
		require.Equal(t, Allow, Decide(s, AddMember(otherOrg)))
	})
}

func TestDecide_OrgResources(t *testing.T) {
	org := uuid.Must(uuid.NewV7())

	t.Run("member may read but not write", func(t *testing.T) {
		s := newSubject(false, map[uuid.UUID]models.Role{org: models.RoleMember})

		require.Equal(t, Allow, Decide(s, ReadOrgResource(org)))
		require.Equal(t, Deny, Decide(s, WriteOrgResource(org)))
	})

	t.Run("admin may read and write", func(t *testing.T) {
		s := newSubject(false, map[uuid.UUID]models.Role{org: models.RoleAdmin})

		require.Equal(t, Allow, Decide(s, ReadOrgResource(org)))
		require.Equal(t, Allow, Decide(s, WriteOrgResource(org)))
	})

	t.Run("non-member may not read or write", func(t *testing.T) {
		s := newSubject(false, nil)

		require.Equal(t, Deny, Decide(s, ReadOrgResource(org)))
		require.Equal(t, Deny, Decide(s, WriteOrgResource(org)))
	})

	t.Run("super admin may read and write without membership", func(t *testing.T) {
		s := newSubject(true, nil)

		require.Equal(t, Allow, Decide(s, ReadOrgResource(org)))
		require.Equal(t, Allow, Decide(s, WriteOrgResource(org)))
	})
}

func TestDecide_ToggleSuperAdmin(t *testing.T) {
	t.Run("super admin may toggle another principal", func(t *testing.T) {
		s := newSubject(true, nil)
		target := uuid.Must(uuid.NewV7())

		require.Equal(t, Allow, Decide(s, ToggleSuperAdmin(target)))
	})

	t.Run("self toggle is denied even for super admins", func(t *testing.T) {
		s := newSubject(true, nil)

		require.Equal(t, Deny, Decide(s, ToggleSuperAdmin(s.PrincipalID)))
	})

	t.Run("regular principal may not toggle anyone", func(t *testing.T) {
		s := newSubject(false, nil)
		target := uuid.Must(uuid.NewV7())

		require.Equal(t, Deny, Decide(s, ToggleSuperAdmin(target)))
	})
}

func TestRequire(t *testing.T) {
	org := uuid.Must(uuid.NewV7())

	t.Run("returns nil on allow", func(t *testing.T) {
		s := newSubject(true, nil)
		require.NoError(t, Require(s, CreateOrg()))
	})

	t.Run("returns ErrPermissionDenied on deny", func(t *testing.T) {
		s := newSubject(false, nil)
		err := Require(s, WriteOrgResource(org))
		require.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestNewSubject(t *testing.T) {
	org := uuid.Must(uuid.NewV7())
	p := &models.Principal{PrincipalID: uuid.Must(uuid.NewV7())}
	memberships := []*models.Membership{
		{OrgID: org, PrincipalID: p.PrincipalID, Role: models.RoleAdmin},
	}

	s := NewSubject(p, memberships)
	require.Equal(t, p.PrincipalID, s.PrincipalID)
	require.False(t, s.SuperAdmin)
	require.Equal(t, models.RoleAdmin, s.Roles[org])
}

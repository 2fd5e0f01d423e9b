package memory

import (
	"context"
	"sort"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
)

// MembershipStore implements store.MembershipStore using in-memory storage.
type MembershipStore struct {
	db *DB
}

// NewMembershipStore creates a new in-memory membership store backed by db.
func NewMembershipStore(db *DB) *MembershipStore {
	return &MembershipStore{db: db}
}

// Create creates a new membership.
func (s *MembershipStore) Create(ctx context.Context, membership *models.Membership) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.organizations[membership.OrgID]; !exists {
		return store.ErrOrganizationNotFound
	}
	if _, exists := s.db.principals[membership.PrincipalID]; !exists {
		return store.ErrPrincipalNotFound
	}
	if _, exists := s.db.membershipByOrgAndPrincipal(membership.OrgID, membership.PrincipalID); exists {
		return store.ErrMembershipAlreadyExists
	}

	clone := *membership
	s.db.memberships[clone.MembershipID] = &clone

	return nil
}

// Get retrieves a membership by ID.
func (s *MembershipStore) Get(ctx context.Context, membershipID uuid.UUID) (*models.Membership, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	membership, exists := s.db.memberships[membershipID]
	if !exists {
		return nil, store.ErrMembershipNotFound
	}

	clone := *membership
	return &clone, nil
}

// GetByOrgAndPrincipal retrieves the membership for a principal within an
// organization.
func (s *MembershipStore) GetByOrgAndPrincipal(ctx context.Context, orgID, principalID uuid.UUID) (*models.Membership, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	membership, exists := s.db.membershipByOrgAndPrincipal(orgID, principalID)
	if !exists {
		return nil, store.ErrMembershipNotFound
	}

	clone := *membership
	return &clone, nil
}

// UpdateRole changes a membership's role.
func (s *MembershipStore) UpdateRole(ctx context.Context, membershipID uuid.UUID, role models.Role) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	membership, exists := s.db.memberships[membershipID]
	if !exists {
		return store.ErrMembershipNotFound
	}

	membership.Role = role

	return nil
}

// Delete removes a membership.
func (s *MembershipStore) Delete(ctx context.Context, membershipID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.memberships[membershipID]; !exists {
		return store.ErrMembershipNotFound
	}

	delete(s.db.memberships, membershipID)

	return nil
}

// ListByOrg returns all memberships of an organization, newest first.
func (s *MembershipStore) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.Membership, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var result []*models.Membership
	for _, m := range s.db.memberships {
		if m.OrgID == orgID {
			clone := *m
			result = append(result, &clone)
		}
	}

	sortMemberships(result)
	return result, nil
}

// ListByPrincipal returns all memberships held by a principal.
func (s *MembershipStore) ListByPrincipal(ctx context.Context, principalID uuid.UUID) ([]*models.Membership, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var result []*models.Membership
	for _, m := range s.db.memberships {
		if m.PrincipalID == principalID {
			clone := *m
			result = append(result, &clone)
		}
	}

	sortMemberships(result)
	return result, nil
}

func sortMemberships(memberships []*models.Membership) {
	sort.Slice(memberships, func(i, j int) bool {
		return memberships[i].CreatedAt.After(memberships[j].CreatedAt)
	})
}

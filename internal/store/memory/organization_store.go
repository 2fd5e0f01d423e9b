package memory

import (
	"context"
	"sort"
	"time"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
)

// OrganizationStore implements store.OrganizationStore using in-memory storage.
type OrganizationStore struct {
	db *DB
}

// NewOrganizationStore creates a new in-memory organization store backed by db.
func NewOrganizationStore(db *DB) *OrganizationStore {
	return &OrganizationStore{db: db}
}

// CreateWithFounder inserts the organization and its founding admin
// membership under one lock.
func (s *OrganizationStore) CreateWithFounder(ctx context.Context, org *models.Organization, founder *models.Membership) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.organizations[org.OrgID]; exists {
		return store.ErrOrganizationAlreadyExists
	}
	if _, exists := s.db.principals[founder.PrincipalID]; !exists {
		return store.ErrPrincipalNotFound
	}

	orgClone := *org
	s.db.organizations[orgClone.OrgID] = &orgClone

	founderClone := *founder
	founderClone.OrgID = orgClone.OrgID
	s.db.memberships[founderClone.MembershipID] = &founderClone

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	org, exists := s.db.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *org
	return &clone, nil
}

// Update updates an organization's name and logo.
func (s *OrganizationStore) Update(ctx context.Context, org *models.Organization) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.organizations[org.OrgID]; !exists {
		return store.ErrOrganizationNotFound
	}

	org.UpdatedAt = time.Now()

	clone := *org
	s.db.organizations[clone.OrgID] = &clone

	return nil
}

// Delete deletes an organization and everything scoped to it under one
// lock, so a half-deleted organization is never observable.
func (s *OrganizationStore) Delete(ctx context.Context, orgID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.organizations[orgID]; !exists {
		return store.ErrOrganizationNotFound
	}

	delete(s.db.organizations, orgID)

	for id, m := range s.db.memberships {
		if m.OrgID == orgID {
			delete(s.db.memberships, id)
		}
	}
	for id, p := range s.db.plans {
		if p.OrgID == orgID {
			delete(s.db.plans, id)
		}
	}
	for id, f := range s.db.findings {
		if f.OrgID == orgID {
			delete(s.db.findings, id)
		}
	}
	for id, d := range s.db.documents {
		if d.OrgID == orgID {
			delete(s.db.documents, id)
		}
	}

	return nil
}

// List returns all organizations ordered by name.
func (s *OrganizationStore) List(ctx context.Context) ([]*models.Organization, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	result := make([]*models.Organization, 0, len(s.db.organizations))
	for _, org := range s.db.organizations {
		clone := *org
		result = append(result, &clone)
	}

	sortOrganizations(result)
	return result, nil
}

// ListByPrincipal returns the organizations the principal is a member of,
// ordered by name.
func (s *OrganizationStore) ListByPrincipal(ctx context.Context, principalID uuid.UUID) ([]*models.Organization, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var result []*models.Organization
	for _, m := range s.db.memberships {
		if m.PrincipalID != principalID {
			continue
		}
		if org, exists := s.db.organizations[m.OrgID]; exists {
			clone := *org
			result = append(result, &clone)
		}
	}

	sortOrganizations(result)
	return result, nil
}

func sortOrganizations(orgs []*models.Organization) {
	sort.Slice(orgs, func(i, j int) bool {
		return orgs[i].Name < orgs[j].Name
	})
}

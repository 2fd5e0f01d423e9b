package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
)

// PrincipalStore implements store.PrincipalStore using in-memory storage.
type PrincipalStore struct {
	db *DB
}

// NewPrincipalStore creates a new in-memory principal store backed by db.
func NewPrincipalStore(db *DB) *PrincipalStore {
	return &PrincipalStore{db: db}
}

// Create creates a new principal in memory.
func (s *PrincipalStore) Create(ctx context.Context, principal *models.Principal) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.principals[principal.PrincipalID]; exists {
		return store.ErrPrincipalAlreadyExists
	}

	email := strings.ToLower(principal.Email)
	if _, exists := s.db.principalsByEmail[email]; exists {
		return store.ErrPrincipalAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *principal
	clone.Email = email
	s.db.principals[clone.PrincipalID] = &clone
	s.db.principalsByEmail[email] = clone.PrincipalID

	return nil
}

// Get retrieves a principal by ID.
func (s *PrincipalStore) Get(ctx context.Context, principalID uuid.UUID) (*models.Principal, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	principal, exists := s.db.principals[principalID]
	if !exists {
		return nil, store.ErrPrincipalNotFound
	}

	clone := *principal
	return &clone, nil
}

// GetByEmail retrieves a principal by lower-cased email.
func (s *PrincipalStore) GetByEmail(ctx context.Context, email string) (*models.Principal, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	id, exists := s.db.principalsByEmail[strings.ToLower(email)]
	if !exists {
		return nil, store.ErrPrincipalNotFound
	}

	clone := *s.db.principals[id]
	return &clone, nil
}

// Update updates a principal's mutable profile fields.
func (s *PrincipalStore) Update(ctx context.Context, principal *models.Principal) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, exists := s.db.principals[principal.PrincipalID]
	if !exists {
		return store.ErrPrincipalNotFound
	}

	principal.UpdatedAt = time.Now()

	clone := *principal
	clone.Email = existing.Email // identity provider owns the email
	clone.SuperAdmin = existing.SuperAdmin
	s.db.principals[clone.PrincipalID] = &clone

	return nil
}

// List returns all principals ordered by email.
func (s *PrincipalStore) List(ctx context.Context) ([]*models.Principal, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	result := make([]*models.Principal, 0, len(s.db.principals))
	for _, p := range s.db.principals {
		clone := *p
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Email < result[j].Email
	})

	return result, nil
}

// HasSuperAdmin reports whether any principal holds the super admin flag.
func (s *PrincipalStore) HasSuperAdmin(ctx context.Context) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return s.db.hasSuperAdmin(), nil
}

// ClaimFirstSuperAdmin promotes the principal if no super admin exists yet.
// The check and the update happen under one lock, so concurrent claims
// serialize and exactly one wins.
func (s *PrincipalStore) ClaimFirstSuperAdmin(ctx context.Context, principalID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.hasSuperAdmin() {
		return store.ErrSuperAdminExists
	}

	principal, exists := s.db.principals[principalID]
	if !exists {
		return store.ErrPrincipalNotFound
	}

	principal.SuperAdmin = true
	principal.UpdatedAt = time.Now()

	return nil
}

// SetSuperAdmin sets or clears the super admin flag on a principal.
func (s *PrincipalStore) SetSuperAdmin(ctx context.Context, principalID uuid.UUID, enabled bool) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	principal, exists := s.db.principals[principalID]
	if !exists {
		return store.ErrPrincipalNotFound
	}

	principal.SuperAdmin = enabled
	principal.UpdatedAt = time.Now()

	return nil
}

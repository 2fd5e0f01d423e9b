package memory

import (
	"context"
	"sort"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
)

// DocumentStore implements store.DocumentStore using in-memory storage.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new in-memory document store backed by db.
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Create creates a new document row.
func (s *DocumentStore) Create(ctx context.Context, doc *models.Document) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.organizations[doc.OrgID]; !exists {
		return store.ErrOrganizationNotFound
	}

	clone := *doc
	s.db.documents[clone.DocumentID] = &clone

	return nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(ctx context.Context, documentID uuid.UUID) (*models.Document, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	doc, exists := s.db.documents[documentID]
	if !exists {
		return nil, store.ErrDocumentNotFound
	}

	clone := *doc
	return &clone, nil
}

// Update updates a document's description and plan link.
func (s *DocumentStore) Update(ctx context.Context, doc *models.Document) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.documents[doc.DocumentID]; !exists {
		return store.ErrDocumentNotFound
	}

	clone := *doc
	s.db.documents[clone.DocumentID] = &clone

	return nil
}

// Delete removes a document row.
func (s *DocumentStore) Delete(ctx context.Context, documentID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.documents[documentID]; !exists {
		return store.ErrDocumentNotFound
	}

	delete(s.db.documents, documentID)

	return nil
}

// ListByOrg returns all documents of an organization, newest first.
func (s *DocumentStore) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.Document, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var result []*models.Document
	for _, d := range s.db.documents {
		if d.OrgID == orgID {
			clone := *d
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

package store

import (
	"context"
	"errors"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/google/uuid"
)

// ErrDocumentNotFound is returned when a document row doesn't exist.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore defines the interface for document metadata storage.
// File bytes live in external storage; only the rows are managed here.
type DocumentStore interface {
	// Create creates a new document row.
	Create(ctx context.Context, doc *models.Document) error

	// Get retrieves a document by ID.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	Get(ctx context.Context, documentID uuid.UUID) (*models.Document, error)

	// Update updates a document's description and plan link.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	Update(ctx context.Context, doc *models.Document) error

	// Delete removes a document row.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	Delete(ctx context.Context, documentID uuid.UUID) error

	// ListByOrg returns all documents of an organization, newest first.
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.Document, error)
}

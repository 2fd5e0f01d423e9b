package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/auditgate/auditgate/internal/models"
	"github.com/auditgate/auditgate/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DocumentStore implements store.DocumentStore using PostgreSQL.
// Only metadata rows are stored; file bytes live in external storage.
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore creates a new PostgreSQL-backed document store.
// It shares the connection pool with other stores.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{
		pool: pool,
	}
}

// Create creates a new document row in the database.
func (s *DocumentStore) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (
			document_id, org_id, plan_id, file_name, file_type, file_size,
			storage_path, description, uploaded_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := s.pool.Exec(ctx, query,
		doc.DocumentID,
		doc.OrgID,
		doc.PlanID,
		doc.FileName,
		doc.FileType,
		doc.FileSize,
		doc.StoragePath,
		doc.Description,
		doc.UploadedBy,
		doc.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrOrganizationNotFound
		}
		return mapPostgresError(err)
	}

	log.Debug().
		Str("document_id", doc.DocumentID.String()).
		Str("org_id", doc.OrgID.String()).
		Str("file_name", doc.FileName).
		Msg("Created document row")

	return nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(ctx context.Context, documentID uuid.UUID) (*models.Document, error) {
	query := `
		SELECT document_id, org_id, plan_id, file_name, file_type, file_size,
			storage_path, description, uploaded_by, created_at
		FROM documents
		WHERE document_id = $1
	`

	var d models.Document
	err := s.pool.QueryRow(ctx, query, documentID).Scan(
		&d.DocumentID,
		&d.OrgID,
		&d.PlanID,
		&d.FileName,
		&d.FileType,
		&d.FileSize,
		&d.StoragePath,
		&d.Description,
		&d.UploadedBy,
		&d.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrDocumentNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &d, nil
}

// Update updates a document's description and plan link.
func (s *DocumentStore) Update(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents SET
			plan_id = $2,
			description = $3
		WHERE document_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		doc.DocumentID,
		doc.PlanID,
		doc.Description,
	)

	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrDocumentNotFound
	}

	log.Debug().
		Str("document_id", doc.DocumentID.String()).
		Msg("Updated document row")

	return nil
}

// Delete removes a document row.
func (s *DocumentStore) Delete(ctx context.Context, documentID uuid.UUID) error {
	query := `DELETE FROM documents WHERE document_id = $1`

	result, err := s.pool.Exec(ctx, query, documentID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrDocumentNotFound
	}

	log.Debug().
		Str("document_id", documentID.String()).
		Msg("Deleted document row")

	return nil
}

// ListByOrg returns all documents of an organization, newest first.
func (s *DocumentStore) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.Document, error) {
	query := `
		SELECT document_id, org_id, plan_id, file_name, file_type, file_size,
			storage_path, description, uploaded_by, created_at
		FROM documents
		WHERE org_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var d models.Document
		err := rows.Scan(
			&d.DocumentID,
			&d.OrgID,
			&d.PlanID,
			&d.FileName,
			&d.FileType,
			&d.FileSize,
			&d.StoragePath,
			&d.Description,
			&d.UploadedBy,
			&d.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return docs, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is the metadata row for an uploaded file. The file bytes live in
// external storage addressed by StoragePath; transfer is out of scope here.
type Document struct {
	DocumentID  uuid.UUID // UUIDv7
	OrgID       uuid.UUID // FK to organizations, cascade on delete
	PlanID      *uuid.UUID
	FileName    string
	FileType    *string
	FileSize    *int64
	StoragePath string
	Description *string
	UploadedBy  *uuid.UUID
	CreatedAt   time.Time
}

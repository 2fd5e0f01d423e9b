package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant in the system. All audit resources and
// memberships hang off an organization, and deleting one cascades to them.
type Organization struct {
	OrgID     uuid.UUID // UUIDv7
	Name      string
	LogoURL   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

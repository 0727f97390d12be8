package models

import (
	"time"

	"github.com/google/uuid"
)

// Workspace is the tenant boundary that owns boards
type Workspace struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	PublicID  string    `json:"publicId" db:"public_id" gorm:"type:varchar(12);not null;uniqueIndex"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	CreatedBy string    `json:"createdBy" db:"created_by" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	Boards []Board `json:"boards,omitempty" gorm:"foreignKey:WorkspaceID;references:ID;constraint:OnDelete:CASCADE"`
}

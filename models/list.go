package models

import (
	"time"

	"github.com/google/uuid"
)

// List is a column on a board; Index preserves left-to-right ordering.
type List struct {
	ID        uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	PublicID  string     `json:"publicId" db:"public_id" gorm:"type:varchar(12);not null;uniqueIndex"`
	Name      string     `json:"name" db:"name" gorm:"type:text;not null"`
	BoardID   uuid.UUID  `json:"boardId" db:"board_id" gorm:"type:uuid;not null;index"`
	Index     int        `json:"index" db:"index" gorm:"type:integer;not null;default:0"`
	CreatedBy string     `json:"createdBy" db:"created_by" gorm:"type:text;not null"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at" gorm:"type:timestamp;index"`
	DeletedBy *string    `json:"deletedBy,omitempty" db:"deleted_by" gorm:"type:text"`

	Cards []Card `json:"cards,omitempty" gorm:"foreignKey:ListID;references:ID;constraint:OnDelete:CASCADE"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Card is a task on a list. Description is stored as editor-ready HTML;
// Markdown coming out of the AI pipeline is normalized before persistence.
type Card struct {
	ID          uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	PublicID    string     `json:"publicId" db:"public_id" gorm:"type:varchar(12);not null;uniqueIndex"`
	Title       string     `json:"title" db:"title" gorm:"type:text;not null"`
	Description string     `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	ListID      uuid.UUID  `json:"listId" db:"list_id" gorm:"type:uuid;not null;index"`
	Index       int        `json:"index" db:"index" gorm:"type:integer;not null;default:0"`
	CreatedBy   string     `json:"createdBy" db:"created_by" gorm:"type:text;not null"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" db:"deleted_at" gorm:"type:timestamp;index"`
	DeletedBy   *string    `json:"deletedBy,omitempty" db:"deleted_by" gorm:"type:text"`

	List   List    `json:"list,omitempty" gorm:"foreignKey:ListID;references:ID"`
	Labels []Label `json:"labels,omitempty" gorm:"many2many:card_labels;"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Label is a board-scoped tag. Names are unique per board case-sensitively;
// ColourCode is assigned from a fixed palette at creation time.
type Label struct {
	ID         uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	PublicID   string     `json:"publicId" db:"public_id" gorm:"type:varchar(12);not null;uniqueIndex"`
	Name       string     `json:"name" db:"name" gorm:"type:text;not null"`
	ColourCode string     `json:"colourCode" db:"colour_code" gorm:"type:varchar(7);not null"`
	BoardID    uuid.UUID  `json:"boardId" db:"board_id" gorm:"type:uuid;not null;index"`
	CreatedBy  string     `json:"createdBy" db:"created_by" gorm:"type:text;not null"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty" db:"deleted_at" gorm:"type:timestamp;index"`
	DeletedBy  *string    `json:"deletedBy,omitempty" db:"deleted_by" gorm:"type:text"`

	Board Board  `json:"board,omitempty" gorm:"foreignKey:BoardID;references:ID"`
	Cards []Card `json:"cards,omitempty" gorm:"many2many:card_labels;"`
}

// CardLabel is the explicit join row between cards and labels, bulk-inserted
// by the board builder.
type CardLabel struct {
	CardID  uuid.UUID `json:"cardId" db:"card_id" gorm:"type:uuid;primaryKey"`
	LabelID uuid.UUID `json:"labelId" db:"label_id" gorm:"type:uuid;primaryKey"`
}

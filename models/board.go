package models

import (
	"time"

	"github.com/google/uuid"
)

// Board is a Kanban board. ProjectIdea is only set for boards created by the
// AI planner; its presence is what makes a board eligible for revision.
type Board struct {
	ID          uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	PublicID    string     `json:"publicId" db:"public_id" gorm:"type:varchar(12);not null;uniqueIndex"`
	Slug        string     `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_board_slug_workspace"`
	Name        string     `json:"name" db:"name" gorm:"type:text;not null"`
	WorkspaceID uuid.UUID  `json:"workspaceId" db:"workspace_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_board_slug_workspace"`
	ProjectIdea *string    `json:"projectIdea,omitempty" db:"project_idea" gorm:"type:text"`
	CreatedBy   string     `json:"createdBy" db:"created_by" gorm:"type:text;not null"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" db:"deleted_at" gorm:"type:timestamp;index"`
	DeletedBy   *string    `json:"deletedBy,omitempty" db:"deleted_by" gorm:"type:text"`

	Lists  []List  `json:"lists,omitempty" gorm:"foreignKey:BoardID;references:ID;constraint:OnDelete:CASCADE"`
	Labels []Label `json:"labels,omitempty" gorm:"foreignKey:BoardID;references:ID;constraint:OnDelete:CASCADE"`
}

// IsAIManaged reports whether the board was created through plan generation
// and can therefore be revised.
func (b Board) IsAIManaged() bool {
	return b.ProjectIdea != nil && *b.ProjectIdea != ""
}

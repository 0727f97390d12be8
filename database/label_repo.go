package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/planboard/backend/models"
	"gorm.io/gorm"
)

type LabelRepo struct {
	db *gorm.DB
}

func NewLabelRepo(db *gorm.DB) *LabelRepo {
	return &LabelRepo{db}
}

// BulkAdd inserts all labels in one statement
func (r *LabelRepo) BulkAdd(labels []*models.Label) error {
	if len(labels) == 0 {
		return nil
	}
	return r.db.Create(labels).Error
}

// SoftDeleteAllByBoardID marks every live label of the board deleted
func (r *LabelRepo) SoftDeleteAllByBoardID(boardID uuid.UUID, deletedBy string) error {
	now := time.Now()
	return r.db.Model(&models.Label{}).
		Where("board_id = ? AND deleted_at IS NULL", boardID).
		Updates(map[string]any{"deleted_at": now, "deleted_by": deletedBy}).Error
}

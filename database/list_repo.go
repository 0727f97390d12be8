package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/planboard/backend/models"
	"gorm.io/gorm"
)

type ListRepo struct {
	db *gorm.DB
}

func NewListRepo(db *gorm.DB) *ListRepo {
	return &ListRepo{db}
}

// BulkAdd inserts all lists in one statement, preserving slice order via the
// callers' pre-assigned Index values
func (r *ListRepo) BulkAdd(lists []*models.List) error {
	if len(lists) == 0 {
		return nil
	}
	return r.db.Create(lists).Error
}

// SoftDeleteAllByBoardID marks every live list of the board deleted, cascading
// the soft delete to the lists' cards
func (r *ListRepo) SoftDeleteAllByBoardID(boardID uuid.UUID, deletedBy string) error {
	now := time.Now()

	err := r.db.Model(&models.Card{}).
		Where("list_id IN (?) AND deleted_at IS NULL",
			r.db.Model(&models.List{}).Select("id").Where("board_id = ? AND deleted_at IS NULL", boardID)).
		Updates(map[string]any{"deleted_at": now, "deleted_by": deletedBy}).Error
	if err != nil {
		return err
	}

	return r.db.Model(&models.List{}).
		Where("board_id = ? AND deleted_at IS NULL", boardID).
		Updates(map[string]any{"deleted_at": now, "deleted_by": deletedBy}).Error
}

package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/planboard/backend/models"
	"gorm.io/gorm"
)

type BoardRepo struct {
	db *gorm.DB
}

func NewBoardRepo(db *gorm.DB) *BoardRepo {
	return &BoardRepo{db}
}

// Add inserts a new board into the database
func (r *BoardRepo) Add(board *models.Board) error {
	return r.db.Create(board).Error
}

// FindByID returns a live board by primary key, or nil if none exists
func (r *BoardRepo) FindByID(id uuid.UUID) (*models.Board, error) {
	var board models.Board
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// FindByPublicIDWithChildren returns a board with its lists (cards and
// labels preloaded), ordered by index
func (r *BoardRepo) FindByPublicIDWithChildren(publicID string) (*models.Board, error) {
	var board models.Board
	err := r.db.
		Where("public_id = ? AND deleted_at IS NULL", publicID).
		Preload("Lists", func(db *gorm.DB) *gorm.DB {
			return db.Where("deleted_at IS NULL").Order("index ASC")
		}).
		Preload("Lists.Cards", func(db *gorm.DB) *gorm.DB {
			return db.Where("deleted_at IS NULL").Order("index ASC")
		}).
		Preload("Lists.Cards.Labels").
		Preload("Labels", "deleted_at IS NULL").
		First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// IsSlugUnique reports whether no live board in the workspace already uses slug
func (r *BoardRepo) IsSlugUnique(slug string, workspaceID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Board{}).
		Where("slug = ? AND workspace_id = ? AND deleted_at IS NULL", slug, workspaceID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

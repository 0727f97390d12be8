package database

import (
	"errors"

	"github.com/planboard/backend/models"
	"gorm.io/gorm"
)

type WorkspaceRepo struct {
	db *gorm.DB
}

func NewWorkspaceRepo(db *gorm.DB) *WorkspaceRepo {
	return &WorkspaceRepo{db}
}

// Add inserts a new workspace into the database
func (r *WorkspaceRepo) Add(workspace *models.Workspace) error {
	return r.db.Create(workspace).Error
}

// FindByPublicID returns a workspace by its external ID, or nil if none exists
func (r *WorkspaceRepo) FindByPublicID(publicID string) (*models.Workspace, error) {
	var workspace models.Workspace
	err := r.db.Where("public_id = ?", publicID).First(&workspace).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

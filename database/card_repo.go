package database

import (
	"errors"

	"github.com/planboard/backend/models"
	"gorm.io/gorm"
)

type CardRepo struct {
	db *gorm.DB
}

func NewCardRepo(db *gorm.DB) *CardRepo {
	return &CardRepo{db}
}

// BulkAdd inserts all cards in one statement
func (r *CardRepo) BulkAdd(cards []*models.Card) error {
	if len(cards) == 0 {
		return nil
	}
	return r.db.Create(cards).Error
}

// FindByPublicIDWithList returns a live card together with its list, or nil
// if none exists. The list is needed to walk up to the owning board.
func (r *CardRepo) FindByPublicIDWithList(publicID string) (*models.Card, error) {
	var card models.Card
	err := r.db.
		Where("public_id = ? AND deleted_at IS NULL", publicID).
		Preload("List").
		First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// BulkAddCardLabels inserts card-label association rows in one statement
func (r *CardRepo) BulkAddCardLabels(relationships []*models.CardLabel) error {
	if len(relationships) == 0 {
		return nil
	}
	return r.db.Create(relationships).Error
}

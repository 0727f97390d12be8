// Package services holds the write-side coordination between the generation
// pipeline and the repositories.
package services

import (
	"github.com/google/uuid"
	"github.com/planboard/backend/ai"
	"github.com/planboard/backend/errs"
	"github.com/planboard/backend/models"
	"github.com/planboard/backend/shared"
	"github.com/rs/zerolog"
)

// ListStore, CardStore and LabelStore are the slices of the repository layer
// the builder needs; the database package implements them.
type ListStore interface {
	BulkAdd(lists []*models.List) error
	SoftDeleteAllByBoardID(boardID uuid.UUID, deletedBy string) error
}

type CardStore interface {
	BulkAdd(cards []*models.Card) error
	BulkAddCardLabels(relationships []*models.CardLabel) error
}

type LabelStore interface {
	BulkAdd(labels []*models.Label) error
	SoftDeleteAllByBoardID(boardID uuid.UUID, deletedBy string) error
}

// BoardBuilder materializes a generated structure as rows: labels, lists,
// cards and card-label links, in that order. Callers are expected to run
// Build (and Clear, for revisions) inside one database transaction so a
// failing step leaves nothing behind.
type BoardBuilder struct {
	lists  ListStore
	cards  CardStore
	labels LabelStore
	logger zerolog.Logger
}

func NewBoardBuilder(lists ListStore, cards CardStore, labels LabelStore, logger zerolog.Logger) *BoardBuilder {
	return &BoardBuilder{
		lists:  lists,
		cards:  cards,
		labels: labels,
		logger: logger,
	}
}

// Build writes the structure under an existing board. List and card order is
// preserved through explicit index fields; label names are deduplicated
// case-sensitively across the whole structure, each unique name getting one
// row with a palette colour cycled by first-seen order. Empty structures,
// lists without cards and cards without labels are all fine.
func (b *BoardBuilder) Build(boardID uuid.UUID, structure ai.BoardStructure, actor string) error {
	labelIDsByName, err := b.createLabels(boardID, structure, actor)
	if err != nil {
		return err
	}

	listRows := make([]*models.List, 0, len(structure.Lists))
	for i, listSpec := range structure.Lists {
		listRows = append(listRows, &models.List{
			ID:        uuid.New(),
			PublicID:  shared.NewPublicID(),
			Name:      listSpec.Title,
			BoardID:   boardID,
			Index:     i,
			CreatedBy: actor,
		})
	}
	if err := b.lists.BulkAdd(listRows); err != nil {
		return errs.NewPersistenceFailureError("create lists", err)
	}

	for i, listSpec := range structure.Lists {
		if err := b.createCards(listRows[i].ID, listSpec, labelIDsByName, actor); err != nil {
			return err
		}
	}

	b.logger.Info().
		Str("boardId", boardID.String()).
		Int("lists", len(structure.Lists)).
		Int("cards", structure.TotalCards()).
		Int("labels", len(labelIDsByName)).
		Msg("persisted generated structure")
	return nil
}

// Clear soft-deletes every list (and, through the list repo, every card) and
// every label the board owns, recording the actor. Build can then repopulate
// the same board identity during a revision.
func (b *BoardBuilder) Clear(boardID uuid.UUID, actor string) error {
	if err := b.lists.SoftDeleteAllByBoardID(boardID, actor); err != nil {
		return errs.NewPersistenceFailureError("clear lists", err)
	}
	if err := b.labels.SoftDeleteAllByBoardID(boardID, actor); err != nil {
		return errs.NewPersistenceFailureError("clear labels", err)
	}
	return nil
}

func (b *BoardBuilder) createLabels(boardID uuid.UUID, structure ai.BoardStructure, actor string) (map[string]uuid.UUID, error) {
	var names []string
	seen := make(map[string]bool)
	for _, listSpec := range structure.Lists {
		for _, card := range listSpec.Cards {
			for _, name := range card.Labels {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
	}

	labelIDsByName := make(map[string]uuid.UUID, len(names))
	labelRows := make([]*models.Label, 0, len(names))
	for i, name := range names {
		id := uuid.New()
		labelIDsByName[name] = id
		labelRows = append(labelRows, &models.Label{
			ID:         id,
			PublicID:   shared.NewPublicID(),
			Name:       name,
			ColourCode: shared.ColourForIndex(i),
			BoardID:    boardID,
			CreatedBy:  actor,
		})
	}

	if err := b.labels.BulkAdd(labelRows); err != nil {
		return nil, errs.NewPersistenceFailureError("create labels", err)
	}
	return labelIDsByName, nil
}

func (b *BoardBuilder) createCards(listID uuid.UUID, listSpec ai.ListSpec, labelIDsByName map[string]uuid.UUID, actor string) error {
	if len(listSpec.Cards) == 0 {
		return nil
	}

	cardRows := make([]*models.Card, 0, len(listSpec.Cards))
	for i, cardSpec := range listSpec.Cards {
		cardRows = append(cardRows, &models.Card{
			ID:          uuid.New(),
			PublicID:    shared.NewPublicID(),
			Title:       cardSpec.Title,
			Description: ai.Normalize(cardSpec.Description),
			ListID:      listID,
			Index:       i,
			CreatedBy:   actor,
		})
	}
	if err := b.cards.BulkAdd(cardRows); err != nil {
		return errs.NewPersistenceFailureError("create cards", err)
	}

	var relationships []*models.CardLabel
	for i, cardSpec := range listSpec.Cards {
		for _, name := range cardSpec.Labels {
			labelID, ok := labelIDsByName[name]
			if !ok {
				// Should not happen: every name was collected above. Dropping
				// the link beats failing the whole transaction.
				b.logger.Warn().Str("label", name).Msg("card references unknown label, dropping link")
				continue
			}
			relationships = append(relationships, &models.CardLabel{
				CardID:  cardRows[i].ID,
				LabelID: labelID,
			})
		}
	}
	if err := b.cards.BulkAddCardLabels(relationships); err != nil {
		return errs.NewPersistenceFailureError("create card labels", err)
	}
	return nil
}

package database

import (
	"github.com/google/uuid"
	"github.com/planboard/backend/models"
	"gorm.io/gorm"
)

// Store is the repository surface the rest of the application programs
// against. Database implements it over a shared GORM connection; handler
// tests substitute in-memory fakes.
type Store interface {
	WorkspaceRepo() WorkspaceStore
	BoardRepo() BoardStore
	ListRepo() ListStore
	CardRepo() CardStore
	LabelRepo() LabelStore
	Transaction(fn func(tx Store) error) error
}

type WorkspaceStore interface {
	Add(workspace *models.Workspace) error
	FindByPublicID(publicID string) (*models.Workspace, error)
}

type BoardStore interface {
	Add(board *models.Board) error
	FindByID(id uuid.UUID) (*models.Board, error)
	FindByPublicIDWithChildren(publicID string) (*models.Board, error)
	IsSlugUnique(slug string, workspaceID uuid.UUID) (bool, error)
}

type ListStore interface {
	BulkAdd(lists []*models.List) error
	SoftDeleteAllByBoardID(boardID uuid.UUID, deletedBy string) error
}

type CardStore interface {
	BulkAdd(cards []*models.Card) error
	FindByPublicIDWithList(publicID string) (*models.Card, error)
	BulkAddCardLabels(relationships []*models.CardLabel) error
}

type LabelStore interface {
	BulkAdd(labels []*models.Label) error
	SoftDeleteAllByBoardID(boardID uuid.UUID, deletedBy string) error
}

type Database struct {
	db            *gorm.DB
	workspaceRepo *WorkspaceRepo
	boardRepo     *BoardRepo
	listRepo      *ListRepo
	cardRepo      *CardRepo
	labelRepo     *LabelRepo
}

var _ Store = Database{}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:            db,
		workspaceRepo: NewWorkspaceRepo(db),
		boardRepo:     NewBoardRepo(db),
		listRepo:      NewListRepo(db),
		cardRepo:      NewCardRepo(db),
		labelRepo:     NewLabelRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) WorkspaceRepo() WorkspaceStore {
	return d.workspaceRepo
}

func (d Database) BoardRepo() BoardStore {
	return d.boardRepo
}

func (d Database) ListRepo() ListStore {
	return d.listRepo
}

func (d Database) CardRepo() CardStore {
	return d.cardRepo
}

func (d Database) LabelRepo() LabelStore {
	return d.labelRepo
}

// Transaction runs fn against a Store whose repositories are all bound to
// the same transaction; any returned error rolls the whole transaction back.
func (d Database) Transaction(fn func(tx Store) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/planboard/backend/ai"
	"github.com/planboard/backend/config"
	"github.com/planboard/backend/database"
	"github.com/planboard/backend/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient returns a fixed response or error for every completion call
// and records the prompts it was given.
type scriptedClient struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (c *scriptedClient) Complete(ctx context.Context, systemPrompt, userPrompt string, params ai.SamplingParams) (string, error) {
	c.calls++
	c.prompts = append(c.prompts, userPrompt)
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func newTestGenerator(client ai.ChatClient) *ai.Generator {
	cfg := config.AIConfig{
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
		EnableFallback: true,
		FallbackLabels: []string{"frontend", "backend"},

		SystemPrompt:           "Respond with JSON only.",
		BoardPromptTemplate:    "Project: {projectIdea}\nFeatures: {features}",
		RevisionPromptTemplate: "Project: {projectIdea}\nCurrent:\n{currentStructure}\nChanges: {revisionNotes}",
		TaskPromptTemplate:     "Task {{cardTitle}} on {{boardName}}: {{projectIdea}} / {{cardDescription}}",
	}
	return ai.NewGenerator(client, ai.NewResponseCache(time.Minute, zerolog.Nop()), cfg, zerolog.Nop())
}

const planJSON = `{
  "lists": [
    {"title": "Backlog", "cards": [
      {"title": "Set up repository", "description": "Initialize the project", "labels": ["setup"]},
      {"title": "Design schema", "description": "Model the core entities", "labels": ["backend"]}
    ]},
    {"title": "To Do", "cards": [
      {"title": "Build board view", "description": "Render lists and cards", "labels": ["frontend"]}
    ]}
  ]
}`

// fakeStore is an in-memory database.Store. Transaction hands the callback
// the same store, so assertions see everything written inside it; rollback
// is not modeled.
type fakeStore struct {
	workspaces        []*models.Workspace
	boards            []*models.Board
	boardWithChildren *models.Board
	lists             []*models.List
	cards             []*models.Card
	cardWithList      *models.Card
	labels            []*models.Label
	cardLabels        []*models.CardLabel

	ops          []string
	transactions int
	failOn       string
}

func (s *fakeStore) WorkspaceRepo() database.WorkspaceStore { return fakeWorkspaceRepo{s} }
func (s *fakeStore) BoardRepo() database.BoardStore         { return fakeBoardRepo{s} }
func (s *fakeStore) ListRepo() database.ListStore           { return fakeListRepo{s} }
func (s *fakeStore) CardRepo() database.CardStore           { return fakeCardRepo{s} }
func (s *fakeStore) LabelRepo() database.LabelStore         { return fakeLabelRepo{s} }

func (s *fakeStore) Transaction(fn func(tx database.Store) error) error {
	s.transactions++
	return fn(s)
}

func (s *fakeStore) step(name string) error {
	s.ops = append(s.ops, name)
	if s.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

type fakeWorkspaceRepo struct{ s *fakeStore }

func (f fakeWorkspaceRepo) Add(workspace *models.Workspace) error {
	f.s.workspaces = append(f.s.workspaces, workspace)
	return nil
}

func (f fakeWorkspaceRepo) FindByPublicID(publicID string) (*models.Workspace, error) {
	for _, workspace := range f.s.workspaces {
		if workspace.PublicID == publicID {
			return workspace, nil
		}
	}
	return nil, nil
}

type fakeBoardRepo struct{ s *fakeStore }

func (f fakeBoardRepo) Add(board *models.Board) error {
	if err := f.s.step("create board"); err != nil {
		return err
	}
	f.s.boards = append(f.s.boards, board)
	return nil
}

func (f fakeBoardRepo) FindByID(id uuid.UUID) (*models.Board, error) {
	for _, board := range f.s.boards {
		if board.ID == id {
			return board, nil
		}
	}
	return nil, nil
}

func (f fakeBoardRepo) FindByPublicIDWithChildren(publicID string) (*models.Board, error) {
	if f.s.boardWithChildren != nil && f.s.boardWithChildren.PublicID == publicID {
		return f.s.boardWithChildren, nil
	}
	return nil, nil
}

func (f fakeBoardRepo) IsSlugUnique(slug string, workspaceID uuid.UUID) (bool, error) {
	for _, board := range f.s.boards {
		if board.Slug == slug && board.WorkspaceID == workspaceID {
			return false, nil
		}
	}
	return true, nil
}

type fakeListRepo struct{ s *fakeStore }

func (f fakeListRepo) BulkAdd(lists []*models.List) error {
	if err := f.s.step("create lists"); err != nil {
		return err
	}
	f.s.lists = append(f.s.lists, lists...)
	return nil
}

func (f fakeListRepo) SoftDeleteAllByBoardID(boardID uuid.UUID, deletedBy string) error {
	return f.s.step("clear lists")
}

type fakeCardRepo struct{ s *fakeStore }

func (f fakeCardRepo) BulkAdd(cards []*models.Card) error {
	if err := f.s.step("create cards"); err != nil {
		return err
	}
	f.s.cards = append(f.s.cards, cards...)
	return nil
}

func (f fakeCardRepo) FindByPublicIDWithList(publicID string) (*models.Card, error) {
	if f.s.cardWithList != nil && f.s.cardWithList.PublicID == publicID {
		return f.s.cardWithList, nil
	}
	return nil, nil
}

func (f fakeCardRepo) BulkAddCardLabels(relationships []*models.CardLabel) error {
	if err := f.s.step("create card labels"); err != nil {
		return err
	}
	f.s.cardLabels = append(f.s.cardLabels, relationships...)
	return nil
}

type fakeLabelRepo struct{ s *fakeStore }

func (f fakeLabelRepo) BulkAdd(labels []*models.Label) error {
	if err := f.s.step("create labels"); err != nil {
		return err
	}
	f.s.labels = append(f.s.labels, labels...)
	return nil
}

func (f fakeLabelRepo) SoftDeleteAllByBoardID(boardID uuid.UUID, deletedBy string) error {
	return f.s.step("clear labels")
}

const generatePlanBody = `{
	"boardName": "Launch Plan",
	"projectIdea": "a kanban tool for planning launches",
	"features": ["auth", "boards", "cards", "labels", "search"],
	"workspacePublicId": "wksp12345678"
}`

func TestGeneratePlanPersistsFallbackBoard(t *testing.T) {
	store := &fakeStore{}
	workspace := &models.Workspace{ID: uuid.New(), PublicID: "wksp12345678", Name: "Personal", CreatedBy: "user-1"}
	store.workspaces = append(store.workspaces, workspace)

	client := &scriptedClient{err: errors.New("model unavailable")}
	h := newAIHandler(store, newTestGenerator(client))

	rec := httptest.NewRecorder()
	h.generatePlan().ServeHTTP(rec, authedRequest(http.MethodPost, "/ai/generate-plan", generatePlanBody))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp["boardPublicId"], 12)
	assert.Equal(t, "launch-plan", resp["boardSlug"])
	assert.Equal(t, "Launch Plan", resp["boardName"])

	// Both attempts failed, then the synthetic structure was persisted.
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, 1, store.transactions)

	require.Len(t, store.boards, 1)
	board := store.boards[0]
	assert.Equal(t, workspace.ID, board.WorkspaceID)
	assert.Equal(t, "user-1", board.CreatedBy)
	assert.True(t, board.IsAIManaged())

	require.Len(t, store.lists, 4)
	var names []string
	for i, list := range store.lists {
		names = append(names, list.Name)
		assert.Equal(t, i, list.Index)
		assert.Equal(t, board.ID, list.BoardID)
	}
	assert.Equal(t, []string{"Backlog", "To Do", "In Progress", "Done"}, names)

	// Five features, one card each: four land in Backlog, the rest in To Do.
	cardsPerList := make(map[string]int)
	for _, card := range store.cards {
		for _, list := range store.lists {
			if list.ID == card.ListID {
				cardsPerList[list.Name]++
			}
		}
	}
	assert.Equal(t, 4, cardsPerList["Backlog"])
	assert.Equal(t, 1, cardsPerList["To Do"])
	assert.Zero(t, cardsPerList["In Progress"])
	assert.Zero(t, cardsPerList["Done"])

	assert.Len(t, store.labels, 3) // frontend, feature, backend
}

func TestGeneratePlanSuffixesDuplicateSlug(t *testing.T) {
	store := &fakeStore{}
	workspace := &models.Workspace{ID: uuid.New(), PublicID: "wksp12345678"}
	store.workspaces = append(store.workspaces, workspace)
	store.boards = append(store.boards, &models.Board{
		ID:          uuid.New(),
		PublicID:    "brd123456789",
		Slug:        "launch-plan",
		WorkspaceID: workspace.ID,
	})

	client := &scriptedClient{response: planJSON}
	h := newAIHandler(store, newTestGenerator(client))

	rec := httptest.NewRecorder()
	h.generatePlan().ServeHTTP(rec, authedRequest(http.MethodPost, "/ai/generate-plan", generatePlanBody))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, client.calls)

	require.Len(t, store.boards, 2)
	assert.Regexp(t, `^launch-plan-[0-9a-z]{12}$`, store.boards[1].Slug)
}

func TestGeneratePlanUnknownWorkspace(t *testing.T) {
	store := &fakeStore{}
	client := &scriptedClient{response: planJSON}
	h := newAIHandler(store, newTestGenerator(client))

	rec := httptest.NewRecorder()
	h.generatePlan().ServeHTTP(rec, authedRequest(http.MethodPost, "/ai/generate-plan", generatePlanBody))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, client.calls)
	assert.Zero(t, store.transactions)
}

func TestGeneratePlanSurfacesPersistFailure(t *testing.T) {
	store := &fakeStore{failOn: "create lists"}
	store.workspaces = append(store.workspaces, &models.Workspace{ID: uuid.New(), PublicID: "wksp12345678"})

	client := &scriptedClient{response: planJSON}
	h := newAIHandler(store, newTestGenerator(client))

	rec := httptest.NewRecorder()
	h.generatePlan().ServeHTTP(rec, authedRequest(http.MethodPost, "/ai/generate-plan", generatePlanBody))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, store.transactions)
}

func TestReviseProjectRebuildsBoard(t *testing.T) {
	idea := "a kanban tool for planning launches"
	board := &models.Board{
		ID:          uuid.New(),
		PublicID:    "brd123456789",
		Name:        "Launch Plan",
		ProjectIdea: &idea,
		Lists: []models.List{
			{Name: "Backlog", Cards: []models.Card{{Title: "Old card"}}},
			{Name: "Done"},
		},
	}
	store := &fakeStore{boardWithChildren: board}
	client := &scriptedClient{response: planJSON}
	h := newAIHandler(store, newTestGenerator(client))

	body := `{"boardPublicId":"brd123456789","revisionNotes":"split the research work"}`
	rec := httptest.NewRecorder()
	h.reviseProject().ServeHTTP(rec, authedRequest(http.MethodPost, "/ai/revise-project", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])

	// The old structure is cleared before anything new is written.
	require.GreaterOrEqual(t, len(store.ops), 2)
	assert.Equal(t, []string{"clear lists", "clear labels"}, store.ops[:2])
	assert.Equal(t, 1, store.transactions)

	require.Len(t, store.lists, 2)
	assert.Equal(t, board.ID, store.lists[0].BoardID)
	assert.Len(t, store.cards, 3)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "split the research work")
	assert.Contains(t, client.prompts[0], "- Backlog (1 cards)")
}

func TestReviseProjectRejectsNonAIBoard(t *testing.T) {
	board := &models.Board{ID: uuid.New(), PublicID: "brd123456789", Name: "Manual Board"}
	store := &fakeStore{boardWithChildren: board}
	client := &scriptedClient{response: planJSON}
	h := newAIHandler(store, newTestGenerator(client))

	body := `{"boardPublicId":"brd123456789","revisionNotes":"add a list"}`
	rec := httptest.NewRecorder()
	h.reviseProject().ServeHTTP(rec, authedRequest(http.MethodPost, "/ai/revise-project", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, client.calls)
	assert.Zero(t, store.transactions)
}

func TestReviseProjectUnknownBoard(t *testing.T) {
	store := &fakeStore{}
	h := newAIHandler(store, newTestGenerator(&scriptedClient{response: planJSON}))

	body := `{"boardPublicId":"brd123456789","revisionNotes":"add a list"}`
	rec := httptest.NewRecorder()
	h.reviseProject().ServeHTTP(rec, authedRequest(http.MethodPost, "/ai/revise-project", body))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateTaskPromptLooksUpCardAndBoard(t *testing.T) {
	idea := "a kanban tool for planning launches"
	boardID := uuid.New()
	store := &fakeStore{}
	store.boards = append(store.boards, &models.Board{
		ID:          boardID,
		PublicID:    "brd123456789",
		Name:        "Launch Plan",
		ProjectIdea: &idea,
	})
	store.cardWithList = &models.Card{
		PublicID: "crd123456789",
		Title:    "Build board view",
		List:     models.List{BoardID: boardID},
	}

	client := &scriptedClient{response: "Act as a senior engineer and build the board view."}
	h := newAIHandler(store, newTestGenerator(client))

	rec := httptest.NewRecorder()
	h.generateTaskPrompt().ServeHTTP(rec, authedRequest(http.MethodPost, "/ai/generate-task-prompt", `{"cardPublicId":"crd123456789"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Act as a senior engineer and build the board view.", resp["prompt"])

	// The meta prompt carries the card and board context; the blank card
	// description is replaced with a stand-in.
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Build board view")
	assert.Contains(t, client.prompts[0], "Launch Plan")
	assert.Contains(t, client.prompts[0], idea)
	assert.Contains(t, client.prompts[0], "No description provided")
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/planboard/backend/ai"
	"github.com/planboard/backend/database"
	"github.com/planboard/backend/errs"
	"github.com/planboard/backend/models"
	"github.com/planboard/backend/services"
	"github.com/planboard/backend/shared"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type aiHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Store
	generator *ai.Generator
}

func newAIHandler(db database.Store, generator *ai.Generator) aiHandler {
	logger := log.With().Str("handlerName", "aiHandler").Logger()

	return aiHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		generator: generator,
	}
}

type generatePlanRequest struct {
	BoardName         string   `json:"boardName"`
	ProjectIdea       string   `json:"projectIdea"`
	Features          []string `json:"features"`
	WorkspacePublicID string   `json:"workspacePublicId"`
}

func (req *generatePlanRequest) validate() error {
	req.BoardName = strings.TrimSpace(req.BoardName)
	if req.BoardName == "" {
		return errs.NewMissingRequiredFieldError("boardName")
	}
	if len(req.BoardName) > 255 {
		return errs.NewInvalidFieldError("boardName", "must be at most 255 characters")
	}

	req.ProjectIdea = strings.TrimSpace(req.ProjectIdea)
	if len(req.ProjectIdea) < 10 {
		return errs.NewInvalidFieldError("projectIdea", "must be at least 10 characters")
	}
	if len(req.ProjectIdea) > 2000 {
		return errs.NewInvalidFieldError("projectIdea", "must be at most 2000 characters")
	}

	if len(req.Features) == 0 {
		return errs.NewMissingRequiredFieldError("features")
	}
	if len(req.Features) > 20 {
		return errs.NewInvalidFieldError("features", "must contain at most 20 entries")
	}
	for i, feature := range req.Features {
		req.Features[i] = strings.TrimSpace(feature)
		if req.Features[i] == "" {
			return errs.NewInvalidFieldError("features", "entries must not be empty")
		}
		if len(req.Features[i]) > 500 {
			return errs.NewInvalidFieldError("features", "entries must be at most 500 characters")
		}
	}

	if len(req.WorkspacePublicID) < 12 {
		return errs.NewInvalidFieldError("workspacePublicId", "must be at least 12 characters")
	}
	return nil
}

// generatePlan creates an AI-planned board from a project idea
// @Summary Generate a project plan
// @Description Generates a Kanban board structure from a project idea and persists it as a new board
// @Tags AI
// @Accept json
// @Produce json
// @Success 201 {object} map[string]string "Created board identifiers"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid input"
// @Failure 404 {object} ErrorResponse "Not Found - Workspace not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /ai/generate-plan [post]
func (h aiHandler) generatePlan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var req generatePlanRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode generate-plan request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		workspace, err := h.db.WorkspaceRepo().FindByPublicID(req.WorkspacePublicID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find workspace", "workspace", err))
			return
		}
		if workspace == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("workspace not found"))
			return
		}

		structure, source, err := h.generator.GeneratePlan(r.Context(), ai.GenerationRequest{
			BoardName:   req.BoardName,
			ProjectIdea: req.ProjectIdea,
			Features:    req.Features,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		slug := shared.Slugify(req.BoardName)
		unique, err := h.db.BoardRepo().IsSlugUnique(slug, workspace.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("check slug", "board", err))
			return
		}
		if !unique {
			slug = fmt.Sprintf("%s-%s", slug, strings.ToLower(shared.NewPublicID()))
		}

		projectIdea := req.ProjectIdea
		board := models.Board{
			ID:          uuid.New(),
			PublicID:    shared.NewPublicID(),
			Slug:        slug,
			Name:        req.BoardName,
			WorkspaceID: workspace.ID,
			ProjectIdea: &projectIdea,
			CreatedBy:   userID,
		}

		err = h.db.Transaction(func(tx database.Store) error {
			if err := tx.BoardRepo().Add(&board); err != nil {
				return errs.NewPersistenceFailureError("create board", err)
			}
			builder := services.NewBoardBuilder(tx.ListRepo(), tx.CardRepo(), tx.LabelRepo(), h.logger)
			return builder.Build(board.ID, structure, userID)
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("boardPublicId", board.PublicID).
			Str("source", string(source)).
			Int("lists", len(structure.Lists)).
			Int("cards", structure.TotalCards()).
			Msg("generated project plan")

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]string{
			"boardId":       board.ID.String(),
			"boardPublicId": board.PublicID,
			"boardSlug":     board.Slug,
			"boardName":     board.Name,
		})
	}
}

type reviseProjectRequest struct {
	BoardPublicID string `json:"boardPublicId"`
	RevisionNotes string `json:"revisionNotes"`
}

func (req *reviseProjectRequest) validate() error {
	if len(req.BoardPublicID) < 12 {
		return errs.NewInvalidFieldError("boardPublicId", "must be at least 12 characters")
	}
	req.RevisionNotes = strings.TrimSpace(req.RevisionNotes)
	if req.RevisionNotes == "" {
		return errs.NewMissingRequiredFieldError("revisionNotes")
	}
	if len(req.RevisionNotes) > 2000 {
		return errs.NewInvalidFieldError("revisionNotes", "must be at most 2000 characters")
	}
	return nil
}

// reviseProject regenerates an AI-managed board from revision notes
// @Summary Revise a project board
// @Description Regenerates the board structure from the stored project idea and revision notes, replacing existing lists, cards and labels
// @Tags AI
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "Revision result"
// @Failure 400 {object} ErrorResponse "Bad Request - Board is not AI-managed"
// @Failure 404 {object} ErrorResponse "Not Found - Board not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /ai/revise-project [post]
func (h aiHandler) reviseProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var req reviseProjectRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode revise-project request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		board, err := h.db.BoardRepo().FindByPublicIDWithChildren(req.BoardPublicID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find board", "board", err))
			return
		}
		if board == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("board not found"))
			return
		}
		if !board.IsAIManaged() {
			h.responder.WriteError(w, errs.NewBoardNotAIManagedError(board.PublicID))
			return
		}

		listTitles := make([]string, 0, len(board.Lists))
		var summary strings.Builder
		for _, list := range board.Lists {
			listTitles = append(listTitles, list.Name)
			fmt.Fprintf(&summary, "- %s (%d cards)\n", list.Name, len(list.Cards))
		}

		structure, source, err := h.generator.ReviseBoard(r.Context(), ai.RevisionRequest{
			ProjectIdea:      *board.ProjectIdea,
			CurrentStructure: strings.TrimRight(summary.String(), "\n"),
			RevisionNotes:    req.RevisionNotes,
			ListTitles:       listTitles,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		err = h.db.Transaction(func(tx database.Store) error {
			builder := services.NewBoardBuilder(tx.ListRepo(), tx.CardRepo(), tx.LabelRepo(), h.logger)
			if err := builder.Clear(board.ID, userID); err != nil {
				return err
			}
			return builder.Build(board.ID, structure, userID)
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("boardPublicId", board.PublicID).
			Str("source", string(source)).
			Int("lists", len(structure.Lists)).
			Msg("revised project board")

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "board revised",
		})
	}
}

type generateTaskPromptRequest struct {
	CardPublicID string `json:"cardPublicId"`
}

// generateTaskPrompt builds a ready-to-use coding prompt for a card
// @Summary Generate a task prompt
// @Description Builds an implementation prompt for a card from the stored project idea, board name and card details
// @Tags AI
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Generated prompt"
// @Failure 404 {object} ErrorResponse "Not Found - Card not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /ai/generate-task-prompt [post]
func (h aiHandler) generateTaskPrompt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := ctxGetUserID(r.Context()); err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var req generateTaskPromptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode generate-task-prompt request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}
		if len(req.CardPublicID) < 12 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("cardPublicId", "must be at least 12 characters"))
			return
		}

		card, err := h.db.CardRepo().FindByPublicIDWithList(req.CardPublicID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find card", "card", err))
			return
		}
		if card == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("card not found"))
			return
		}

		board, err := h.db.BoardRepo().FindByID(card.List.BoardID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find board", "board", err))
			return
		}
		if board == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("board not found"))
			return
		}

		projectIdea := "No project idea available"
		if board.IsAIManaged() {
			projectIdea = *board.ProjectIdea
		}
		cardDescription := card.Description
		if strings.TrimSpace(cardDescription) == "" {
			cardDescription = "No description provided"
		}

		prompt, err := h.generator.GenerateTaskPrompt(r.Context(), map[string]string{
			"projectIdea":     projectIdea,
			"boardName":       board.Name,
			"cardTitle":       card.Title,
			"cardDescription": cardDescription,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{"prompt": prompt})
	}
}

type generateDescriptionRequest struct {
	CardTitle      string   `json:"cardTitle"`
	CardType       string   `json:"cardType"`
	ProjectContext string   `json:"projectContext"`
	Requirements   []string `json:"requirements"`
}

// generateDescription produces an editor-ready HTML description for a card
// @Summary Generate a card description
// @Description Generates a structured card description guided by the card type and normalizes it to HTML
// @Tags AI
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Generated description"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid input"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /ai/generate-description [post]
func (h aiHandler) generateDescription() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := ctxGetUserID(r.Context()); err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var req generateDescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode generate-description request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		req.CardTitle = strings.TrimSpace(req.CardTitle)
		if req.CardTitle == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("cardTitle"))
			return
		}
		if len(req.CardTitle) > 255 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("cardTitle", "must be at most 255 characters"))
			return
		}

		markdown, err := h.generator.GenerateDescription(r.Context(), ai.DescriptionParams{
			CardTitle:      req.CardTitle,
			CardType:       req.CardType,
			ProjectContext: req.ProjectContext,
			Requirements:   req.Requirements,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{"description": ai.Normalize(markdown)})
	}
}

// loadingStates returns the staged progress configuration clients animate
// while a plan is being generated. No auth: the payload is static.
func (h aiHandler) loadingStates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]shared.LoadingConfig{
			"default": shared.DefaultLoadingConfig,
			"cached":  shared.CachedLoadingConfig,
		})
	}
}

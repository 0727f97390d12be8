package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/planboard/backend/database"
	"github.com/planboard/backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type boardHandler struct {
	responder Responder
	logger    zerolog.Logger
	boardRepo database.BoardStore
}

func newBoardHandler(boardRepo database.BoardStore) boardHandler {
	logger := log.With().Str("handlerName", "boardHandler").Logger()

	return boardHandler{
		responder: NewResponder(logger),
		logger:    logger,
		boardRepo: boardRepo,
	}
}

// getBoard retrieves a board with its lists, cards and labels
// @Summary Get board
// @Description Retrieves a board by its public ID together with its lists, cards and labels
// @Tags Boards
// @Accept json
// @Produce json
// @Param boardPublicId path string true "Board public ID"
// @Success 200 {object} models.Board "Board with children"
// @Failure 404 {object} ErrorResponse "Not Found - Board not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching board"
// @Router /board/{boardPublicId} [get]
func (h boardHandler) getBoard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		publicID := chi.URLParam(r, "boardPublicId")
		if publicID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing boardPublicId"))
			return
		}

		board, err := h.boardRepo.FindByPublicIDWithChildren(publicID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find board", "board", err))
			return
		}

		if board == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("board not found"))
			return
		}

		h.responder.WriteJSON(w, board)
	}
}

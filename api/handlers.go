package api

import (
	"github.com/planboard/backend/ai"
	"github.com/planboard/backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Store, generator *ai.Generator) *routeHandlers {
	return &routeHandlers{
		aiHandler:    newAIHandler(database, generator),
		boardHandler: newBoardHandler(database.BoardRepo()),
	}
}

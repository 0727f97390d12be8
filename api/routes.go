package api

import (
	"github.com/go-chi/chi/v5"
)

// setupFrontendRoutes sets up all routes with authentication
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/ai/loading-states", handlers.aiHandler.loadingStates())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		// AI Handler endpoints
		r.Post("/ai/generate-plan", handlers.aiHandler.generatePlan())
		r.Post("/ai/revise-project", handlers.aiHandler.reviseProject())
		r.Post("/ai/generate-task-prompt", handlers.aiHandler.generateTaskPrompt())
		r.Post("/ai/generate-description", handlers.aiHandler.generateDescription())

		// Board Handler endpoints
		r.Get("/board/{boardPublicId}", handlers.boardHandler.getBoard())
	})
}

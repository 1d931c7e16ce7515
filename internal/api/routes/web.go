package routes

import (
	"github.com/go-chi/chi/v5"

	"Hangar/internal/api/middleware"
	"Hangar/internal/web"
)

// RegisterWebRoutes registers the dashboard pages. Everything except the
// landing page requires a logged-in session.
func RegisterWebRoutes(r chi.Router, handlers *web.Handlers, authMW *middleware.SessionAuthMiddleware) {
	r.With(authMW.OptionalAuth).Get("/", handlers.LandingHandler)

	r.Group(func(r chi.Router) {
		r.Use(authMW.RequireAuth)
		r.Get("/main", handlers.MainHandler)
		r.Get("/pilot", handlers.PilotHandler)
		r.Get("/skills", handlers.SkillsHandler)
		r.Get("/implants", handlers.ImplantsHandler)
	})
}

package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	ssohandler "Hangar/internal/api/handlers/sso"
	"Hangar/internal/api/middleware"
)

// RegisterSSORoutes registers the EVE SSO endpoints with dedicated rate
// limiting. Login endpoints get stricter limits than the rest of the site
// to blunt credential stuffing and state exhaustion attempts.
func RegisterSSORoutes(r chi.Router, handler *ssohandler.Handler, allowedOrigins []string) {
	// 10 req/min per IP across the whole handshake
	loginLimiter := middleware.NewRateLimiter(10, 1*time.Minute)
	logoutLimiter := middleware.NewRateLimiter(10, 1*time.Minute)

	r.With(loginLimiter.Middleware).Get("/sso/login", handler.HandleLogin)

	// The callback arrives as a cross-origin redirect from the SSO server
	r.With(corsMiddleware(allowedOrigins), loginLimiter.Middleware).Get("/sso/callback", handler.HandleCallback)

	r.With(logoutLimiter.Middleware).Get("/sso/logout", handler.HandleLogout)
}

// corsMiddleware creates a CORS middleware for the SSO callback with
// specific allowed origins
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})
}

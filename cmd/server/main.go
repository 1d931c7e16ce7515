package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	ssohandler "Hangar/internal/api/handlers/sso"
	"Hangar/internal/api/middleware"
	"Hangar/internal/api/routes"
	"Hangar/internal/config"
	"Hangar/internal/core/auth"
	"Hangar/internal/core/jobs"
	"Hangar/internal/core/snapshots"
	postgresRepo "Hangar/internal/db/postgres"
	"Hangar/internal/eve/esi"
	"Hangar/internal/eve/sso"
	"Hangar/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Connected to database")

	// Run migrations
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect:", err)
	}

	if err := goose.Up(db, "internal/db/migrations"); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Migrations completed successfully")

	if err := ssohandler.InitCookieStore(cfg.SecretKey); err != nil {
		log.Fatal("Failed to initialize cookie store:", err)
	}

	// Repositories
	pilotRepo := postgresRepo.NewPilotRepository(db)
	snapshotRepo := postgresRepo.NewSnapshotRepository(db)
	jobRepo := postgresRepo.NewJobRepository(db)

	// EVE clients
	ssoClient := sso.NewClient(sso.Config{
		ClientID:     cfg.SSOClientID,
		ClientSecret: cfg.SSOSecretKey,
		CallbackURL:  cfg.SSOCallbackURL,
		AuthorizeURL: cfg.SSOAuthorizeURL,
		TokenURL:     cfg.SSOTokenURL,
		VerifyURL:    cfg.SSOVerifyURL,
		UserAgent:    cfg.UserAgent,
		Scopes:       sso.DefaultScopes,
	})
	esiClient := esi.NewClient(cfg.ESIBaseURL, cfg.UserAgent)

	// Services
	authService := auth.NewService(ssoClient, pilotRepo, cfg.SecretKey)
	snapshotService := snapshots.NewService(snapshotRepo, esiClient, authService)
	jobService := jobs.NewService(jobRepo)

	templates, err := web.NewTemplates()
	if err != nil {
		log.Fatal("Failed to load templates:", err)
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Rate limiting: 100 requests per minute per IP
	rateLimiter := middleware.NewRateLimiter(100, 1*time.Minute)
	r.Use(rateLimiter.Middleware)

	authMW := middleware.NewSessionAuthMiddleware(authService)
	pageHandlers := web.NewHandlers(templates, esiClient, authService, snapshotService, jobService)

	routes.RegisterSSORoutes(r, ssohandler.NewHandler(authService), cfg.AllowedOrigins)
	routes.RegisterWebRoutes(r, pageHandlers, authMW)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	fmt.Printf("Hangar starting on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"Hangar/internal/config"
	"Hangar/internal/core/auth"
	"Hangar/internal/core/jobs"
	"Hangar/internal/core/snapshots"
	postgresRepo "Hangar/internal/db/postgres"
	"Hangar/internal/eve/esi"
	"Hangar/internal/eve/sso"
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

	pilotRepo := postgresRepo.NewPilotRepository(db)
	snapshotRepo := postgresRepo.NewSnapshotRepository(db)
	jobRepo := postgresRepo.NewJobRepository(db)

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

	authService := auth.NewService(ssoClient, pilotRepo, cfg.SecretKey)
	snapshotService := snapshots.NewService(snapshotRepo, esiClient, authService)

	worker := jobs.NewWorker(jobRepo, jobs.DefaultPollInterval)
	worker.Register(jobs.TypeSnapshotRefresh, func(ctx context.Context, payload json.RawMessage) error {
		var p jobs.SnapshotRefreshPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return snapshotService.Refresh(ctx, p.CharacterID)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Hangar worker starting")
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal("Worker stopped:", err)
	}
	log.Println("Worker shut down")
}

// seed provisions the system identities for local development: the master
// surgeon account and the analysis engine account. Idempotent: existing
// users are left untouched.
package main

import (
	"context"
	"fmt"
	"log"

	"surgsim-platform/backend/internal/config"
	"surgsim-platform/backend/internal/db"
	"surgsim-platform/backend/internal/security"
	"surgsim-platform/backend/internal/user/domain"
	userrepo "surgsim-platform/backend/internal/user/repository"
	userservice "surgsim-platform/backend/internal/user/service"
)

const (
	surgeonUsername = "surgeon_master"
	surgeonPassword = "surgsim2024"
	aiUsername      = "analysis_engine"
	aiPassword      = "analysis_secret_2024"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	tokens := security.NewTokenProvider([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.TokenTTL())
	hasher := security.NewHasher(cfg.BcryptCost)
	users := userrepo.NewPostgresRepository(conn)
	auth := userservice.NewAuthService(users, hasher, tokens)

	if err := auth.RegisterSystemUser(ctx, surgeonUsername, surgeonPassword, domain.RoleSurgeon); err != nil {
		log.Fatalf("seed surgeon: %v", err)
	}
	if err := auth.RegisterSystemUser(ctx, aiUsername, aiPassword, domain.RoleAI); err != nil {
		log.Fatalf("seed analysis engine: %v", err)
	}

	log.Println("System users verified/created.")
	fmt.Printf("Surgeon login: %s / %s\n", surgeonUsername, surgeonPassword)
	fmt.Printf("Analysis engine login: %s / %s\n", aiUsername, aiPassword)
}

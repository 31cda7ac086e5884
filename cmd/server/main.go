// server runs the simulator backend: HTTP API plus the WebSocket telemetry
// endpoint, backed by Postgres.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"surgsim-platform/backend/internal/authz"
	"surgsim-platform/backend/internal/config"
	"surgsim-platform/backend/internal/db"
	"surgsim-platform/backend/internal/observe"
	obsotel "surgsim-platform/backend/internal/observe/otel"
	"surgsim-platform/backend/internal/security"
	"surgsim-platform/backend/internal/server"
	"surgsim-platform/backend/internal/simulation"
	surgeryrepo "surgsim-platform/backend/internal/surgery/repository"
	surgeryservice "surgsim-platform/backend/internal/surgery/service"
	userrepo "surgsim-platform/backend/internal/user/repository"
	userservice "surgsim-platform/backend/internal/user/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	ctx := context.Background()

	providers, err := obsotel.NewProviders(ctx, cfg.OTLPEndpoint, "surgsim-backend", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("observe: %v", err)
	}
	providers.SetGlobal()
	emitter := obsotel.NewEventEmitter(providers.LoggerProvider)

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	tokens := security.NewTokenProvider([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.TokenTTL())
	hasher := security.NewHasher(cfg.BcryptCost)

	users := userrepo.NewPostgresRepository(conn)
	surgeries := surgeryrepo.NewPostgresRepository(conn)

	authSvc := userservice.NewAuthService(users, hasher, tokens)
	surgerySvc := surgeryservice.NewSurgeryService(surgeries)

	authorizer, err := authz.New(ctx)
	if err != nil {
		log.Fatalf("authz: %v", err)
	}

	registry := prometheus.NewRegistry()
	metrics := simulation.NewMetrics(registry)
	aggregator := simulation.NewAggregator(surgeries, metrics, emitter)
	wsHandler := simulation.NewWSHandler(tokens, aggregator, emitter)

	api := server.New(authSvc, surgerySvc, tokens, users, authorizer, wsHandler, registry, emitter)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("http server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down http server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Let in-flight async emits finish before tearing down the exporters.
	time.Sleep(observe.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("observe shutdown: %v", err)
	}
	log.Println("http server stopped")
}

// Package main initializes and starts the ClosetQuest API server, setting up
// configuration, logging, the identity backend, services, and handlers.
package main

import (
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/closetquest/closetquest/internal/config"
	"github.com/closetquest/closetquest/internal/db"
	"github.com/closetquest/closetquest/internal/identity"
	"github.com/closetquest/closetquest/internal/logger"
	"github.com/closetquest/closetquest/internal/models"
	"github.com/closetquest/closetquest/internal/repository"
	"github.com/closetquest/closetquest/internal/server/handler/http"
	"github.com/closetquest/closetquest/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port

	// Print build metadata (or "N/A" if unset).
	buildVersion, buildTimestamp := version, buildDate
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildTimestamp == "" {
		buildTimestamp = "N/A"
	}
	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildTimestamp)

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Select the identity backend: external service when configured,
	// otherwise the built-in Postgres-backed one.
	var identityClient identity.Client
	if options.IdentityURL != "" {
		identityClient = identity.NewHTTPClient(options.IdentityURL, &nethttp.Client{Timeout: 15 * time.Second})
		zapLogger.Info("using external identity service", zap.String("url", options.IdentityURL))
	} else {
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		if options.TicketSecret == "" {
			zapLogger.Fatal("ticket secret required for the built-in identity backend")
		}

		// Prune secondary identities unseen for 30 days.
		db.StartStaleIdentityCleaner(context.Background(), postgresDB,
			time.Hour,       // interval
			30*24*time.Hour, // retention
			zapLogger,
		)

		identityRepo := repository.NewPostgresIdentityRepository(postgresDB)
		identityClient = identity.NewLocal(identityRepo, []byte(options.TicketSecret))
		zapLogger.Info("using built-in identity backend")
	}

	// Initialize business-logic services.
	gateway := service.NewGateway(identityClient, zapLogger)
	onboarding := service.NewOnboarding(identityClient)
	progress := service.NewProgress(identityClient, models.DefaultStages(), zapLogger)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: gateway, Onboarding: onboarding}
	sessionHandler := &http.SessionHandler{}
	stagesHandler := &http.StagesHandler{Progress: progress}
	onboardingHandler := &http.OnboardingHandler{Onboarding: onboarding}

	// Build the router with middleware and routes.
	router := http.NewRouter(
		authHandler,
		sessionHandler,
		stagesHandler,
		onboardingHandler,
		options.Prefixes(),
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}

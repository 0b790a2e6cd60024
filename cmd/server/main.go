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

	"github.com/joincivil/civil-newsroom-plugin/internal/api"
	"github.com/joincivil/civil-newsroom-plugin/internal/config"
	"github.com/joincivil/civil-newsroom-plugin/internal/db"
	"github.com/joincivil/civil-newsroom-plugin/internal/db/models"
	"github.com/joincivil/civil-newsroom-plugin/internal/hashing"
	"github.com/joincivil/civil-newsroom-plugin/internal/services"
	"github.com/joincivil/civil-newsroom-plugin/internal/store"
	"github.com/joincivil/civil-newsroom-plugin/internal/utils"
	"github.com/joincivil/civil-newsroom-plugin/pkg/logger"
	"github.com/joincivil/civil-newsroom-plugin/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	config.LogConfig(cfg, zapLogger)

	database, err := db.Initialize(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	metricsCollector := metrics.NewMetrics(registry)

	st := store.NewGormStore(database)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := seedDatabase(ctx, st, zapLogger); err != nil {
		zapLogger.Fatal("Failed to seed database", zap.Error(err))
	}

	fetcher := hashing.NewHTTPFetcher(30 * time.Second)
	imageHasher := hashing.NewImageHasher(fetcher, cfg.Registry.ImageCacheTTL, zapLogger, metricsCollector)
	defer imageHasher.Close()

	validator := services.NewSignatureValidator(cfg.Registry.Address, metricsCollector)
	payloadService := services.NewPayloadService(st, st, validator, imageHasher, zapLogger, metricsCollector)
	revisionService := services.NewRevisionService(st, payloadService, zapLogger, metricsCollector)
	queryService := services.NewQueryService(st, cfg.Registry, cfg.Server.BaseURL, zapLogger)
	sessionService := services.NewSessionService(cfg.Security.SessionTimeout, zapLogger)
	defer sessionService.Close()

	router := api.NewRouter(zapLogger, metricsCollector, registry, queryService, revisionService, sessionService, st)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Forced shutdown", zap.Error(err))
	}

	zapLogger.Info("Server gracefully stopped")
}

func seedDatabase(ctx context.Context, st *store.GormStore, logger *zap.Logger) error {
	count, err := st.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Database already seeded, skipping")
		return nil
	}
	logger.Info("Seeding database with initial data")

	adminHash, err := utils.EncryptPassword("change-me-on-first-login")
	if err != nil {
		return err
	}

	users := []models.User{
		{Username: "editor", Email: "editor@newsroom.example", PasswordHash: adminHash, Role: models.RoleAdmin, DisplayName: "Managing Editor", ActiveStatus: true},
		{Username: "reporter", Email: "reporter@newsroom.example", PasswordHash: adminHash, Role: models.RoleStaff, DisplayName: "Staff Reporter", ActiveStatus: true},
	}

	for i := range users {
		if err := st.SaveUser(ctx, &users[i]); err != nil {
			return err
		}
		logger.Info("Created initial user", zap.String("username", users[i].Username), zap.Uint("user_id", users[i].ID))
	}

	sample := models.Document{
		Kind:      "post",
		Title:     "Welcome to the Newsroom",
		Slug:      "welcome-to-the-newsroom",
		Body:      "This document exists so the engine has something to snapshot.",
		Status:    models.StatusDraft,
		AuthorIDs: []uint{users[1].ID},
		Tags:      []string{"news"},
	}
	if err := st.SaveDocument(ctx, &sample); err != nil {
		return err
	}

	logger.Info("Database seeding completed successfully")
	return nil
}

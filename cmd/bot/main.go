package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lugat/internal/config"
	"lugat/internal/handler"
	"lugat/internal/middleware"
	"lugat/internal/picker"
	"lugat/internal/repository/postgres"
	"lugat/internal/service"
	"lugat/internal/translate"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Lugat Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully")

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	catalogRepo := postgres.NewCatalogRepo(db)
	vocabularyRepo := postgres.NewVocabularyRepo(db)

	// Translation: web services first, built-in dictionary last
	httpClient := &http.Client{Timeout: cfg.Translate.Timeout}
	translator := translate.NewChain(cfg.Translate.Timeout, logger,
		translate.NewGoogleTranslator(httpClient, translate.GoogleURL, cfg.Translate.SourceLang, cfg.Translate.TargetLang),
		translate.NewMyMemoryTranslator(httpClient, translate.MyMemoryURL, cfg.Translate.SourceLang, cfg.Translate.TargetLang),
		translate.DefaultDictionary,
	)

	// Initialize services
	registry := service.NewRegistry()
	vocabularyService := service.NewVocabularyService(catalogRepo, vocabularyRepo, registry, logger)
	catalogService := service.NewCatalogService(catalogRepo, vocabularyRepo, registry, translator,
		cfg.Session.BroadcastConcurrency, logger)
	sessionService := service.NewSessionService(vocabularyService, registry, picker.NewTimeRand(), logger)
	maintenanceService := service.NewMaintenanceService(vocabularyRepo, vocabularyService, registry,
		cfg.Session.IdleTTL, cfg.Session.BroadcastConcurrency, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Handler failed", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	bot.Use(middleware.EnsureVocabulary(vocabularyService, logger))

	h := handler.NewHandler(bot, catalogService, vocabularyService, sessionService, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runMaintenanceJob(ctx, maintenanceService, cfg.Maintenance.Interval, logger)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations applies pending schema migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runMaintenanceJob reconciles vocabularies with the catalog and drops idle sessions
func runMaintenanceJob(ctx context.Context, maintenance *service.MaintenanceService, interval time.Duration, logger *zap.Logger) {
	// Run once at startup
	if err := maintenance.Run(ctx); err != nil {
		logger.Error("Failed to run initial maintenance", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Maintenance job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled maintenance")
			if err := maintenance.Run(ctx); err != nil {
				logger.Error("Failed to run scheduled maintenance", zap.Error(err))
			}
		}
	}
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anonask/internal/config"
	"anonask/internal/handler"
	"anonask/internal/middleware"
	"anonask/internal/repository/postgres"
	"anonask/internal/service"
	"anonask/internal/validation"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

const (
	defaultAuthorName = "Автор канала"
	defaultAuthorInfo = "Здесь можно задать анонимный вопрос"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Anonymous Questions Bot")

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

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Initialize repositories
	questionRepo := postgres.NewQuestionRepo(db)
	stateRepo := postgres.NewStateRepo(db)
	settingsRepo := postgres.NewSettingsRepo(db)
	rateRepo := postgres.NewRateWindowRepo(db)

	// Initialize services
	validator := validation.New(
		cfg.Limits.MaxQuestionLength,
		cfg.Limits.MaxAnswerLength,
		cfg.Limits.MaxSettingLength,
	)
	limiter := service.NewRateLimiter(rateRepo, cfg.Limits.RateWindow, cfg.Limits.RateCapacity, cfg.Limits.RateCooldown)
	questionService := service.NewQuestionService(questionRepo, cfg.Limits.PageSize)
	settingsService := service.NewSettingsService(settingsRepo, defaultAuthorName, defaultAuthorInfo)
	conversation := service.NewConversation(stateRepo, questionService, settingsService, limiter, validator, logger)
	cleanupService := service.NewCleanupService(rateRepo, stateRepo, cfg.Limits.RateWindow, logger)

	limitsService := service.NewLimitsService(settingsRepo, service.Limits{
		RateCapacity: cfg.Limits.RateCapacity,
		RateCooldown: cfg.Limits.RateCooldown,
		MaxQuestion:  cfg.Limits.MaxQuestionLength,
		MaxAnswer:    cfg.Limits.MaxAnswerLength,
		PageSize:     cfg.Limits.PageSize,
	}, validator, limiter, questionService, logger)
	if err := limitsService.Load(); err != nil {
		logger.Fatal("Failed to load runtime limits", zap.Error(err))
	}

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Flood guard in front of every handler
	bot.Use(middleware.Throttle(rate.Every(300*time.Millisecond), 5, logger))

	// Initialize handler
	h := handler.NewHandler(bot, conversation, questionService, settingsService, limitsService, cfg.AdminID, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start cleanup job in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runCleanupJob(ctx, cleanupService, logger)

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

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
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

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runCleanupJob periodically prunes expired rate events and stale flows
func runCleanupJob(ctx context.Context, cleanup *service.CleanupService, logger *zap.Logger) {
	// Run cleanup once at startup
	if err := cleanup.Run(); err != nil {
		logger.Error("Failed to run initial cleanup", zap.Error(err))
	}

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			if err := cleanup.Run(); err != nil {
				logger.Error("Failed to run scheduled cleanup", zap.Error(err))
			}
		}
	}
}

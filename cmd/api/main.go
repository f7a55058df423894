package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"smartintern/internal/ai"
	"smartintern/internal/api"
	"smartintern/internal/auth"
	"smartintern/internal/automation"
	"smartintern/internal/config"
	"smartintern/internal/database"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// A missing database URL degrades the service instead of aborting it:
	// the health endpoint reports "disconnected" and DB-backed routes
	// answer 503.
	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		logger.Warn("starting without database", slog.Any("error", err))
		db = nil
	} else {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("migrate database: %v", err)
		}
		logger.Info("database connection ready")
	}

	authService, err := auth.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		// Login throttling fails open without redis.
		logger.Warn("redis unreachable", slog.String("addr", cfg.Redis.Addr()), slog.Any("error", err))
	}

	var generator ai.Generator = ai.DisabledGenerator{}
	if cfg.Gemini.APIKey != "" {
		client, err := ai.NewGeminiClient(context.Background(), cfg.Gemini)
		if err != nil {
			logger.Warn("gemini client unavailable", slog.Any("error", err))
		} else {
			generator = client
			logger.Info("gemini client ready", slog.String("model", cfg.Gemini.Model))
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI features degraded")
	}
	aiService := ai.NewService(generator)

	var engine *automation.Engine
	if db != nil {
		engine = automation.NewEngine(db)
	}

	router := api.NewRouter(cfg, logger, db != nil)
	api.RegisterRoutes(
		router,
		db,
		authService,
		aiService,
		engine,
		redisClient,
		logger,
		cfg.Auth.LoginRateLimitPerHour,
		cfg.Auth.LoginLockThreshold,
		cfg.Auth.LoginLockTTL(),
	)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening", slog.String("address", address))

	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"caltrack-backend-go/internal/analysis"
	"caltrack-backend-go/internal/config"
	"caltrack-backend-go/internal/database"
	"caltrack-backend-go/internal/domain"
	"caltrack-backend-go/internal/logger"
	"caltrack-backend-go/internal/ratelimit"
	"caltrack-backend-go/internal/repository"
	"caltrack-backend-go/internal/server"
	"caltrack-backend-go/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting calorie tracker backend...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()
	logger.Info("Database connection established and migrations completed")

	userRepo := repository.NewUserRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	registry := analysis.NewRegistry()
	if cfg.AI.GeminiAPIKey != "" {
		gemini, err := analysis.NewGeminiAnalyzer(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
		if err != nil {
			logger.Fatalf("Failed to initialize Gemini analyzer: %v", err)
		}
		defer gemini.Close()
		registry.Register(domain.ProviderGemini, gemini)
	}
	if cfg.AI.OpenAIAPIKey != "" {
		registry.Register(domain.ProviderOpenAI, analysis.NewOpenAIAnalyzer(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel))
	}
	logger.Info("AI providers registered", "providers", registry.Providers())

	var limiter ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		redisLimiter, err := ratelimit.NewRedisLimiter(cfg.Redis.Addr, cfg.RateLimit.AnalysisPerMinute, time.Minute)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisLimiter.Close()
		limiter = redisLimiter
		logger.Info("Using Redis rate limiter", "addr", cfg.Redis.Addr)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.AnalysisPerMinute, time.Minute)
		logger.Info("Using in-memory rate limiter")
	}

	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	profileService := services.NewProfileService(userRepo)
	entryService := services.NewEntryService(entryRepo)
	favoriteService := services.NewFavoriteService(favoriteRepo)
	analysisService := services.NewAnalysisService(registry, userRepo, limiter, cfg.AI.Timeout)
	logger.Info("Services initialized successfully")

	srv := server.New(authService, profileService, entryService, favoriteService, analysisService)
	if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
		logger.Fatalf("Server stopped with error: %v", err)
	}
	logger.Info("Server shut down cleanly")
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"caltrack-backend-go/internal/logger"
)

type Config struct {
	HTTPAddr  string
	DB        DBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	AI        AIConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig configures the analysis rate limiter backend. An empty Addr
// selects the in-memory limiter instead.
type RedisConfig struct {
	Addr string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type AIConfig struct {
	GeminiAPIKey string
	OpenAIAPIKey string
	GeminiModel  string
	OpenAIModel  string
	Timeout      time.Duration
}

type RateLimitConfig struct {
	AnalysisPerMinute int
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr: getEnvOrDefault("HTTP_ADDR", ":3000"),
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "caltrack"),
		},
		Redis: RedisConfig{
			Addr: os.Getenv("REDIS_ADDR"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  getDurationOrDefault("TOKEN_TTL", 7*24*time.Hour),
		},
		AI: AIConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
			GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			OpenAIModel:  getEnvOrDefault("OPENAI_MODEL", "gpt-4o"),
			Timeout:      getDurationOrDefault("ANALYSIS_TIMEOUT", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			AnalysisPerMinute: getIntOrDefault("ANALYSIS_RATE_LIMIT", 10),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

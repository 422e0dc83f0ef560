package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"caltrack-backend-go/internal/config"
)

func main() {
	fmt.Println("🔍 Validating configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration validation failed:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Configuration details:\n")
	fmt.Printf("  - HTTP Addr: %s\n", cfg.HTTPAddr)
	fmt.Printf("  - JWT Secret: %s\n", maskToken(cfg.Auth.JWTSecret))
	fmt.Printf("  - Token TTL: %s\n", cfg.Auth.TokenTTL)
	fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.AI.GeminiAPIKey))
	fmt.Printf("  - OpenAI API Key: %s\n", maskToken(cfg.AI.OpenAIAPIKey))
	fmt.Printf("  - Gemini Model: %s\n", cfg.AI.GeminiModel)
	fmt.Printf("  - OpenAI Model: %s\n", cfg.AI.OpenAIModel)
	fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
	fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
	fmt.Printf("  - DB User: %s\n", cfg.DB.User)
	fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	fmt.Printf("  - Redis Addr: %s\n", orUnset(cfg.Redis.Addr))
	fmt.Printf("  - Analysis Rate Limit: %d/min\n", cfg.RateLimit.AnalysisPerMinute)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func orUnset(value string) string {
	if value == "" {
		return "<not set>"
	}
	return value
}

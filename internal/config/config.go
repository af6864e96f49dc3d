package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort          string
	DBPath           string
	QdrantURL        string
	QdrantCollection string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	EmbedderURL      string
	EmbeddingModel   string
	LLMBaseURL       string
	LLMModelName     string
	LLMAPIKey        string
	MaxUploadBytes   int64
	LogLevel         slog.Level
	LogFormat        string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:          getEnv("API_PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "./data/sage-ai.db"),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "papers_chunks"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		EmbedderURL:      getEnv("EMBEDDER_URL", "http://localhost:9100"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "BAAI/bge-small-en-v1.5"),
		LLMBaseURL:       getEnv("LLM_BASE_URL", "http://localhost:8081"),
		LLMModelName:     getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:        getEnv("LLM_API_KEY", "dummy-key"),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be a valid integer: %w", err)
	}
	cfg.RedisDB = redisDB

	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "26214400"), 10, 64) // 25 MiB
	if err != nil {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be a valid integer: %w", err)
	}
	if maxUpload <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be greater than 0")
	}
	cfg.MaxUploadBytes = maxUpload

	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json")
	}

	// Create the data directory if it doesn't exist (for the SQLite file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

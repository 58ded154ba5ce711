package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	DBPath             string
	QdrantURL          string
	QdrantCollection   string
	QdrantVectorSize   int
	ChunkSize          int
	ChunkOverlap       int
	TopK               int
	RateLimit          int
	RateWindow         time.Duration
	IngestWorkers      int
	MaxSessions        int
	MaxTurnsPerSession int
	APIPort            string
	LogLevel           slog.Level
	LogFormat          string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:       getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "all-MiniLM-L6-v2"),
		DBPath:             getEnv("DB_PATH", "./data/docqa.db"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "documents"),
		APIPort:            getEnv("API_PORT", "8000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	// Parse QDRANT_VECTOR_SIZE
	// This must match the output vector size of the embeddings model.
	// If the vector size changes, the Qdrant collection must be recreated.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 400); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 50); err != nil {
		return nil, err
	}
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	// The splitter does not progress when overlap >= size.
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE)")
	}

	if cfg.TopK, err = getEnvInt("TOP_K", 4); err != nil {
		return nil, err
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("TOP_K must be greater than 0")
	}

	if cfg.RateLimit, err = getEnvInt("RATE_LIMIT", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT must be greater than 0")
	}
	windowSeconds, err := getEnvInt("RATE_WINDOW_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	if windowSeconds <= 0 {
		return nil, fmt.Errorf("RATE_WINDOW_SECONDS must be greater than 0")
	}
	cfg.RateWindow = time.Duration(windowSeconds) * time.Second

	if cfg.IngestWorkers, err = getEnvInt("INGEST_WORKERS", 2); err != nil {
		return nil, err
	}
	if cfg.IngestWorkers <= 0 {
		return nil, fmt.Errorf("INGEST_WORKERS must be greater than 0")
	}

	if cfg.MaxSessions, err = getEnvInt("MAX_SESSIONS", 1024); err != nil {
		return nil, err
	}
	if cfg.MaxTurnsPerSession, err = getEnvInt("MAX_TURNS_PER_SESSION", 50); err != nil {
		return nil, err
	}
	if cfg.MaxSessions <= 0 || cfg.MaxTurnsPerSession <= 0 {
		return nil, fmt.Errorf("MAX_SESSIONS and MAX_TURNS_PER_SESSION must be greater than 0")
	}

	cfg.LogLevel = parseLogLevel(getEnv("LOG_LEVEL", "info"))

	// Create the data directory if it doesn't exist (for the DB file)
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

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

// parseLogLevel maps a level name to a slog.Level, defaulting to Info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

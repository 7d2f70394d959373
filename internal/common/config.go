package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Ollama  OllamaConfig
	Prompt  PromptConfig
	DMS     DMSConfig
	Storage StorageConfig
	Cache   CacheConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	HTTPAddr string
}

// OllamaConfig holds inference endpoint configuration.
type OllamaConfig struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	NumCtx     int
	NumPredict int
}

// PromptConfig holds prompt template selection.
type PromptConfig struct {
	UsePredefinedTags bool
	PredefinedTags    string
	UseExistingData   bool
	SystemPrompt      string
}

// DMSConfig holds document-repository collaborator configuration.
type DMSConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// StorageConfig selects and configures the history store.
type StorageConfig struct {
	Driver      string // "sqlite" or "postgres"
	SQLitePath  string
	PostgresDSN string
}

// CacheConfig holds thumbnail cache and prompt audit log paths.
type CacheConfig struct {
	ThumbnailDir      string
	PromptLogPath     string
	PromptLogMaxBytes int64
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		Ollama: OllamaConfig{
			BaseURL:    getEnv("OLLAMA_URL", "http://127.0.0.1:11434"),
			Model:      getEnv("OLLAMA_MODEL", "llama3.1"),
			Timeout:    getEnvAsDuration("OLLAMA_TIMEOUT", 10*time.Minute),
			NumCtx:     getEnvAsInt("OLLAMA_NUM_CTX", 8192),
			NumPredict: getEnvAsInt("OLLAMA_NUM_PREDICT", 1024),
		},
		Prompt: PromptConfig{
			UsePredefinedTags: getEnvAsBool("USE_PROMPT_TAGS", false),
			PredefinedTags:    getEnv("PROMPT_TAGS", ""),
			UseExistingData:   getEnvAsBool("USE_EXISTING_DATA", false),
			SystemPrompt:      getEnv("SYSTEM_PROMPT", ""),
		},
		DMS: DMSConfig{
			BaseURL: getEnv("DMS_URL", ""),
			Token:   getEnv("DMS_TOKEN", ""),
			Timeout: getEnvAsDuration("DMS_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORE_DRIVER", "sqlite"),
			SQLitePath:  getEnv("SQLITE_PATH", "./papersift.db"),
			PostgresDSN: getEnv("DATABASE_URL", ""),
		},
		Cache: CacheConfig{
			ThumbnailDir:      getEnv("THUMBNAIL_DIR", "./public/images"),
			PromptLogPath:     getEnv("PROMPT_LOG_PATH", "./logs/prompt.txt"),
			PromptLogMaxBytes: getEnvAsInt64("PROMPT_LOG_MAX_BYTES", 10*1024*1024),
		},
	}
}

// Validate checks the loaded configuration for unusable combinations.
func (c *Config) Validate() error {
	if c.Ollama.BaseURL == "" {
		return NewAppError("CONFIG_ERROR", "OLLAMA_URL is required", ErrInvalidInput)
	}
	if c.Storage.Driver != "sqlite" && c.Storage.Driver != "postgres" {
		return NewAppError("CONFIG_ERROR", "STORE_DRIVER must be sqlite or postgres", ErrInvalidInput)
	}
	if c.Storage.Driver == "postgres" && c.Storage.PostgresDSN == "" {
		return NewAppError("CONFIG_ERROR", "DATABASE_URL is required for the postgres driver", ErrInvalidInput)
	}
	if c.Prompt.UsePredefinedTags && c.Prompt.PredefinedTags == "" {
		return NewAppError("CONFIG_ERROR", "PROMPT_TAGS is required when USE_PROMPT_TAGS is set", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

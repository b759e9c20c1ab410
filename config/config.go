package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Firebase   FirebaseConfig
	Generation GenerationConfig
	Storage    StorageConfig
	Portfolio  PortfolioConfig
	Quota      QuotaConfig
	App        AppConfig
}

type ServerConfig struct {
	Port string
	// AllowedOrigins lists the origins permitted by CORS; empty allows all.
	AllowedOrigins []string
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
}

type GenerationConfig struct {
	// Provider selects the answer generation backend: vertex, openai or mock.
	Provider string
	Model    string

	// Vertex AI settings.
	GCPProjectID string
	GCPLocation  string

	// OpenAI-compatible settings.
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

type StorageConfig struct {
	// Backend selects the profile store: firestore, postgres or memory.
	Backend string
	DSN     string
}

type PortfolioConfig struct {
	Path      string
	RedisAddr string
	CacheTTL  int // seconds; 0 disables caching
}

type QuotaConfig struct {
	DefaultLimit int
	// ResetCron, when non-empty, schedules a recurring reset of every
	// profile's prompt usage (six-field cron expression).
	ResetCron string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		},
		Generation: GenerationConfig{
			Provider:      getEnv("GENERATION_PROVIDER", "vertex"),
			Model:         getEnv("GENERATION_MODEL", "gemini-2.5-flash"),
			GCPProjectID:  getEnv("GCP_PROJECT_ID", ""),
			GCPLocation:   getEnv("GCP_LOCATION", "us-central1"),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "firestore"),
			DSN:     getEnv("DB_DSN", ""),
		},
		Portfolio: PortfolioConfig{
			Path:      getEnv("PORTFOLIO_PATH", "data/portfolio-data.md"),
			RedisAddr: getEnv("REDIS_ADDR", ""),
			CacheTTL:  getEnvAsInt("PORTFOLIO_CACHE_TTL", 300),
		},
		Quota: QuotaConfig{
			DefaultLimit: getEnvAsInt("PROMPT_LIMIT", 10),
			ResetCron:    getEnv("QUOTA_RESET_CRON", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Portfolio.Path == "" {
		return fmt.Errorf("PORTFOLIO_PATH is required")
	}

	switch c.Storage.Backend {
	case "firestore", "postgres", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	if c.Storage.Backend == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("DB_DSN is required when STORAGE_BACKEND=postgres")
	}

	switch c.Generation.Provider {
	case "vertex", "openai", "mock":
	default:
		return fmt.Errorf("unknown GENERATION_PROVIDER %q", c.Generation.Provider)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

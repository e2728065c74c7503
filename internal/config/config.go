// Package config loads the service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the full runtime configuration.
type Config struct {
	Addr        string `validate:"required"`
	Environment string `validate:"oneof=development staging production"`

	// DBPath is the sqlite file path. Empty selects the in-memory store,
	// which is what tests and quick local runs want.
	DBPath string

	// PromptRegistryPath points at the YAML prompt registry. Empty selects
	// the built-in default registry without hot reload.
	PromptRegistryPath string

	// GeminiAPIKey enables the real provider. Empty selects the offline
	// provider so the service stays usable without credentials.
	GeminiAPIKey string
	GeminiModel  string

	JWTSecret   string `validate:"required,min=16"`
	CORSOrigins []string

	RetryMaxAttempts int           `validate:"min=1,max=10"`
	RetryBaseDelay   time.Duration `validate:"min=0"`

	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, applies defaults, and
// validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:               getEnv("ADDR", ":8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		DBPath:             os.Getenv("DB_PATH"),
		PromptRegistryPath: os.Getenv("PROMPT_REGISTRY_PATH"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		JWTSecret:          getEnv("JWT_SECRET", "local-development-secret"),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
		RetryMaxAttempts:   getEnvInt("GENERATION_MAX_ATTEMPTS", 3),
		RetryBaseDelay:     getEnvDuration("GENERATION_BASE_DELAY", 2*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

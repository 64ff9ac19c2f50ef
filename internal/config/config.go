// Package config builds the application configuration once at startup.
// Components receive the Config by reference and never read the environment
// themselves.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every knob the core needs: collaborator credentials, model
// names and the cost-control ceilings on page count and prompt size.
type Config struct {
	GeminiAPIKey string
	DatabaseURL  string

	ExtractionModel string // model used for statement parsing
	PriceModel      string // model used for price extraction

	PageCap        int // statement pages read per upload
	MaxPromptChars int // ceiling on the text block sent per extraction call

	SearchMaxResults int
	SearchLocale     string

	LogLevel string
}

// Load reads .env if present, then the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ExtractionModel:  getEnv("EXTRACTION_MODEL", "gemini-2.5-flash"),
		PriceModel:       getEnv("PRICE_MODEL", "gemini-1.5-flash"),
		PageCap:          getEnvInt("PAGE_CAP", 3),
		MaxPromptChars:   getEnvInt("MAX_PROMPT_CHARS", 30000),
		SearchMaxResults: getEnvInt("SEARCH_MAX_RESULTS", 3),
		SearchLocale:     getEnv("SEARCH_LOCALE", "India"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var problems []string

	if c.GeminiAPIKey == "" {
		problems = append(problems, "GEMINI_API_KEY is required")
	}
	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if c.PageCap <= 0 {
		problems = append(problems, "PAGE_CAP must be greater than 0")
	}
	if c.MaxPromptChars <= 0 {
		problems = append(problems, "MAX_PROMPT_CHARS must be greater than 0")
	}
	if c.SearchMaxResults <= 0 {
		problems = append(problems, "SEARCH_MAX_RESULTS must be greater than 0")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	EventSubject      string
	JWTSecret         string
	AIProvider        string
	GeminiAPIKey      string
	OpenAIAPIKey      string
	GenerationModel   string
	FallbackModels    []string
	GenerationTone    string
	SuggestionTimeout time.Duration
	SummaryCacheTTL   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AULAFORGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "AulaForge API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("event.subject", "aulaforge.grading.events")
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-1.5-pro")
	v.SetDefault("ai.tone", "encouraging")
	v.SetDefault("suggestion.timeout", "120s")
	v.SetDefault("summary.cache_ttl", "5m")

	suggestionTimeout, err := time.ParseDuration(v.GetString("suggestion.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid suggestion timeout: %w", err)
	}

	summaryTTL, err := time.ParseDuration(v.GetString("summary.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid summary cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		EventSubject:      v.GetString("event.subject"),
		JWTSecret:         v.GetString("jwt.secret"),
		AIProvider:        strings.ToLower(v.GetString("ai.provider")),
		GeminiAPIKey:      v.GetString("gemini_api_key"),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		GenerationModel:   v.GetString("ai.model"),
		FallbackModels:    splitModels(v.GetString("ai.fallback_models")),
		GenerationTone:    v.GetString("ai.tone"),
		SuggestionTimeout: suggestionTimeout,
		SummaryCacheTTL:   summaryTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

func splitModels(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	models := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			models = append(models, trimmed)
		}
	}
	return models
}

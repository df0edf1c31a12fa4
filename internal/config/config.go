// Package config loads shared process configuration for the MCP server
// and the CLI from CSM_* environment variables.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration.
type Config struct {
	// BackendURL is the base URL of the dashboard backend.
	BackendURL string `envconfig:"BACKEND_URL" default:"http://127.0.0.1:8000"`

	// APIKey authenticates against the backend. Empty means
	// unauthenticated (local development backends allow it).
	APIKey string `envconfig:"API_KEY"`

	// OpenAIAPIKey enables the AI assistant features. The unprefixed
	// OPENAI_API_KEY is honored so the conventional variable keeps working.
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// DemoMode serves canned content when the AI pipeline is unavailable.
	DemoMode bool `envconfig:"DEMO_MODE"`

	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	RateLimitDelay time.Duration `envconfig:"RATE_LIMIT_DELAY" default:"1s"`
	MaxAttempts    int           `envconfig:"MAX_ATTEMPTS" default:"5"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads CSM_* environment variables over the struct defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("csm", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// InitLogger applies the configured log level globally.
func (c *Config) InitLogger() {
	zerolog.SetGlobalLevel(parseLogLevel(c.LogLevel))
	log.Logger = log.With().Caller().Logger()
}

func parseLogLevel(s string) zerolog.Level {
	switch s {
	case "debug", "DEBUG":
		return zerolog.DebugLevel
	case "warn", "WARN":
		return zerolog.WarnLevel
	case "error", "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// README: Config loader with env defaults for the LLM provider, tools, storage, and HTTP host.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Provider names accepted in ATLAS_LLM_PROVIDER.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type Config struct {
	// LLM access
	Provider          string `env:"ATLAS_LLM_PROVIDER" envDefault:"openrouter"`
	Model             string `env:"ATLAS_LLM_MODEL" envDefault:"openai/gpt-4o"`
	OpenRouterAPIKey  string `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	GeminiAPIKey      string `env:"GEMINI_API_KEY"`

	// Agent loop
	MaxToolRounds int `env:"ATLAS_MAX_TOOL_ROUNDS" envDefault:"8"`

	// External services used by tools
	WeatherAPIKey string `env:"ATLAS_WEATHER_API_KEY"`
	MapsAPIKey    string `env:"GOOGLE_MAPS_API_KEY"`

	// Storage
	DBDSN     string `env:"ATLAS_DB_DSN"`
	RedisAddr string `env:"ATLAS_REDIS_ADDR"`

	// HTTP front end
	Host string `env:"ATLAS_HOST" envDefault:"127.0.0.1"`
	Port int    `env:"ATLAS_PORT" envDefault:"8050"`

	Debug bool `env:"ATLAS_DEBUG" envDefault:"false"`
}

// Addr returns the host:port pair the HTTP server binds to.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads settings from the environment, after an optional .env file.
// A missing .env is not an error; a missing required credential is.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults re-applies the documented defaults for variables that
// are set but empty. env.Parse only honours envDefault when a variable
// is unset, and a blank line in a .env file produces set-but-empty.
func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Provider) == "" {
		c.Provider = ProviderOpenRouter
	}
	if strings.TrimSpace(c.Model) == "" {
		c.Model = "openai/gpt-4o"
	}
	if strings.TrimSpace(c.OpenRouterBaseURL) == "" {
		c.OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	}
	if c.MaxToolRounds == 0 {
		c.MaxToolRounds = 8
	}
	if strings.TrimSpace(c.Host) == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 8050
	}
}

// validate fails fast on the credential the selected provider depends on.
func (c *Config) validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case ProviderOpenRouter:
		if strings.TrimSpace(c.OpenRouterAPIKey) == "" {
			return fmt.Errorf("config: OPENROUTER_API_KEY is required")
		}
	case ProviderGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return fmt.Errorf("config: GEMINI_API_KEY is required")
		}
	default:
		return fmt.Errorf("config: unknown ATLAS_LLM_PROVIDER %q", c.Provider)
	}
	if c.MaxToolRounds < 1 {
		return fmt.Errorf("config: ATLAS_MAX_TOOL_ROUNDS must be >= 1")
	}
	return nil
}

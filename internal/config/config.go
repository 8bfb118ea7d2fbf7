// Package config loads bot settings from the environment. A .env file in
// the working directory is applied first, so local runs need no exported
// variables.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the bot needs to start. Environment variables
// are parsed from the HEALTHBOT_ prefix, e.g. HEALTHBOT_DB_DRIVER.
type Config struct {
	// Record store: sqlite for single-host runs, postgres for shared ones.
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"healthbot.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Session store: in-memory unless a Redis address is given.
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`

	// Weather: OpenWeatherMap first, wttr.in scrape as fallback.
	OpenWeatherKey string `envconfig:"OPENWEATHER_KEY" default:""`

	// Food lookup LLM.
	LLMAPIKey  string `envconfig:"LLM_API_KEY" default:""`
	LLMBaseURL string `envconfig:"LLM_BASE_URL" default:""`
	LLMModel   string `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`

	// WhatsApp device session database.
	WhatsAppDBPath string `envconfig:"WHATSAPP_DB_PATH" default:"whatsapp.db"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env (when present) and the HEALTHBOT_ environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("HEALTHBOT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("HEALTHBOT_SQLITE_PATH must be set for the sqlite driver")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("HEALTHBOT_POSTGRES_DSN must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.LLMAPIKey == "" {
		return fmt.Errorf("HEALTHBOT_LLM_API_KEY must be set")
	}
	return nil
}

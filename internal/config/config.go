package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all runtime configuration. It is built once at startup and
// passed into component constructors; there are no package-level globals.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	VerifyToken string `env:"VERIFY_TOKEN" envDefault:"my-secret"`

	// Spond credentials. The Spond API is unofficial and only supports
	// username/password login.
	SpondUser string `env:"SPOND_USER,notEmpty"`
	SpondPass string `env:"SPOND_PASS,notEmpty"`
	SpondBase string `env:"SPOND_BASE" envDefault:"https://api.spond.com/core/v1"`

	// WhatsApp Cloud API credentials.
	WhatsAppToken string `env:"WABA_TOKEN,notEmpty"`
	PhoneNumberID string `env:"WABA_PHONE_ID,notEmpty"`
	GraphBase     string `env:"GRAPH_BASE" envDefault:"https://graph.facebook.com/v20.0"`

	DaysAhead int `env:"DAYS_AHEAD" envDefault:"14"`

	// DatabaseURL selects postgres when set; otherwise a local sqlite file
	// at DBPath is used.
	DatabaseURL string `env:"DATABASE_URL"`
	DBPath      string `env:"DB_PATH" envDefault:"app.db"`
}

// Load reads the optional .env file and parses the environment. Missing
// required credentials are returned as an error so main can fail fast;
// only VERIFY_TOKEN has a development default.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

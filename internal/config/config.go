package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"FinanceFlow"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Timezone string `envconfig:"APP_TIMEZONE" default:"UTC"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"financeflow"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
		// Attempts bounds the startup connection retries.
		Attempts uint `envconfig:"DB_CONNECT_ATTEMPTS" default:"5"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
		Issuer    string `envconfig:"AUTH_ISSUER"`
		// Token is the session the TUI restores on start.
		Token string `envconfig:"FINANCEFLOW_TOKEN"`
	}

	Gate struct {
		PollInterval time.Duration `envconfig:"GATE_POLL_INTERVAL" default:"5s"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"INFO"`
		JSON  bool   `envconfig:"LOG_JSON" default:"false"`
		// File receives the TUI log; the terminal belongs to the UI.
		File string `envconfig:"LOG_FILE" default:"financeflow-tui.log"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// Location resolves APP_TIMEZONE, the zone "current month" is computed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.App.Timezone, err)
	}

	return loc, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Port < 1 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.App.Port)
	}

	if c.Gate.PollInterval < 100*time.Millisecond {
		return fmt.Errorf("invalid gate poll interval %v: must be at least 100ms", c.Gate.PollInterval)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

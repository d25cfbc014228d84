package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the process-wide settings, loaded once at startup and
// immutable thereafter.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	MongoURI       string        `env:"MONGO_URI"`
	DBName         string        `env:"DB_NAME" envDefault:"storefront"`
	StorageTimeout time.Duration `env:"STORAGE_TIMEOUT" envDefault:"5s"`

	JWTSecret            string        `env:"JWT_SECRET"`
	TokenIssuer          string        `env:"TOKEN_ISSUER" envDefault:"storefront-api"`
	AccessTokenExpiresIn time.Duration `env:"ACCESS_TOKEN_EXPIRES_IN" envDefault:"1h"`
	ResetTokenExpiresIn  time.Duration `env:"RESET_TOKEN_EXPIRES_IN" envDefault:"1h"`

	// Hex-encoded AES-256 key and 16-byte IV for the PII field cipher.
	PIICipherKey string `env:"PII_CIPHER_KEY"`
	PIICipherIV  string `env:"PII_CIPHER_IV"`

	// Base URL of the HTTP notification collaborator. When empty, outbound
	// mail is sent directly over SMTP instead.
	NotificationServiceURL string        `env:"NOTIFICATION_SERVICE_URL"`
	NotifyTimeout          time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s"`
	FrontendURL            string        `env:"APP_FRONTEND_URL"`

	SMTP SMTPConfig `envPrefix:"SMTP_"`
}

// SMTPConfig configures the direct-SMTP sender. Only required when
// NOTIFICATION_SERVICE_URL is unset.
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
}

// Load reads a .env file if present, then parses the environment.
func Load() (*Config, error) {
	// A missing .env is fine in deployed environments.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET environment variable")
	}
	if c.PIICipherKey == "" {
		return fmt.Errorf("missing PII_CIPHER_KEY environment variable")
	}
	if c.PIICipherIV == "" {
		return fmt.Errorf("missing PII_CIPHER_IV environment variable")
	}
	if c.FrontendURL == "" {
		return fmt.Errorf("missing APP_FRONTEND_URL environment variable")
	}
	if c.NotificationServiceURL == "" && c.SMTP.Host == "" {
		return fmt.Errorf("either NOTIFICATION_SERVICE_URL or SMTP_HOST must be set")
	}

	return nil
}

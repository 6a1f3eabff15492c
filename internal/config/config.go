// Package config loads process-wide settings once at startup. Components get
// the parts they need passed in explicitly; nothing reads the environment at
// call time.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"flipsip/internal/whatsapp"
	"flipsip/pkg/rabbitmq"

	"github.com/spf13/viper"
)

// Config holds all server settings.
type Config struct {
	AppPort        string
	RequestTimeout time.Duration
	DefaultCountry string

	Database DatabaseConfig
	Auth     AuthConfig
	RabbitMQ rabbitmq.Config // empty URL disables order events
	WhatsApp whatsapp.Config
}

// DatabaseConfig selects the GORM dialector and its DSN.
type DatabaseConfig struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

// AuthConfig holds session signing and route guard settings.
type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration

	// Bcrypt hashes of the shared secrets guarding the admin and auth
	// callback routes. An empty hash disables the route.
	AdminSecretHash        string
	AuthCallbackSecretHash string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("DEFAULT_COUNTRY", "India")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=flipsip port=5432 sslmode=disable")
	v.SetDefault("JWT_TOKEN_DURATION", "720h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("WHATSAPP_ADMIN_NUMBERS", "")
}

// New returns a viper instance wired to the environment and an optional
// config.yaml in the working directory.
func New() (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load builds a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		DefaultCountry: v.GetString("DEFAULT_COUNTRY"),
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Auth: AuthConfig{
			JWTSecret:              v.GetString("JWT_SECRET"),
			TokenDuration:          v.GetDuration("JWT_TOKEN_DURATION"),
			AdminSecretHash:        v.GetString("ADMIN_SECRET_HASH"),
			AuthCallbackSecretHash: v.GetString("AUTH_CALLBACK_SECRET_HASH"),
		},
		RabbitMQ: rabbitmq.Config{URL: v.GetString("RABBITMQ_URL")},
		WhatsApp: whatsapp.Config{AdminNumbers: ParseAdminNumbers(v.GetString("WHATSAPP_ADMIN_NUMBERS"))},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.Database.Driver)
	}
	return cfg, nil
}

// ParseAdminNumbers splits a comma separated number list, trimming blanks and
// dropping empty entries. Order is preserved.
func ParseAdminNumbers(raw string) []string {
	var numbers []string
	for _, n := range strings.Split(raw, ",") {
		if n = strings.TrimSpace(n); n != "" {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

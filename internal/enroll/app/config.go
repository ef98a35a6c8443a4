package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`        // Environment (dev, staging, prod)
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"` // Log level (debug, info, warn, error)
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	// Database. Driver selects sqlite (single-node deployments) or postgres.
	DatabaseDriver string `env:"ENROLL_DB_DRIVER" envDefault:"sqlite"`
	DatabaseDSN    string `env:"ENROLL_DB_DSN" envDefault:"enroll.db"`

	// Auth. Access tokens are issued by the platform auth service and
	// verified here with a shared HS256 secret.
	AuthSecret string `env:"ENROLL_AUTH_SECRET,required"`
	AuthIssuer string `env:"ENROLL_AUTH_ISSUER" envDefault:"classforge-auth"`

	// Notifications. Empty URL means log-only delivery.
	NotifyWebhookURL string        `env:"ENROLL_NOTIFY_WEBHOOK_URL"`
	NotifyTimeout    time.Duration `env:"ENROLL_NOTIFY_TIMEOUT" envDefault:"5s"`

	// Background sweep of expired invitations. Zero disables the worker;
	// admins can still trigger per-organization cleanup over the API.
	HousekeepingInterval time.Duration `env:"ENROLL_HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	return cfg, nil
}

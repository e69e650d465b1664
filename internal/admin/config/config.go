// Package config loads the admin backend's configuration from environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config is the full runtime configuration.
type Config struct {
	// Server
	Port            string        `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Persistence
	MongoDBURI   string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"finadmin"`

	// Events broker; empty address disables publishing
	RedisAddr     string `env:"REDIS_ADDR" envDefault:""`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// External transaction feed
	FeedBaseURL string `env:"FEED_BASE_URL" envDefault:""`
	FeedAPIKey  string `env:"FEED_API_KEY" envDefault:""`

	// Auth
	JWTSecretKey   string        `env:"JWT_SECRET_KEY,required"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"finadmin"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`

	// Reconciliation
	SyncMaxBatchSize int `env:"SYNC_MAX_BATCH_SIZE" envDefault:"500"`

	// Retry policy for store operations
	RetryDelay       time.Duration `env:"RETRY_DELAY" envDefault:"1s"`
	RetryMaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"5"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.SyncMaxBatchSize < 10 {
		return nil, fmt.Errorf("SYNC_MAX_BATCH_SIZE must be at least 10, got %d", cfg.SyncMaxBatchSize)
	}
	return cfg, nil
}

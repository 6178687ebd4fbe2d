package config

import (
	"fmt"  // For error wrapping
	"time" // Durations for session and rate limit settings

	"github.com/caarlos0/env/v11" // Typed environment parsing
	"github.com/joho/godotenv"    // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort         string        `env:"APP_PORT" envDefault:"8080"`             // Application port
	DBUser          string        `env:"DB_USER" envDefault:"root"`              // Database user
	DBPassword      string        `env:"DB_PASSWORD"`                            // Database password
	DBHost          string        `env:"DB_HOST" envDefault:"127.0.0.1"`         // Database host
	DBPort          string        `env:"DB_PORT" envDefault:"3306"`              // Database port
	DBName          string        `env:"DB_NAME" envDefault:"staffadmin"`        // Database name
	SessionSecret   string        `env:"SESSION_SECRET,notEmpty"`                // Key used to sign session cookies
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"12h"`           // Session lifetime
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"` // Redis server address
	RedisPass       string        `env:"REDIS_PASS"`                             // Redis password
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`                // Redis database number
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`       // Login attempts allowed per window
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`      // Login rate limit window
	IsProd          bool          `env:"IS_PROD" envDefault:"false"`             // Is production environment
}

// LoadConfig loads configuration from the environment, reading .env first if present
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DSN returns the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// concern-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual config files for
// details on available environment variables:
//   - api.go: backend API client configuration
//   - http.go: web frontend server configuration
//   - session.go: token store and Redis configuration
//   - logging.go: structured logging configuration
//   - metrics.go: StatsD metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, verbose logs).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Backend API client configuration
	API APIConfig

	// Web frontend server configuration
	HTTP HTTPConfig

	// Token store configuration
	Session SessionConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`

	Logging LoggingConfig
	Metrics MetricsConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.HTTP.Sanitize()
	c.Session.Sanitize()
	c.Logging.Sanitize()
	c.Metrics.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

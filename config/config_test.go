package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "/api", cfg.API.BaseURL)
	assert.Equal(t, "http://localhost:8000/api", cfg.API.ResolvedBaseURL())
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 50, cfg.API.DefaultPageSize)
	assert.Equal(t, "asc", cfg.API.DefaultSortOrder)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, StoreFile, cfg.Session.Store)
	assert.Equal(t, "default", cfg.Session.Profile)
	assert.Equal(t, "token.json", filepath.Base(cfg.Session.File))
	assert.Equal(t, slog.LevelInfo, cfg.Logging.SlogLevel())
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("API_URL", "https://backend.example.com/v1/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("API_DEFAULT_PAGE_SIZE", "20")
	t.Setenv("API_DEFAULT_SORT_ORDER", "DESC")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_PROFILE", "analyst")
	t.Setenv("REDIS_URI", "redis://cache:6379/0")
	t.Setenv("LOG_LEVEL", "debug")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "https://backend.example.com/v1", cfg.API.ResolvedBaseURL())
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 20, cfg.API.DefaultPageSize)
	assert.Equal(t, "desc", cfg.API.DefaultSortOrder)
	assert.Equal(t, StoreRedis, cfg.Session.Store)
	assert.Equal(t, "analyst", cfg.Session.Profile)
	assert.Equal(t, "redis://cache:6379/0", cfg.Redis.URI)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
}

func TestAppConfig_InvalidStoreKind(t *testing.T) {
	t.Setenv("SESSION_STORE", "sqlite")

	var cfg AppConfig
	err := env.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid StoreKind")
}

func TestAPIConfig_ResolvedBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      APIConfig
		expected string
	}{
		{
			name:     "relative default",
			cfg:      APIConfig{BaseURL: "/api", Origin: "http://localhost:8000"},
			expected: "http://localhost:8000/api",
		},
		{
			name:     "relative without leading slash",
			cfg:      APIConfig{BaseURL: "api", Origin: "http://backend:8000/"},
			expected: "http://backend:8000/api",
		},
		{
			name:     "absolute override",
			cfg:      APIConfig{BaseURL: "https://api.example.com", Origin: "http://ignored"},
			expected: "https://api.example.com",
		},
		{
			name:     "empty origin falls back",
			cfg:      APIConfig{BaseURL: "/api"},
			expected: "http://localhost:8000/api",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.ResolvedBaseURL())
		})
	}
}

func TestAPIConfig_Sanitize(t *testing.T) {
	cfg := APIConfig{BaseURL: "  ", Timeout: -1, DefaultPageSize: 0, DefaultSortOrder: "sideways"}
	cfg.Sanitize()

	assert.Equal(t, DefaultAPIBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultAPIOrigin, cfg.Origin)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 50, cfg.DefaultPageSize)
	assert.Equal(t, "asc", cfg.DefaultSortOrder)
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)
}

func TestMetricsConfig(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	assert.False(t, cfg.Metrics.IsEnabled())
	assert.Equal(t, "datasheet_ui", cfg.Metrics.Prefix)

	m := MetricsConfig{Enabled: true, StatsdAddress: "  ", Prefix: ".frontend."}
	m.Sanitize()
	assert.False(t, m.IsEnabled(), "no address means disabled")
	assert.Equal(t, "frontend", m.Prefix)

	m.StatsdAddress = "statsd:8125"
	assert.True(t, m.IsEnabled())
}

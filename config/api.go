package config

import (
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultAPIBaseURL is the base path used when API_URL is unset.
	DefaultAPIBaseURL = "/api"
	// DefaultAPIOrigin hosts relative base URLs.
	DefaultAPIOrigin = "http://localhost:8000"

	defaultPageSize  = 50
	defaultSortOrder = "asc"
)

// APIConfig configures the backend API client.
type APIConfig struct {
	// BaseURL is the backend base URL. A relative value (the default "/api")
	// is resolved against Origin.
	BaseURL string `env:"API_URL" envDefault:"/api"`

	// Origin is the scheme and host that relative base URLs are resolved against.
	Origin string `env:"API_ORIGIN" envDefault:"http://localhost:8000"`

	// Timeout bounds every request made by the client.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`

	// DefaultPageSize is used when a table data request leaves page_size unset.
	DefaultPageSize int `env:"API_DEFAULT_PAGE_SIZE" envDefault:"50"`

	// DefaultSortOrder is sent alongside sort_by when no order is given.
	DefaultSortOrder string `env:"API_DEFAULT_SORT_ORDER" envDefault:"asc"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimSpace(a.BaseURL)
	if a.BaseURL == "" {
		a.BaseURL = DefaultAPIBaseURL
	}
	a.Origin = strings.TrimRight(strings.TrimSpace(a.Origin), "/")
	if a.Origin == "" {
		a.Origin = DefaultAPIOrigin
	}
	if a.Timeout <= 0 {
		a.Timeout = 30 * time.Second
	}
	if a.DefaultPageSize <= 0 {
		a.DefaultPageSize = defaultPageSize
	}
	switch strings.ToLower(strings.TrimSpace(a.DefaultSortOrder)) {
	case "asc", "desc":
		a.DefaultSortOrder = strings.ToLower(strings.TrimSpace(a.DefaultSortOrder))
	default:
		a.DefaultSortOrder = defaultSortOrder
	}
}

// ResolvedBaseURL returns the absolute base URL the client sends requests to.
// Absolute BaseURL values are returned as-is; relative ones are joined to Origin.
func (a APIConfig) ResolvedBaseURL() string {
	base := strings.TrimRight(a.BaseURL, "/")
	if u, err := url.Parse(base); err == nil && u.IsAbs() {
		return base
	}
	origin := strings.TrimRight(a.Origin, "/")
	if origin == "" {
		origin = DefaultAPIOrigin
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return origin + base
}

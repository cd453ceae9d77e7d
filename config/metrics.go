package config

import "strings"

const defaultMetricsPrefix = "datasheet_ui"

// MetricsConfig controls emission of backend call metrics to StatsD.
type MetricsConfig struct {
	Enabled       bool   `env:"METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"METRICS_PREFIX"         envDefault:"datasheet_ui"`
}

// Sanitize normalises metrics configuration values.
func (c *MetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	c.Prefix = strings.Trim(strings.TrimSpace(c.Prefix), ".")
	if c.Prefix == "" {
		c.Prefix = defaultMetricsPrefix
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c MetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

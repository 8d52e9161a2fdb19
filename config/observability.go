package config

import "strings"

const defaultMetricsPrefix = "olive"

// ObservabilityConfig groups configuration that controls metrics emission.
type ObservabilityConfig struct {
	Metrics MetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
}

// MetricsConfig controls emission of metrics to a StatsD agent.
type MetricsConfig struct {
	Enabled       bool              `env:"STATSD_ENABLED" envDefault:"false"`
	StatsdAddress string            `env:"STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string            `env:"STATSD_PREFIX"  envDefault:"olive"`
	Tags          map[string]string `env:"STATSD_TAGS"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *MetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
	if c.Prefix = strings.TrimSpace(c.Prefix); c.Prefix == "" {
		c.Prefix = defaultMetricsPrefix
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *MetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

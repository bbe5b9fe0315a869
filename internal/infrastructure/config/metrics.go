package config

import "time"

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Path for the metrics endpoint (default: /metrics)
	Path string `mapstructure:"path" validate:"required,startswith=/"`

	// PollInterval controls how often entry gauges are refreshed
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required"`
}

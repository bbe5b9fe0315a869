package config

// TracingConfig holds OpenTelemetry tracing configuration
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// OTLP/HTTP collector endpoint, host:port
	Endpoint string `mapstructure:"endpoint" validate:"required_if=Enabled true"`

	ServiceName string `mapstructure:"service_name" validate:"required"`

	// Insecure disables TLS towards the collector
	Insecure bool `mapstructure:"insecure"`
}

package config

// MediatorConfig holds request dispatch configuration
type MediatorConfig struct {
	// DuplicatePolicy: reject or replace
	DuplicatePolicy string `mapstructure:"duplicate_policy" validate:"omitempty,oneof=reject replace"`
}

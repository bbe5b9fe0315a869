package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// secretKeys are reported without their value
var secretKeys = map[string]bool{
	"database.password": true,
	"database.url":      true,
}

// Validator is a wrapper around go-playground/validator that reports failures
// by their config key (e.g. "server.rate_limit.burst") instead of the Go field name
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the config rules registered
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterStructValidation(validatePool, PoolConfig{})

	return &Validator{
		validate: v,
	}
}

// validatePool rejects idle pools larger than the open connection limit
func validatePool(sl validator.StructLevel) {
	pool := sl.Current().Interface().(PoolConfig)
	if pool.MaxIdle > pool.MaxOpen {
		sl.ReportError(pool.MaxIdle, "max_idle", "MaxIdle", "ltefield", "max_open")
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into one line per config key
func (v *Validator) formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		key := configKey(e.Namespace())
		rule := e.Tag()
		if e.Param() != "" {
			rule += "=" + e.Param()
		}

		if secretKeys[key] {
			messages = append(messages, fmt.Sprintf("%s: failed %s", key, rule))
			continue
		}
		messages = append(messages, fmt.Sprintf("%s: failed %s (value: '%v')", key, rule, e.Value()))
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(messages, "\n  "))
}

// configKey drops the root struct name from a validator namespace
func configKey(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DecimalGreaterThan is the tag for exact decimal.Decimal bounds, e.g. `validate:"dgt=0"`
const DecimalGreaterThan = "dgt"

// NewValidate builds a validator.Validate that reports json field names and
// compares decimal.Decimal fields exactly through the dgt tag
func NewValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation(DecimalGreaterThan, decimalGreaterThan); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", DecimalGreaterThan, err))
	}

	return v
}

// decimalGreaterThan reads the field as the decimal string produced by the
// custom type func, so no precision is lost to float64
func decimalGreaterThan(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("bad %s parameter %q: %v", DecimalGreaterThan, fl.Param(), err))
	}
	return value.GreaterThan(bound)
}

// StructValidator validates a request with its `validate` struct tags
type StructValidator[Req any] struct {
	validate *validator.Validate
}

// NewStructValidator creates a struct-tag validator; a nil validate gets NewValidate()
func NewStructValidator[Req any](validate *validator.Validate) *StructValidator[Req] {
	if validate == nil {
		validate = NewValidate()
	}
	return &StructValidator[Req]{validate: validate}
}

// Validate runs the tag rules and translates violations into FieldErrors
func (s *StructValidator[Req]) Validate(ctx context.Context, request Req) ([]FieldError, error) {
	err := s.validate.StructCtx(ctx, request)
	if err == nil {
		return nil, nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return nil, err
	}

	failures := make([]FieldError, 0, len(violations))
	for _, fe := range violations {
		failures = append(failures, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return failures, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "gt", DecimalGreaterThan:
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}

package validation_test

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/entries-go/internal/application/validation"
)

type sampleRequest struct {
	Title  string           `json:"title" validate:"required,max=10"`
	Amount decimal.Decimal  `json:"amount" validate:"dgt=0"`
	Note   *string          `json:"note" validate:"omitnil,min=1,max=5"`
	Ref    string           `json:"ref,omitempty" validate:"omitempty,uuid"`
	Skip   *decimal.Decimal `json:"-" validate:"omitnil,dgt=0"`
}

func TestStructValidator_Valid(t *testing.T) {
	v := validation.NewStructValidator[*sampleRequest](nil)

	failures, err := v.Validate(context.Background(), &sampleRequest{Title: "ok", Amount: decimal.NewFromInt(1)})

	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestStructValidator_ReportsEveryViolation(t *testing.T) {
	// Arrange
	v := validation.NewStructValidator[*sampleRequest](validation.NewValidate())
	empty := ""
	request := &sampleRequest{
		Title:  "",
		Amount: decimal.Zero,
		Note:   &empty,
		Ref:    "nope",
	}

	// Act
	failures, err := v.Validate(context.Background(), request)

	// Assert
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"title must not be empty",
		"amount must be greater than 0",
		"note must be at least 1 characters",
		"ref must be a valid UUID",
	}, validation.Messages(failures))
}

func TestStructValidator_MaxLength(t *testing.T) {
	v := validation.NewStructValidator[*sampleRequest](nil)

	failures, err := v.Validate(context.Background(), &sampleRequest{
		Title:  strings.Repeat("x", 11),
		Amount: decimal.RequireFromString("0.01"),
	})

	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, validation.FieldError{Field: "title", Message: "must be at most 10 characters"}, failures[0])
}

func TestStructValidator_DecimalBoundIsExact(t *testing.T) {
	// Arrange
	type bounded struct {
		Amount decimal.Decimal `json:"amount" validate:"dgt=100"`
	}
	v := validation.NewStructValidator[*bounded](nil)

	// Act
	above, errAbove := v.Validate(context.Background(), &bounded{Amount: decimal.RequireFromString("100.00000000000000001")})
	equal, errEqual := v.Validate(context.Background(), &bounded{Amount: decimal.RequireFromString("100.000")})
	tiny, errTiny := v.Validate(context.Background(), &sampleRequest{Title: "ok", Amount: decimal.RequireFromString("0.000000000000000000001")})

	// Assert
	require.NoError(t, errAbove)
	require.NoError(t, errEqual)
	require.NoError(t, errTiny)
	assert.Empty(t, above)
	assert.Equal(t, []string{"amount must be greater than 100"}, validation.Messages(equal))
	assert.Empty(t, tiny)
}

func TestStructValidator_OptionalDecimalBound(t *testing.T) {
	v := validation.NewStructValidator[*sampleRequest](nil)
	negative := decimal.RequireFromString("-0.001")

	failures, err := v.Validate(context.Background(), &sampleRequest{Title: "ok", Amount: decimal.NewFromInt(1), Skip: &negative})

	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "must be greater than 0", failures[0].Message)
}

func TestSet_ValidatorsPerRequestType(t *testing.T) {
	// Arrange
	set := validation.NewSet()
	validation.AddValidator[*sampleRequest](set, validation.NewStructValidator[*sampleRequest](nil))
	validation.AddValidator(set, validation.ValidatorFunc[*sampleRequest](func(ctx context.Context, r *sampleRequest) ([]validation.FieldError, error) {
		if r.Title == "forbidden" {
			return []validation.FieldError{{Field: "title", Message: "is reserved"}}, nil
		}
		return nil, nil
	}))

	// Act
	funcs := set.For(reflect.TypeOf(&sampleRequest{}))
	other := set.For(reflect.TypeOf(sampleRequest{}))

	// Assert
	require.Len(t, funcs, 2)
	assert.Empty(t, other)

	failures, err := funcs[1](context.Background(), &sampleRequest{Title: "forbidden"})
	require.NoError(t, err)
	assert.Equal(t, []string{"title is reserved"}, validation.Messages(failures))
}

func TestValidationError_Message(t *testing.T) {
	err := &validation.ValidationError{Failures: []validation.FieldError{
		{Field: "title", Message: "must not be empty"},
		{Field: "amount", Message: "must be greater than 0"},
	}}

	assert.Equal(t, "validation failed: title must not be empty; amount must be greater than 0", err.Error())
}

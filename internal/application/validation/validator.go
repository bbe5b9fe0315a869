package validation

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// FieldError describes one failed rule on one request field
type FieldError struct {
	Field   string
	Message string
}

// String renders the failure as "<field> <message>"
func (f FieldError) String() string {
	if f.Field == "" {
		return f.Message
	}
	return f.Field + " " + f.Message
}

// Validator checks a single request type. A non-nil error means the validator itself
// failed to run; rule violations are reported as FieldErrors.
type Validator[Req any] interface {
	Validate(ctx context.Context, request Req) ([]FieldError, error)
}

// ValidatorFunc adapts a function to the Validator interface
type ValidatorFunc[Req any] func(ctx context.Context, request Req) ([]FieldError, error)

// Validate calls f(ctx, request)
func (f ValidatorFunc[Req]) Validate(ctx context.Context, request Req) ([]FieldError, error) {
	return f(ctx, request)
}

// Func is the type-erased form of a Validator stored in a Set
type Func func(ctx context.Context, request any) ([]FieldError, error)

// Set holds the validators registered per request type
type Set struct {
	mu         sync.RWMutex
	validators map[reflect.Type][]Func
}

// NewSet creates an empty validator set
func NewSet() *Set {
	return &Set{validators: make(map[reflect.Type][]Func)}
}

// AddValidator registers v for the request type Req. Several validators may share a type.
func AddValidator[Req any](s *Set, v Validator[Req]) {
	requestType := reflect.TypeFor[Req]()
	fn := func(ctx context.Context, request any) ([]FieldError, error) {
		req, ok := request.(Req)
		if !ok {
			return nil, fmt.Errorf("validator for %s received %T", requestType, request)
		}
		return v.Validate(ctx, req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.validators[requestType] = append(s.validators[requestType], fn)
}

// For returns the validators registered for a request type, in registration order
func (s *Set) For(requestType reflect.Type) []Func {
	s.mu.RLock()
	defer s.mu.RUnlock()

	registered := s.validators[requestType]
	out := make([]Func, len(registered))
	copy(out, registered)
	return out
}

// ValidationError carries aggregated failures for results that cannot hold them
type ValidationError struct {
	Failures []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(Messages(e.Failures), "; ")
}

// Messages flattens failures into their display strings
func Messages(failures []FieldError) []string {
	out := make([]string, 0, len(failures))
	for _, f := range failures {
		out = append(out, f.String())
	}
	return out
}

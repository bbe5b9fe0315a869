package mediator

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// DuplicatePolicy decides what happens when a request type is registered twice
type DuplicatePolicy int

const (
	// RejectDuplicates fails the second registration with ErrDuplicateRegistration
	RejectDuplicates DuplicatePolicy = iota
	// ReplaceDuplicates keeps the last registration
	ReplaceDuplicates
)

// String returns the config spelling of the policy
func (p DuplicatePolicy) String() string {
	switch p {
	case RejectDuplicates:
		return "reject"
	case ReplaceDuplicates:
		return "replace"
	default:
		return "unknown"
	}
}

// ParseDuplicatePolicy parses "reject" or "replace" (case-insensitive)
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return RejectDuplicates, nil
	case "replace":
		return ReplaceDuplicates, nil
	default:
		return RejectDuplicates, fmt.Errorf("unknown duplicate policy %q (expected reject or replace)", s)
	}
}

// registration is the type-erased form of one handler mapping
type registration struct {
	info   RequestInfo
	invoke func(ctx context.Context, request any) (any, error)
}

// Register maps the request type Req to a single shared handler instance.
// A Go type has one Handle method, so a handler can never serve two request types.
func Register[Req Request[R], R any](m *Mediator, handler Handler[Req, R]) error {
	if handler == nil {
		return ErrNilHandler
	}
	return register[Req, R](m, func() Handler[Req, R] { return handler })
}

// RegisterFactory maps the request type Req to a factory invoked once per dispatch
func RegisterFactory[Req Request[R], R any](m *Mediator, factory func() Handler[Req, R]) error {
	if factory == nil {
		return ErrNilHandler
	}
	return register[Req, R](m, factory)
}

func register[Req Request[R], R any](m *Mediator, factory func() Handler[Req, R]) error {
	requestType := reflect.TypeFor[Req]()
	if requestType.Kind() == reflect.Interface {
		return fmt.Errorf("request type %s must be a concrete type", requestType)
	}

	info := RequestInfo{
		Name:        requestName(requestType),
		Kind:        kindOf[Req, R](requestType),
		RequestType: requestType,
		ResultType:  reflect.TypeFor[R](),
	}

	var zero R
	if ff, ok := any(zero).(failureFactory); ok {
		info.failure = func(statusCode int, errs []string) (any, bool) {
			return ff.newFailure(statusCode, errs), true
		}
	}

	reg := &registration{
		info: info,
		invoke: func(ctx context.Context, request any) (any, error) {
			req, ok := request.(Req)
			if !ok {
				return nil, fmt.Errorf("handler for %s received %T", info.Name, request)
			}
			handler := factory()
			if handler == nil {
				return nil, fmt.Errorf("%w: factory for %s returned nil", ErrNilHandler, info.Name)
			}
			result, err := handler.Handle(ctx, req)
			return result, err
		},
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sealed.Load() {
		return fmt.Errorf("%w: cannot register %s", ErrRegistrySealed, info.Name)
	}

	if _, exists := m.handlers[requestType]; exists && m.policy == RejectDuplicates {
		return fmt.Errorf("%w for type %s", ErrDuplicateRegistration, requestType)
	}

	m.handlers[requestType] = reg
	return nil
}

// kindOf reads the Kind of a request type without needing an instance
func kindOf[Req Request[R], R any](requestType reflect.Type) Kind {
	if requestType.Kind() == reflect.Pointer {
		if req, ok := reflect.New(requestType.Elem()).Interface().(Req); ok {
			return req.Kind()
		}
	}
	var zero Req
	return zero.Kind()
}

// RequestNames lists the names of all registered request types, sorted
func (m *Mediator) RequestNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.handlers))
	for _, reg := range m.handlers {
		names = append(names, reg.info.Name)
	}
	sort.Strings(names)
	return names
}

func (m *Mediator) lookup(requestType reflect.Type) (*registration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reg, ok := m.handlers[requestType]
	return reg, ok
}

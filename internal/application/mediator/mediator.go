package mediator

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// Mediator dispatches requests to their handlers through the behaviour pipeline.
//
// Handlers and behaviours are registered at startup. The first dispatch seals the
// mediator; later registrations fail with ErrRegistrySealed. Dispatch is safe for
// concurrent use.
type Mediator struct {
	mu         sync.RWMutex
	policy     DuplicatePolicy
	handlers   map[reflect.Type]*registration
	behaviours []BehaviourRegistration
	sealed     atomic.Bool
	chains     sync.Map // reflect.Type -> []BehaviourRegistration
}

// Option configures a Mediator
type Option func(*Mediator)

// WithDuplicatePolicy sets how duplicate handler registrations are treated
func WithDuplicatePolicy(policy DuplicatePolicy) Option {
	return func(m *Mediator) {
		m.policy = policy
	}
}

// NewMediator creates a new mediator instance
func NewMediator(opts ...Option) *Mediator {
	m := &Mediator{
		policy:   RejectDuplicates,
		handlers: make(map[reflect.Type]*registration),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Sealed reports whether the mediator has dispatched at least once
func (m *Mediator) Sealed() bool {
	return m.sealed.Load()
}

// Dispatch sends a request through its behaviour chain to its handler.
//
// A missing handler is a configuration error: it is returned as an error wrapping
// ErrHandlerNotFound, never as a result. An already-cancelled context returns ctx.Err()
// without touching the pipeline.
func (m *Mediator) Dispatch(ctx context.Context, request any) (any, error) {
	if isNil(request) {
		return nil, ErrNilRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.sealed.Store(true)

	requestType := reflect.TypeOf(request)
	reg, ok := m.lookup(requestType)
	if !ok {
		return nil, fmt.Errorf("%w for type %s", ErrHandlerNotFound, requestName(requestType))
	}

	handler := func(ctx context.Context) (any, error) {
		return reg.invoke(ctx, request)
	}

	pipeline := compose(reg.info, request, m.resolveChain(reg.info), handler)
	return pipeline(ctx)
}

// Send dispatches a typed request and returns its typed result
func Send[R any](ctx context.Context, sender Sender, request Request[R]) (R, error) {
	var zero R
	if sender == nil {
		return zero, fmt.Errorf("sender cannot be nil")
	}

	out, err := sender.Dispatch(ctx, request)
	if out == nil {
		if err == nil && !nillable(reflect.TypeFor[R]()) {
			return zero, fmt.Errorf("%w: got nil, want %s", ErrUnexpectedResult, reflect.TypeFor[R]())
		}
		return zero, err
	}

	result, ok := out.(R)
	if !ok {
		if err != nil {
			return zero, err
		}
		return zero, fmt.Errorf("%w: got %T, want %s", ErrUnexpectedResult, out, reflect.TypeFor[R]())
	}
	return result, err
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

package mediator

import (
	"context"
	"reflect"
	"strings"
)

// Kind distinguishes commands (mutate state) from queries (read state)
type Kind int

const (
	KindCommand Kind = iota
	KindQuery
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Request is satisfied by any command or query producing a result of type R.
// Concrete requests satisfy it by embedding Command[R] or Query[R].
type Request[R any] interface {
	Kind() Kind
	resultOf(R)
}

// Command marks a request as intent to mutate state. Embed it in a request struct:
//
//	type CreateEntryCommand struct {
//	    mediator.Command[mediator.Result[CreateEntryResponse]]
//	    Title string
//	}
type Command[R any] struct{}

// Kind reports KindCommand
func (Command[R]) Kind() Kind { return KindCommand }

func (Command[R]) resultOf(R) {}

// Query marks a request as intent to read state
type Query[R any] struct{}

// Kind reports KindQuery
func (Query[R]) Kind() Kind { return KindQuery }

func (Query[R]) resultOf(R) {}

// Handler handles exactly one request type
type Handler[Req Request[R], R any] interface {
	Handle(ctx context.Context, request Req) (R, error)
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc[Req Request[R], R any] func(ctx context.Context, request Req) (R, error)

// Handle calls f(ctx, request)
func (f HandlerFunc[Req, R]) Handle(ctx context.Context, request Req) (R, error) {
	return f(ctx, request)
}

// Next invokes the remainder of the pipeline
type Next func(ctx context.Context) (any, error)

// Behaviour wraps handler execution with a cross-cutting concern.
// Implementations call next at most once; not calling it short-circuits the pipeline.
type Behaviour interface {
	Handle(ctx context.Context, info RequestInfo, request any, next Next) (any, error)
}

// BehaviourFunc adapts a function to the Behaviour interface
type BehaviourFunc func(ctx context.Context, info RequestInfo, request any, next Next) (any, error)

// Handle calls f(ctx, info, request, next)
func (f BehaviourFunc) Handle(ctx context.Context, info RequestInfo, request any, next Next) (any, error) {
	return f(ctx, info, request, next)
}

// RequestInfo describes the request flowing through a pipeline
type RequestInfo struct {
	// Name is the request type name without package or pointer prefix, e.g. "CreateEntryCommand"
	Name        string
	Kind        Kind
	RequestType reflect.Type
	ResultType  reflect.Type

	failure func(statusCode int, errs []string) (any, bool)
}

// Failure builds a failure value of the request's result type.
// ok is false when the result type is not a Result envelope.
func (i RequestInfo) Failure(statusCode int, errs ...string) (result any, ok bool) {
	if i.failure == nil {
		return nil, false
	}
	return i.failure(statusCode, errs)
}

// Sender dispatches type-erased requests. *Mediator implements it.
type Sender interface {
	Dispatch(ctx context.Context, request any) (any, error)
}

// requestName strips the package, pointer and type-argument parts of a type name:
//   - "*commands.CreateEntryCommand" → "CreateEntryCommand"
//   - "mediator_test.pingQuery[int]" → "pingQuery"
func requestName(t reflect.Type) string {
	if t == nil {
		return "UnknownRequest"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		return t.String()
	}
	if idx := strings.IndexByte(name, '['); idx >= 0 {
		name = name[:idx]
	}
	return name
}

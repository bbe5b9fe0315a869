package mediator

import "errors"

var (
	// ErrNilRequest is returned when a nil request is dispatched
	ErrNilRequest = errors.New("request cannot be nil")

	// ErrNilHandler is returned when registering a nil handler or factory
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrHandlerNotFound is returned when no handler is registered for a request type.
	// It is a configuration error and is never converted into a Result.
	ErrHandlerNotFound = errors.New("no handler registered")

	// ErrDuplicateRegistration is returned when a request type already has a handler
	// and the mediator rejects duplicates
	ErrDuplicateRegistration = errors.New("handler already registered")

	// ErrRegistrySealed is returned when registering after the first dispatch
	ErrRegistrySealed = errors.New("registry is sealed after the first dispatch")

	// ErrUnexpectedResult is returned when the pipeline produced a value of the wrong type
	ErrUnexpectedResult = errors.New("pipeline returned unexpected result type")

	// ErrUnhandledFault wraps faults that could not be converted into a Result envelope
	ErrUnhandledFault = errors.New("unhandled fault")
)

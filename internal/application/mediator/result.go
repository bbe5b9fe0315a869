package mediator

import (
	jsoniter "github.com/json-iterator/go"
)

const defaultFailureMessage = "request failed"

// Envelope is the type-erased view of a Result, used by behaviours and transports
// that do not know the concrete payload type
type Envelope interface {
	IsSuccess() bool
	StatusCode() int
	Errors() []string
}

// failureFactory lets a pipeline build a failure of the request's own result type
type failureFactory interface {
	newFailure(statusCode int, errs []string) any
}

// Result is the success/failure envelope returned by entry handlers.
// Exactly one of data and errors is populated; a failure always carries at least one message.
type Result[T any] struct {
	data       T
	statusCode int
	errors     []string
	success    bool
}

// Success creates a successful result carrying data
func Success[T any](statusCode int, data T) Result[T] {
	return Result[T]{
		data:       data,
		statusCode: statusCode,
		success:    true,
	}
}

// Failure creates a failed result carrying the given messages
func Failure[T any](statusCode int, errs ...string) Result[T] {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if e != "" {
			messages = append(messages, e)
		}
	}
	if len(messages) == 0 {
		messages = append(messages, defaultFailureMessage)
	}

	return Result[T]{
		statusCode: statusCode,
		errors:     messages,
	}
}

// FromError creates a failed result from an error's message
func FromError[T any](statusCode int, err error) Result[T] {
	if err == nil {
		return Failure[T](statusCode)
	}
	return Failure[T](statusCode, err.Error())
}

// IsSuccess reports whether the result is a success
func (r Result[T]) IsSuccess() bool {
	return r.success
}

// Data returns the payload; the zero value for failures
func (r Result[T]) Data() T {
	return r.data
}

// StatusCode returns the transport-level status code
func (r Result[T]) StatusCode() int {
	return r.statusCode
}

// Errors returns a copy of the failure messages; nil for successes
func (r Result[T]) Errors() []string {
	if r.errors == nil {
		return nil
	}
	out := make([]string, len(r.errors))
	copy(out, r.errors)
	return out
}

func (r Result[T]) newFailure(statusCode int, errs []string) any {
	return Failure[T](statusCode, errs...)
}

type resultJSON[T any] struct {
	IsSuccess  bool     `json:"isSuccess"`
	StatusCode int      `json:"statusCode"`
	Data       *T       `json:"data"`
	Errors     []string `json:"errors"`
}

// MarshalJSON encodes the envelope with a null data field for failures and null errors for successes
func (r Result[T]) MarshalJSON() ([]byte, error) {
	payload := resultJSON[T]{
		IsSuccess:  r.success,
		StatusCode: r.statusCode,
		Errors:     r.errors,
	}
	if r.success {
		data := r.data
		payload.Data = &data
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(payload)
}

// UnmarshalJSON decodes an envelope produced by MarshalJSON
func (r *Result[T]) UnmarshalJSON(b []byte) error {
	var payload resultJSON[T]
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(b, &payload); err != nil {
		return err
	}

	if payload.IsSuccess {
		var data T
		if payload.Data != nil {
			data = *payload.Data
		}
		*r = Success(payload.StatusCode, data)
		return nil
	}

	*r = Failure[T](payload.StatusCode, payload.Errors...)
	return nil
}

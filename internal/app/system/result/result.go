// Package result is the single return shape for operations whose outcome
// crosses the request boundary. A Result is either Ok with data or Err
// with a human-readable message; the underlying cause is logged, never
// carried.
package result

import "encoding/json"

// Result holds either data or a failure message.
type Result[T any] struct {
	data    T
	message string
	ok      bool
}

// Ok wraps successful data.
func Ok[T any](data T) Result[T] {
	return Result[T]{data: data, ok: true}
}

// OkMsg wraps successful data with a confirmation message.
func OkMsg[T any](data T, message string) Result[T] {
	return Result[T]{data: data, message: message, ok: true}
}

// Err builds a failed result.
func Err[T any](message string) Result[T] {
	return Result[T]{message: message}
}

// IsOk reports whether the result succeeded.
func (r Result[T]) IsOk() bool { return r.ok }

// Data returns the wrapped value (zero value on Err).
func (r Result[T]) Data() T { return r.data }

// Message returns the failure message, or the optional success message.
func (r Result[T]) Message() string { return r.message }

// Unwrap returns data and ok, comma-ok style.
func (r Result[T]) Unwrap() (T, bool) { return r.data, r.ok }

type wire[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// MarshalJSON renders {success, data?, message?}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	w := wire[T]{Success: r.ok, Message: r.message}
	if r.ok {
		d := r.data
		w.Data = &d
	}
	return json.Marshal(w)
}

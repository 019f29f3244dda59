package model

// Result is the outcome of an operation whose failure is an expected, reportable
// event rather than an exceptional one (a missing row, a permission denial, a bad
// input). Callers branch on Success instead of on a returned error.
//
// Err keeps the underlying error so transports can map it (HTTP status, exit code)
// with errors.Is. It is never serialised; Message is the human-readable form.
// Data is always written, so an empty list stays [] and a result without a
// payload carries "data":null.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
	Err     error  `json:"-"`
}

// OK builds a successful Result carrying data.
func OK[T any](message string, data T) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

// Fail builds a failed Result from err. The message is err's text.
func Fail[T any](err error) Result[T] {
	return Result[T]{Success: false, Message: err.Error(), Err: err}
}

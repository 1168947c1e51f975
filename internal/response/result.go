package response

// Result is the tagged outcome of a catalog operation: exactly one of the
// value or the error envelope is meaningful. The zero Result is a success
// holding the zero value of T.
type Result[T any] struct {
	value T
	errs  *ErrorResponse
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps an error envelope. A nil envelope is replaced by an empty one
// so the result still reports as an error.
func Fail[T any](errs *ErrorResponse) Result[T] {
	if errs == nil {
		errs = &ErrorResponse{}
	}
	return Result[T]{errs: errs}
}

// IsError reports whether r holds an error envelope.
func (r Result[T]) IsError() bool { return r.errs != nil }

// Value returns the success value and true, or the zero value and false.
func (r Result[T]) Value() (T, bool) {
	if r.errs != nil {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Errors returns the error envelope, or nil on success.
func (r Result[T]) Errors() *ErrorResponse { return r.errs }

// Code returns the first error code, or "" on success.
func (r Result[T]) Code() string { return r.errs.Code() }

// Package result provides an explicit success/error value used across the
// service instead of bare (T, error) tuples. A Result is constructed once and
// never mutated; transformations return fresh values. Failures propagate
// unchanged through Map and FlatMap, successes through MapErr, so a chain of
// operations short-circuits on the first failure without panics or sentinel
// checks.
package result

import (
	"errors"
	"fmt"
)

// Result represents the outcome of a computation: either a value or an error,
// never both. The zero value is a success carrying T's zero value.
type Result[T any] struct {
	value T
	err   error
}

// Ok constructs a successful Result carrying value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err constructs a failed Result. A nil error is replaced with a descriptive
// placeholder so a failure can never masquerade as success.
func Err[T any](err error) Result[T] {
	if err == nil {
		err = errors.New("result: nil error")
	}
	return Result[T]{err: err}
}

// FromTuple converts a standard (value, error) pair into a Result.
func FromTuple[T any](value T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}

// Try runs fn, converting a returned error or a panic into a failure. When
// normalize is non-nil it is applied to the raw error before wrapping, which
// lets callers coerce driver errors into domain errors at the boundary.
func Try[T any](fn func() (T, error), normalize func(error) error) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", r)
			}
			if normalize != nil {
				err = normalize(err)
			}
			res = Err[T](err)
		}
	}()

	value, err := fn()
	if err != nil {
		if normalize != nil {
			err = normalize(err)
		}
		return Err[T](err)
	}
	return Ok(value)
}

// FromCondition returns Ok(value) when cond holds, Err(err) otherwise.
func FromCondition[T any](cond bool, value T, err error) Result[T] {
	if cond {
		return Ok(value)
	}
	return Err[T](err)
}

// ValidateValue returns Ok(value) when the predicate accepts it.
func ValidateValue[T any](value T, pred func(T) bool, err error) Result[T] {
	if pred(value) {
		return Ok(value)
	}
	return Err[T](err)
}

// IsOk reports whether the Result represents success.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// IsErr reports whether the Result represents failure.
func (r Result[T]) IsErr() bool {
	return r.err != nil
}

// Value returns the success value. Meaningful only after checking IsOk; on a
// failed Result it returns T's zero value.
func (r Result[T]) Value() T {
	return r.value
}

// Error returns the stored error, or nil for a success.
func (r Result[T]) Error() error {
	return r.err
}

// Unwrap exposes the underlying (value, error) pair for callers that want
// standard Go control flow back.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// UnwrapOr returns the value when ok, otherwise fallback.
func (r Result[T]) UnwrapOr(fallback T) T {
	if r.err == nil {
		return r.value
	}
	return fallback
}

// UnwrapOrElse lazily computes a fallback from the error.
func (r Result[T]) UnwrapOrElse(fn func(error) T) T {
	if r.err == nil {
		return r.value
	}
	return fn(r.err)
}

// Tap runs fn on the value when the Result is ok and returns the Result
// unchanged. Used for side effects such as logging or metrics.
func (r Result[T]) Tap(fn func(T)) Result[T] {
	if r.err == nil {
		fn(r.value)
	}
	return r
}

// TapErr runs fn on the error when the Result is a failure and returns the
// Result unchanged.
func (r Result[T]) TapErr(fn func(error)) Result[T] {
	if r.err != nil {
		fn(r.err)
	}
	return r
}

// Match collapses the Result through exactly one of the two branches.
func Match[T, U any](r Result[T], ok func(T) U, errFn func(error) U) U {
	if r.err == nil {
		return ok(r.value)
	}
	return errFn(r.err)
}

// Map transforms the success value; a failure passes through untouched.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(fn(r.value))
}

// FlatMap chains a Result-returning operation; a failure passes through
// untouched and fn is never invoked.
func FlatMap[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return fn(r.value)
}

// MapErr transforms the error channel; a success passes through untouched.
func MapErr[T any](r Result[T], fn func(error) error) Result[T] {
	if r.err == nil || fn == nil {
		return r
	}
	return Err[T](fn(r.err))
}

// Recover converts a failure into success using fn, leaving successes alone.
func Recover[T any](r Result[T], fn func(error) T) Result[T] {
	if r.err == nil {
		return r
	}
	return Ok(fn(r.err))
}

// Sequence converts a slice of Results into a Result of a slice, failing fast
// on the first error.
func Sequence[T any](results []Result[T]) Result[[]T] {
	values := make([]T, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			return Err[[]T](r.err)
		}
		values = append(values, r.value)
	}
	return Ok(values)
}

// Traverse maps items through fn and sequences the outcomes.
func Traverse[A, B any](items []A, fn func(A) Result[B]) Result[[]B] {
	values := make([]B, 0, len(items))
	for _, item := range items {
		r := fn(item)
		if r.err != nil {
			return Err[[]B](r.err)
		}
		values = append(values, r.value)
	}
	return Ok(values)
}

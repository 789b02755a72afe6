package result

import (
	"context"
	"strings"
	"sync"
	"time"
)

// ErrorList aggregates the errors collected by CombineAll, Parallel and
// Batch. It implements error so an aggregate can travel through the normal
// error channel.
type ErrorList []error

func (e ErrorList) Error() string {
	if len(e) == 0 {
		return "no errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.Is / errors.As.
func (e ErrorList) Unwrap() []error {
	return e
}

// CombineAll succeeds only when every input succeeds. On any failure it
// returns every collected error, not just the first, so independent
// validations can all be reported together.
func CombineAll[T any](results ...Result[T]) Result[[]T] {
	values := make([]T, 0, len(results))
	var errs ErrorList

	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		values = append(values, r.value)
	}

	if len(errs) > 0 {
		return Err[[]T](errs)
	}
	return Ok(values)
}

// CombineFirstError short-circuits on the first failure, discarding later
// results. Use it when the operations are ordered and later failures are
// uninformative once an earlier one occurred.
func CombineFirstError[T any](results ...Result[T]) Result[[]T] {
	values := make([]T, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			return Err[[]T](r.err)
		}
		values = append(values, r.value)
	}
	return Ok(values)
}

// Operation is a context-aware computation producing a Result.
type Operation[T any] func(ctx context.Context) Result[T]

// Parallel runs every operation concurrently and combines the outcomes with
// CombineAll semantics. All operations run to completion regardless of
// individual failures.
func Parallel[T any](ctx context.Context, ops ...Operation[T]) Result[[]T] {
	results := make([]Result[T], len(ops))
	var wg sync.WaitGroup

	for i, op := range ops {
		wg.Add(1)
		go func(i int, op Operation[T]) {
			defer wg.Done()
			results[i] = op(ctx)
		}(i, op)
	}
	wg.Wait()

	return CombineAll(results...)
}

// Race runs the operations sequentially and returns the first success. When
// every operation fails the collected errors are returned: a single failure
// as-is, several as an ErrorList.
func Race[T any](ctx context.Context, ops ...Operation[T]) Result[T] {
	var errs ErrorList

	for _, op := range ops {
		r := op(ctx)
		if r.err == nil {
			return r
		}
		errs = append(errs, r.err)
	}

	if len(errs) == 1 {
		return Err[T](errs[0])
	}
	return Err[T](errs)
}

// RetryOptions tunes Retry. Zero values fall back to 3 attempts, 1s initial
// delay, doubling backoff, retry-everything.
type RetryOptions struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     float64
	ShouldRetry func(error) bool
}

func (o RetryOptions) withDefaults() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.Delay <= 0 {
		o.Delay = time.Second
	}
	if o.Backoff <= 0 {
		o.Backoff = 2
	}
	if o.ShouldRetry == nil {
		o.ShouldRetry = func(error) bool { return true }
	}
	return o
}

// Retry re-invokes op until it succeeds, attempts are exhausted, ShouldRetry
// declines the error, or ctx is cancelled. The last result is returned either
// way. The delay is multiplied by Backoff after each failed attempt.
func Retry[T any](ctx context.Context, op Operation[T], opts RetryOptions) Result[T] {
	o := opts.withDefaults()
	delay := o.Delay

	var last Result[T]
	for attempt := 1; attempt <= o.MaxAttempts; attempt++ {
		last = op(ctx)
		if last.err == nil {
			return last
		}
		if attempt == o.MaxAttempts || !o.ShouldRetry(last.err) {
			return last
		}

		select {
		case <-ctx.Done():
			return Err[T](ctx.Err())
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * o.Backoff)
	}
	return last
}

// WithTimeout runs op with a deadline. When the deadline expires before op
// finishes, Err(timeoutErr) is returned; op keeps running in its goroutine
// until it observes the cancelled context.
func WithTimeout[T any](ctx context.Context, op Operation[T], d time.Duration, timeoutErr error) Result[T] {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan Result[T], 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case r := <-done:
		return r
	case <-ctx.Done():
		return Err[T](timeoutErr)
	}
}

// BatchOptions tunes Batch.
type BatchOptions struct {
	// StopOnFirstError aborts a sequential batch at the first failure. In
	// parallel mode every item still runs to completion; in-flight work
	// cannot be cancelled mid-item.
	StopOnFirstError bool
	Parallel         bool
}

// Batch applies op to every item. Sequential mode with StopOnFirstError
// returns the errors collected so far at the first failure; otherwise all
// items are processed and any failures are aggregated.
func Batch[T, R any](ctx context.Context, items []T, op func(ctx context.Context, item T) Result[R], opts BatchOptions) Result[[]R] {
	if opts.Parallel {
		ops := make([]Operation[R], len(items))
		for i, item := range items {
			item := item
			ops[i] = func(ctx context.Context) Result[R] {
				return op(ctx, item)
			}
		}
		return Parallel(ctx, ops...)
	}

	values := make([]R, 0, len(items))
	var errs ErrorList

	for _, item := range items {
		r := op(ctx, item)
		if r.err != nil {
			errs = append(errs, r.err)
			if opts.StopOnFirstError {
				return Err[[]R](errs)
			}
			continue
		}
		values = append(values, r.value)
	}

	if len(errs) > 0 {
		return Err[[]R](errs)
	}
	return Ok(values)
}

// ResultLogger is the minimal logging surface LogResult needs.
type ResultLogger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// LogResult records the outcome of an operation and returns it unchanged.
func LogResult[T any](r Result[T], logger ResultLogger, operation string) Result[T] {
	if r.err == nil {
		logger.Info(operation + " succeeded")
		return r
	}
	logger.Error(operation+" failed", "error", r.err)
	return r
}

// WithResource runs op against a resource and guarantees cleanup runs
// afterwards, whether op returns or panics. A panic is re-raised once the
// resource is released.
func WithResource[T, R any](ctx context.Context, resource T, op func(ctx context.Context, resource T) Result[R], cleanup func(T)) (res Result[R]) {
	defer func() {
		if r := recover(); r != nil {
			cleanup(resource)
			panic(r)
		}
	}()

	res = op(ctx, resource)
	cleanup(resource)
	return res
}

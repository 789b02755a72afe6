package result

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errOne = errors.New("one")
	errTwo = errors.New("two")
)

func TestCombineAllCollectsEveryError(t *testing.T) {
	r := CombineAll(Err[int](errOne), Err[int](errTwo), Ok(3))
	require.True(t, r.IsErr())

	var list ErrorList
	require.ErrorAs(t, r.Error(), &list)
	assert.Len(t, list, 2)
	assert.ErrorIs(t, r.Error(), errOne)
	assert.ErrorIs(t, r.Error(), errTwo)
}

func TestCombineAllSucceedsWhenAllOk(t *testing.T) {
	r := CombineAll(Ok(1), Ok(2), Ok(3))
	require.True(t, r.IsOk())
	assert.Equal(t, []int{1, 2, 3}, r.Value())
}

func TestCombineFirstErrorShortCircuits(t *testing.T) {
	r := CombineFirstError(Ok(1), Err[int](errOne), Err[int](errTwo))
	require.True(t, r.IsErr())
	assert.Equal(t, errOne, r.Error())

	var list ErrorList
	assert.False(t, errors.As(r.Error(), &list))
}

func TestErrorListMessageJoins(t *testing.T) {
	list := ErrorList{errOne, errTwo}
	assert.Equal(t, "one; two", list.Error())
	assert.Equal(t, "no errors", ErrorList{}.Error())
}

func TestParallelRunsEverythingAndAggregates(t *testing.T) {
	var calls int32
	op := func(fail bool) Operation[int] {
		return func(ctx context.Context) Result[int] {
			atomic.AddInt32(&calls, 1)
			if fail {
				return Err[int](errOne)
			}
			return Ok(1)
		}
	}

	r := Parallel(context.Background(), op(false), op(true), op(false), op(true))
	require.True(t, r.IsErr())
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))

	var list ErrorList
	require.ErrorAs(t, r.Error(), &list)
	assert.Len(t, list, 2)
}

func TestRaceReturnsFirstSuccess(t *testing.T) {
	r := Race(context.Background(),
		func(ctx context.Context) Result[string] { return Err[string](errOne) },
		func(ctx context.Context) Result[string] { return Ok("winner") },
		func(ctx context.Context) Result[string] { return Ok("late") },
	)
	require.True(t, r.IsOk())
	assert.Equal(t, "winner", r.Value())
}

func TestRaceAggregatesAllFailures(t *testing.T) {
	r := Race(context.Background(),
		func(ctx context.Context) Result[string] { return Err[string](errOne) },
		func(ctx context.Context) Result[string] { return Err[string](errTwo) },
	)
	require.True(t, r.IsErr())
	var list ErrorList
	require.ErrorAs(t, r.Error(), &list)
	assert.Len(t, list, 2)

	single := Race(context.Background(),
		func(ctx context.Context) Result[string] { return Err[string](errOne) },
	)
	assert.Equal(t, errOne, single.Error())
}

func TestRetrySucceedsWithinAttemptBudget(t *testing.T) {
	var attempts int32
	op := func(ctx context.Context) Result[int] {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return Err[int](errOne)
		}
		return Ok(99)
	}

	r := Retry(context.Background(), op, RetryOptions{MaxAttempts: 3, Delay: time.Millisecond})
	require.True(t, r.IsOk())
	assert.Equal(t, 99, r.Value())
	assert.Equal(t, int32(3), attempts)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	var attempts int32
	op := func(ctx context.Context) Result[int] {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return Err[int](errOne)
		}
		return Ok(99)
	}

	r := Retry(context.Background(), op, RetryOptions{MaxAttempts: 2, Delay: time.Millisecond})
	require.True(t, r.IsErr())
	assert.Equal(t, errOne, r.Error())
	assert.Equal(t, int32(2), attempts)
}

func TestRetryHonorsShouldRetry(t *testing.T) {
	var attempts int32
	op := func(ctx context.Context) Result[int] {
		atomic.AddInt32(&attempts, 1)
		return Err[int](errOne)
	}

	r := Retry(context.Background(), op, RetryOptions{
		MaxAttempts: 5,
		Delay:       time.Millisecond,
		ShouldRetry: func(err error) bool { return !errors.Is(err, errOne) },
	})
	require.True(t, r.IsErr())
	assert.Equal(t, int32(1), attempts)
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op := func(ctx context.Context) Result[int] { return Err[int](errOne) }
	r := Retry(ctx, op, RetryOptions{MaxAttempts: 5, Delay: 50 * time.Millisecond})
	require.True(t, r.IsErr())
	assert.ErrorIs(t, r.Error(), context.Canceled)
}

func TestWithTimeout(t *testing.T) {
	timeoutErr := errors.New("took too long")

	fast := WithTimeout(context.Background(), func(ctx context.Context) Result[int] {
		return Ok(1)
	}, time.Second, timeoutErr)
	require.True(t, fast.IsOk())

	slow := WithTimeout(context.Background(), func(ctx context.Context) Result[int] {
		select {
		case <-time.After(time.Second):
			return Ok(1)
		case <-ctx.Done():
			return Err[int](ctx.Err())
		}
	}, 10*time.Millisecond, timeoutErr)
	require.True(t, slow.IsErr())
	assert.Equal(t, timeoutErr, slow.Error())
}

func TestBatchSequentialStopOnFirstError(t *testing.T) {
	var processed []int
	op := func(ctx context.Context, item int) Result[int] {
		processed = append(processed, item)
		if item == 2 {
			return Err[int](errOne)
		}
		return Ok(item * 10)
	}

	r := Batch(context.Background(), []int{1, 2, 3}, op, BatchOptions{StopOnFirstError: true})
	require.True(t, r.IsErr())
	assert.Equal(t, []int{1, 2}, processed)
}

func TestBatchSequentialRunsEverythingByDefault(t *testing.T) {
	op := func(ctx context.Context, item int) Result[int] {
		if item%2 == 0 {
			return Err[int](errOne)
		}
		return Ok(item)
	}

	r := Batch(context.Background(), []int{1, 2, 3, 4}, op, BatchOptions{})
	require.True(t, r.IsErr())
	var list ErrorList
	require.ErrorAs(t, r.Error(), &list)
	assert.Len(t, list, 2)
}

func TestBatchParallelProcessesAllItems(t *testing.T) {
	var calls int32
	op := func(ctx context.Context, item int) Result[int] {
		atomic.AddInt32(&calls, 1)
		return Ok(item)
	}

	r := Batch(context.Background(), []int{1, 2, 3, 4, 5}, op, BatchOptions{Parallel: true})
	require.True(t, r.IsOk())
	assert.Len(t, r.Value(), 5)
	assert.Equal(t, int32(5), calls)
}

type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(msg string, kv ...any)  { l.infos = append(l.infos, msg) }
func (l *recordingLogger) Error(msg string, kv ...any) { l.errors = append(l.errors, msg) }

func TestLogResult(t *testing.T) {
	log := &recordingLogger{}

	r := LogResult(Ok(1), log, "fetch")
	assert.True(t, r.IsOk())
	assert.Equal(t, []string{"fetch succeeded"}, log.infos)

	LogResult(Err[int](errOne), log, "fetch")
	assert.Equal(t, []string{"fetch failed"}, log.errors)
}

func TestWithResourceCleansUpOnReturn(t *testing.T) {
	cleaned := false
	r := WithResource(context.Background(), "conn",
		func(ctx context.Context, res string) Result[int] { return Ok(1) },
		func(string) { cleaned = true })
	require.True(t, r.IsOk())
	assert.True(t, cleaned)
}

func TestWithResourceCleansUpOnPanic(t *testing.T) {
	cleaned := false
	assert.Panics(t, func() {
		WithResource(context.Background(), "conn",
			func(ctx context.Context, res string) Result[int] { panic("kaboom") },
			func(string) { cleaned = true })
	})
	assert.True(t, cleaned)
}

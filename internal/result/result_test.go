package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestOkErrBasics(t *testing.T) {
	ok := Ok(42)
	assert.True(t, ok.IsOk())
	assert.False(t, ok.IsErr())
	assert.Equal(t, 42, ok.Value())
	assert.NoError(t, ok.Error())

	failed := Err[int](errBoom)
	assert.False(t, failed.IsOk())
	assert.True(t, failed.IsErr())
	assert.Equal(t, errBoom, failed.Error())
	assert.Zero(t, failed.Value())
}

func TestErrNilErrorNeverSucceeds(t *testing.T) {
	r := Err[string](nil)
	require.True(t, r.IsErr())
	assert.NotNil(t, r.Error())
}

func TestFromTuple(t *testing.T) {
	assert.True(t, FromTuple(1, nil).IsOk())
	assert.True(t, FromTuple(0, errBoom).IsErr())
}

func TestMapTransformsOnlySuccess(t *testing.T) {
	doubled := Map(Ok(10), func(v int) int { return v * 2 })
	require.True(t, doubled.IsOk())
	assert.Equal(t, 20, doubled.Value())

	called := false
	failed := Map(Err[int](errBoom), func(v int) int {
		called = true
		return v
	})
	assert.True(t, failed.IsErr())
	assert.Equal(t, errBoom, failed.Error())
	assert.False(t, called)
}

func TestFlatMapShortCircuits(t *testing.T) {
	r := FlatMap(Ok(2), func(v int) Result[string] {
		return Ok("ok")
	})
	require.True(t, r.IsOk())
	assert.Equal(t, "ok", r.Value())

	called := false
	failed := FlatMap(Err[int](errBoom), func(v int) Result[string] {
		called = true
		return Ok("unreachable")
	})
	assert.True(t, failed.IsErr())
	assert.False(t, called)

	inner := FlatMap(Ok(2), func(v int) Result[string] {
		return Err[string](errBoom)
	})
	assert.Equal(t, errBoom, inner.Error())
}

func TestMapErrLeavesSuccessAlone(t *testing.T) {
	wrapped := errors.New("wrapped")
	r := MapErr(Err[int](errBoom), func(err error) error { return wrapped })
	assert.Equal(t, wrapped, r.Error())

	ok := MapErr(Ok(5), func(err error) error { return wrapped })
	require.True(t, ok.IsOk())
	assert.Equal(t, 5, ok.Value())
}

func TestMatch(t *testing.T) {
	got := Match(Ok(3),
		func(v int) string { return "ok" },
		func(err error) string { return "err" })
	assert.Equal(t, "ok", got)

	got = Match(Err[int](errBoom),
		func(v int) string { return "ok" },
		func(err error) string { return err.Error() })
	assert.Equal(t, "boom", got)
}

func TestUnwrapVariants(t *testing.T) {
	v, err := Ok("a").Unwrap()
	assert.Equal(t, "a", v)
	assert.NoError(t, err)

	assert.Equal(t, "fallback", Err[string](errBoom).UnwrapOr("fallback"))
	assert.Equal(t, "a", Ok("a").UnwrapOr("fallback"))
	assert.Equal(t, "boom", Err[string](errBoom).UnwrapOrElse(func(err error) string {
		return err.Error()
	}))
}

func TestTapRunsOnlyOnMatchingChannel(t *testing.T) {
	var sawValue, sawErr bool
	Ok(1).Tap(func(int) { sawValue = true }).TapErr(func(error) { sawErr = true })
	assert.True(t, sawValue)
	assert.False(t, sawErr)

	sawValue, sawErr = false, false
	Err[int](errBoom).Tap(func(int) { sawValue = true }).TapErr(func(error) { sawErr = true })
	assert.False(t, sawValue)
	assert.True(t, sawErr)
}

func TestTryConvertsPanicsAndErrors(t *testing.T) {
	r := Try(func() (int, error) { return 7, nil }, nil)
	require.True(t, r.IsOk())
	assert.Equal(t, 7, r.Value())

	r = Try(func() (int, error) { return 0, errBoom }, nil)
	assert.Equal(t, errBoom, r.Error())

	r = Try(func() (int, error) { panic("kaboom") }, nil)
	require.True(t, r.IsErr())
	assert.Contains(t, r.Error().Error(), "kaboom")
}

func TestTryNormalizesErrors(t *testing.T) {
	normalized := errors.New("normalized")
	r := Try(func() (int, error) { return 0, errBoom }, func(error) error { return normalized })
	assert.Equal(t, normalized, r.Error())

	r = Try(func() (int, error) { panic(errBoom) }, func(error) error { return normalized })
	assert.Equal(t, normalized, r.Error())
}

func TestFromConditionAndValidateValue(t *testing.T) {
	assert.True(t, FromCondition(true, 1, errBoom).IsOk())
	assert.True(t, FromCondition(false, 1, errBoom).IsErr())

	even := func(v int) bool { return v%2 == 0 }
	assert.True(t, ValidateValue(4, even, errBoom).IsOk())
	assert.Equal(t, errBoom, ValidateValue(3, even, errBoom).Error())
}

func TestRecover(t *testing.T) {
	r := Recover(Err[int](errBoom), func(error) int { return -1 })
	require.True(t, r.IsOk())
	assert.Equal(t, -1, r.Value())

	r = Recover(Ok(9), func(error) int { return -1 })
	assert.Equal(t, 9, r.Value())
}

func TestSequence(t *testing.T) {
	r := Sequence([]Result[int]{Ok(1), Ok(2), Ok(3)})
	require.True(t, r.IsOk())
	assert.Equal(t, []int{1, 2, 3}, r.Value())

	r = Sequence([]Result[int]{Ok(1), Err[int](errBoom), Ok(3)})
	assert.Equal(t, errBoom, r.Error())
}

func TestTraverse(t *testing.T) {
	r := Traverse([]int{1, 2, 3}, func(v int) Result[int] { return Ok(v * v) })
	require.True(t, r.IsOk())
	assert.Equal(t, []int{1, 4, 9}, r.Value())

	r = Traverse([]int{1, 2, 3}, func(v int) Result[int] {
		if v == 2 {
			return Err[int](errBoom)
		}
		return Ok(v)
	})
	assert.Equal(t, errBoom, r.Error())
}

package result

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupKey struct {
	TenantID string
	Page     int
}

func TestCacheMissThenHit(t *testing.T) {
	c := NewCache[lookupKey, string](time.Minute)
	key := lookupKey{TenantID: "t1", Page: 1}

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, Ok("cached"))
	r, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "cached", r.Value())
}

func TestCacheKeysAreValueBased(t *testing.T) {
	c := NewCache[lookupKey, string](time.Minute)
	c.Set(lookupKey{TenantID: "t1", Page: 1}, Ok("one"))

	r, ok := c.Get(lookupKey{TenantID: "t1", Page: 1})
	require.True(t, ok)
	assert.Equal(t, "one", r.Value())

	_, ok = c.Get(lookupKey{TenantID: "t1", Page: 2})
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache[string, int](10 * time.Millisecond)
	c.Set("k", Ok(7))

	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCacheClear(t *testing.T) {
	c := NewCache[string, int](time.Minute)
	c.Set("a", Ok(1))
	c.Set("b", Ok(2))
	c.Clear()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestGetOrComputeComputesOnce(t *testing.T) {
	c := NewCache[string, int](time.Minute)
	calls := 0
	compute := func(ctx context.Context) Result[int] {
		calls++
		return Ok(42)
	}

	first := c.GetOrCompute(context.Background(), "k", compute)
	second := c.GetOrCompute(context.Background(), "k", compute)

	assert.Equal(t, 42, first.Value())
	assert.Equal(t, 42, second.Value())
	assert.Equal(t, 1, calls)
}

func TestGetOrComputeCachesFailures(t *testing.T) {
	c := NewCache[string, int](time.Minute)
	calls := 0
	compute := func(ctx context.Context) Result[int] {
		calls++
		return Err[int](errBoom)
	}

	first := c.GetOrCompute(context.Background(), "k", compute)
	second := c.GetOrCompute(context.Background(), "k", compute)

	assert.True(t, first.IsErr())
	assert.True(t, second.IsErr())
	assert.Equal(t, 1, calls)
}

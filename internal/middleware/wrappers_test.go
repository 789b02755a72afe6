package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/inventory-service/internal/auth"
	"github.com/glowdesk/inventory-service/internal/result"
)

type echoBody struct {
	Name string `json:"name" validate:"required"`
	Qty  int    `json:"qty" validate:"gte=0"`
}

func TestWithBodyDecodesAndValidates(t *testing.T) {
	h := WithBody(func(r *http.Request, b echoBody) result.Result[echoBody] {
		return result.Ok(b)
	}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"Dye","qty":2}`))
	rec, resp := doRequest(t, h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestWithBodyRejectsInvalidPayloadBeforeHandler(t *testing.T) {
	called := false
	h := WithBody(func(r *http.Request, b echoBody) result.Result[echoBody] {
		called = true
		return result.Ok(b)
	}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"qty":-1}`))
	rec, resp := doRequest(t, h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.False(t, called)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ValidationError", resp.Error.Type)
}

func TestWithAuthResolvesIdentity(t *testing.T) {
	h := WithAuth(auth.BearerStub, func(r *http.Request, id auth.Identity) result.Result[string] {
		return result.Ok(id.TenantID)
	}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("X-Tenant-Id", "t-9")
	rec, resp := doRequest(t, h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t-9", resp.Data)
}

func TestWithAuthRejectsMissingToken(t *testing.T) {
	called := false
	h := WithAuth(auth.BearerStub, func(r *http.Request, id auth.Identity) result.Result[string] {
		called = true
		return result.Ok("never")
	}, Options{})

	rec, resp := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "AuthenticationError", resp.Error.Type)
}

func TestWithPermissionsDeniesWithRequiredList(t *testing.T) {
	deny := func(ctx context.Context, userID, tenantID string, perms []string) result.Result[bool] {
		return result.Ok(false)
	}
	h := WithPermissions([]string{"inventory:write", "inventory:admin"}, auth.BearerStub, deny,
		func(r *http.Request, id auth.Identity) result.Result[string] {
			return result.Ok("never")
		}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec, resp := doRequest(t, h, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Insufficient permissions. Required: inventory:write, inventory:admin", resp.Error.Message)
}

func TestWithPermissionsGrantsThrough(t *testing.T) {
	h := WithPermissions([]string{"inventory:read"}, auth.BearerStub, auth.AllowAll,
		func(r *http.Request, id auth.Identity) result.Result[string] {
			return result.Ok("granted")
		}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec, resp := doRequest(t, h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "granted", resp.Data)
}

type fakeLimiter struct {
	allowed    bool
	retryAfter int
	err        error
	keys       []string
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.retryAfter, f.err
}

func TestWithRateLimitRejectsOverLimit(t *testing.T) {
	limiter := &fakeLimiter{allowed: false, retryAfter: 60}
	h := WithRateLimit(limiter, 100, "1h", func(r *http.Request) string { return "k" },
		func(r *http.Request) result.Result[string] {
			return result.Ok("never")
		}, Options{})

	rec, resp := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "RateLimitError", resp.Error.Type)
	assert.Equal(t, []string{"k"}, limiter.keys)
}

func TestWithRateLimitFailsOpenOnLimiterError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	h := WithRateLimit(limiter, 100, "1h", func(r *http.Request) string { return "k" },
		func(r *http.Request) result.Result[string] {
			return result.Ok("served")
		}, Options{})

	rec, resp := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "served", resp.Data)
}

func TestRateLimitMiddlewareKeysByTenantHeader(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	mw := RateLimit(limiter, 100, "1h", Options{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Tenant-Id", "t-1")
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"t-1"}, limiter.keys)
}

func TestRateLimitMiddlewareBlocks(t *testing.T) {
	limiter := &fakeLimiter{allowed: false, retryAfter: 30}
	mw := RateLimit(limiter, 10, "1m", Options{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
}

func TestHealthCheck(t *testing.T) {
	h := HealthCheck(map[string]func(ctx context.Context) error{
		"postgres": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return nil },
	}, Options{})

	rec, resp := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	failing := HealthCheck(map[string]func(ctx context.Context) error{
		"postgres": func(ctx context.Context) error { return errors.New("down") },
	}, Options{})

	rec, resp = doRequest(t, failing, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
}

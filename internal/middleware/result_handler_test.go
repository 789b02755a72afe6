package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/inventory-service/internal/apperror"
	"github.com/glowdesk/inventory-service/internal/result"
)

func doRequest(t *testing.T, h http.HandlerFunc, r *http.Request) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, r)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestWithResultSuccessEnvelope(t *testing.T) {
	h := WithResult(func(r *http.Request) result.Result[map[string]int] {
		return result.Ok(map[string]int{"count": 3})
	}, Options{Version: "2.1.0"})

	rec, resp := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/things", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "2.1.0", resp.Meta.Version)
	assert.True(t, strings.HasPrefix(resp.Meta.RequestID, "req_"))
	assert.NotEmpty(t, resp.Meta.Timestamp)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, data["count"])
}

func TestWithResultProjectsErrorKindToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperror.Validation("bad", "field"), http.StatusBadRequest},
		{apperror.NotFound("inventory", "x"), http.StatusNotFound},
		{apperror.Authentication(apperror.AuthExpired, ""), http.StatusUnauthorized},
		{apperror.Authorization("no", "perm", "u"), http.StatusForbidden},
		{apperror.BusinessRule("r", "m", "CODE"), http.StatusUnprocessableEntity},
		{apperror.Database("op", "m", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		h := WithResult(func(r *http.Request) result.Result[string] {
			return result.Err[string](tc.err)
		}, Options{})
		rec, resp := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, tc.want, rec.Code, "for %v", tc.err)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.NotEmpty(t, resp.Error.Message)
	}
}

func TestWithResultCarriesBusinessCodeAndDetails(t *testing.T) {
	err := apperror.BusinessRule("insufficient_stock", "Insufficient stock", "INSUFFICIENT_STOCK").
		WithDetails(map[string]any{"shortfalls": []string{"p1"}})
	h := WithResult(func(r *http.Request) result.Result[string] {
		return result.Err[string](err)
	}, Options{})

	rec, resp := doRequest(t, h, httptest.NewRequest(http.MethodPost, "/deduct", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	assert.Equal(t, "BusinessRuleError", resp.Error.Type)
	assert.NotNil(t, resp.Error.Details)
}

func TestWithResultSetsRetryAfterHeader(t *testing.T) {
	h := WithResult(func(r *http.Request) result.Result[string] {
		return result.Err[string](apperror.RateLimit(10, "1m", 42))
	}, Options{})

	rec, resp := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
	assert.False(t, resp.Success)
}

func TestWithResultRecoversPanics(t *testing.T) {
	h := WithResult(func(r *http.Request) result.Result[string] {
		panic(errors.New("nil map write"))
	}, Options{})

	rec, resp := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Internal server error", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
}

func TestWithResultExposesPanicDetailsInDevelopment(t *testing.T) {
	h := WithResult(func(r *http.Request) result.Result[string] {
		panic("boom")
	}, Options{Development: true})

	rec, resp := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "boom", resp.Error.Details)
}

func TestErrorListDetails(t *testing.T) {
	list := result.ErrorList{
		apperror.Validation("first", "a"),
		apperror.BusinessRule("r", "second", "C2"),
	}
	details, ok := ErrorListDetails(list).([]APIError)
	require.True(t, ok)
	require.Len(t, details, 2)
	assert.Equal(t, "first", details[0].Message)
	assert.Equal(t, "C2", details[1].Code)

	assert.Nil(t, ErrorListDetails(errors.New("not a list")))
}

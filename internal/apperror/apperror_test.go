package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoriesPopulateKindFields(t *testing.T) {
	v := Validation("name is required", "name")
	assert.Equal(t, KindValidation, v.Kind)
	assert.Equal(t, "name", v.Field)

	nf := NotFound("inventory", "abc-123")
	assert.Equal(t, KindNotFound, nf.Kind)
	assert.Equal(t, "inventory", nf.Resource)
	assert.Equal(t, "abc-123", nf.ResourceID)
	assert.Equal(t, "inventory with ID abc-123 not found", nf.Message)

	nf = NotFound("inventory", "")
	assert.Equal(t, "inventory not found", nf.Message)

	az := Authorization("nope", "inventory:write", "u1")
	assert.Equal(t, KindAuthorization, az.Kind)
	assert.Equal(t, "inventory:write", az.Required)
	assert.Equal(t, "u1", az.UserID)

	an := Authentication(AuthMissingToken, "")
	assert.Equal(t, KindAuthentication, an.Kind)
	assert.Equal(t, AuthMissingToken, an.Reason)
	assert.Contains(t, an.Message, "missing_token")

	br := BusinessRule("insufficient_stock", "not enough stock", "INSUFFICIENT_STOCK")
	assert.Equal(t, KindBusinessRule, br.Kind)
	assert.Equal(t, "insufficient_stock", br.Rule)
	assert.Equal(t, "INSUFFICIENT_STOCK", br.Code)

	cause := errors.New("connection refused")
	db := Database("select_inventory", "query failed", cause)
	assert.Equal(t, KindDatabase, db.Kind)
	assert.Equal(t, "select_inventory", db.Operation)
	assert.Same(t, cause, db.Cause)

	rl := RateLimit(100, "1h", 3600)
	assert.Equal(t, KindRateLimit, rl.Kind)
	assert.Equal(t, 100, rl.Limit)
	assert.Equal(t, 3600, rl.RetryAfter)

	tn := Tenant("lookup", "tenant suspended", "t1")
	assert.Equal(t, KindTenant, tn.Kind)
	assert.Equal(t, "t1", tn.TenantID)
}

func TestErrorMessageFormat(t *testing.T) {
	e := Validation("bad input", "qty")
	assert.Equal(t, "ValidationError: bad input", e.Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("m", ""), http.StatusBadRequest},
		{NotFound("r", ""), http.StatusNotFound},
		{Authentication(AuthExpired, ""), http.StatusUnauthorized},
		{Authorization("m", "", ""), http.StatusForbidden},
		{Tenant("op", "m", "t"), http.StatusForbidden},
		{BusinessRule("r", "m", "C"), http.StatusUnprocessableEntity},
		{RateLimit(1, "1m", 60), http.StatusTooManyRequests},
		{Payment("m", "p", "stripe", "C"), http.StatusPaymentRequired},
		{Database("op", "m", nil), http.StatusInternalServerError},
		{Storage("op", "m", "/p", "s3", nil), http.StatusInternalServerError},
		{Network("m", "e", 502, nil), http.StatusInternalServerError},
		{Configuration("s", "m"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), "for %v", tc.err)
	}
}

func TestHTTPStatusFollowsWrapping(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NotFound("inventory", "x"))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}

func TestFromPassesTaxonomyErrorsThrough(t *testing.T) {
	orig := BusinessRule("r", "m", "C")
	got := From(orig, "fallback")
	assert.Same(t, orig, got)

	got = From(fmt.Errorf("wrap: %w", orig), "fallback")
	assert.Same(t, orig, got)
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	got := From(cause, "fallback")
	require.Equal(t, KindDatabase, got.Kind)
	assert.Equal(t, "unknown", got.Operation)
	assert.ErrorIs(t, got, cause)
}

func TestFromNilYieldsValidationFallback(t *testing.T) {
	got := From(nil, "something went wrong")
	require.Equal(t, KindValidation, got.Kind)
	assert.Equal(t, "something went wrong", got.Message)

	got = From(nil, "")
	assert.Equal(t, "Unknown error", got.Message)
}

func TestTypeGuards(t *testing.T) {
	assert.True(t, IsValidation(Validation("m", "")))
	assert.True(t, IsNotFound(fmt.Errorf("w: %w", NotFound("r", ""))))
	assert.True(t, IsBusinessRule(BusinessRule("r", "m", "C")))
	assert.True(t, IsRateLimit(RateLimit(1, "1m", 1)))
	assert.False(t, IsNotFound(Validation("m", "")))
	assert.False(t, IsDatabase(errors.New("plain")))
	assert.False(t, IsTenant(nil))
}

func TestWithDetailsCopies(t *testing.T) {
	orig := BusinessRule("r", "m", "C")
	enriched := orig.WithDetails(map[string]any{"shortfalls": 2})

	assert.Nil(t, orig.Details)
	assert.NotNil(t, enriched.Details)
	assert.NotSame(t, orig, enriched)
	assert.Equal(t, orig.Kind, enriched.Kind)
}

func TestWithContextCopies(t *testing.T) {
	orig := Database("op", "m", nil)
	enriched := orig.WithContext(map[string]any{"tenantId": "t1"})

	assert.Nil(t, orig.Context)
	assert.Equal(t, "t1", enriched.Context["tenantId"])
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("root")
	e := Database("op", "m", cause)
	assert.ErrorIs(t, e, cause)

	var target *Error
	assert.True(t, errors.As(fmt.Errorf("w: %w", e), &target))
	assert.Equal(t, KindDatabase, target.Kind)
}

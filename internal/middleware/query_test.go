package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/inventory-service/internal/result"
)

type listQuery struct {
	Search   string     `query:"search"`
	Category *string    `query:"category"`
	LowStock bool       `query:"lowStockOnly"`
	Page     int        `query:"page"`
	From     *time.Time `query:"from"`
	SortBy   string     `query:"sortBy" validate:"omitempty,oneof=quantity updated_at"`
	Internal string     `query:"-"`
}

func TestBindQueryPopulatesSupportedTypes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/x?search=dye&category=color&lowStockOnly=true&page=3&from=2026-01-02T15:04:05Z", nil)

	r := BindQuery[listQuery](req)
	require.True(t, r.IsOk())

	q := r.Value()
	assert.Equal(t, "dye", q.Search)
	require.NotNil(t, q.Category)
	assert.Equal(t, "color", *q.Category)
	assert.True(t, q.LowStock)
	assert.Equal(t, 3, q.Page)
	require.NotNil(t, q.From)
	assert.Equal(t, 2026, q.From.Year())
	assert.Empty(t, q.Internal)
}

func TestBindQueryLeavesAbsentParamsZero(t *testing.T) {
	r := BindQuery[listQuery](httptest.NewRequest(http.MethodGet, "/x", nil))
	require.True(t, r.IsOk())

	q := r.Value()
	assert.Empty(t, q.Search)
	assert.Nil(t, q.Category)
	assert.Zero(t, q.Page)
}

func TestBindQueryRejectsBadValues(t *testing.T) {
	r := BindQuery[listQuery](httptest.NewRequest(http.MethodGet, "/x?page=abc", nil))
	assert.True(t, r.IsErr())

	r = BindQuery[listQuery](httptest.NewRequest(http.MethodGet, "/x?lowStockOnly=maybe", nil))
	assert.True(t, r.IsErr())

	r = BindQuery[listQuery](httptest.NewRequest(http.MethodGet, "/x?from=yesterday", nil))
	assert.True(t, r.IsErr())
}

func TestBindQueryRunsStructValidation(t *testing.T) {
	r := BindQuery[listQuery](httptest.NewRequest(http.MethodGet, "/x?sortBy=name", nil))
	assert.True(t, r.IsErr())

	r = BindQuery[listQuery](httptest.NewRequest(http.MethodGet, "/x?sortBy=quantity", nil))
	assert.True(t, r.IsOk())
}

func TestWithQueryFeedsBoundStruct(t *testing.T) {
	h := WithQuery(func(r *http.Request, q listQuery) result.Result[string] {
		return result.Ok(q.Search)
	}, Options{})

	rec, resp := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/x?search=gel", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gel", resp.Data)
}
